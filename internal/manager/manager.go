// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package manager owns every profile graph of a session: which one drives the
// vehicle, which one is being edited, and the tick that evaluates them.
//
// The manager is not safe for concurrent use. Other goroutines hand work to
// the tick thread through Enqueue and RequestReload.
package manager

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vk/controlgrid/internal/controls"
	"github.com/vk/controlgrid/internal/ctxlog"
	"github.com/vk/controlgrid/internal/devices"
	"github.com/vk/controlgrid/internal/graph"
	"github.com/vk/controlgrid/internal/hid"
	"github.com/vk/controlgrid/internal/profile"
	"github.com/vk/controlgrid/internal/registry"
	"github.com/vk/controlgrid/internal/vehicle"
)

// DefaultProfile is the profile the manager falls back to. It always exists.
const DefaultProfile = "Default"

var (
	ErrUnknownProfile  = errors.New("unknown profile")
	ErrProfileDisabled = errors.New("profile is disabled")
)

// Command is a unit of work run on the tick thread.
type Command func(ctx context.Context, m *Manager)

// Options configures a Manager.
type Options struct {
	Store    *profile.Store
	Active   string
	Notifier graph.Notifier
	Vehicle  vehicle.Vehicle
	Keys     vehicle.KeySink
}

// Manager is the graph manager context of one session.
type Manager struct {
	reg      *registry.Registry
	store    *profile.Store
	notifier graph.Notifier
	vehicle  vehicle.Vehicle
	keys     vehicle.KeySink

	profiles map[string]*profile.Profile
	// digests holds the checksum of each profile's document as last read or
	// written, so reloads of unchanged files are skipped.
	digests map[string][sha256.Size]byte
	active  string
	edited  string
	devices []hid.Info
	frame   *controls.Frame

	mu    sync.Mutex
	queue []Command
}

// New creates a manager with no profiles loaded.
func New(reg *registry.Registry, opts Options) *Manager {
	m := &Manager{
		reg:      reg,
		store:    opts.Store,
		vehicle:  opts.Vehicle,
		keys:     opts.Keys,
		profiles: make(map[string]*profile.Profile),
		digests:  make(map[string][sha256.Size]byte),
		active:   opts.Active,
		frame:    controls.NewFrame(),
	}
	if m.active == "" {
		m.active = DefaultProfile
	}
	m.edited = m.active

	next := opts.Notifier
	if next == nil {
		next = graph.LogNotifier{}
	}
	m.notifier = graph.NotifierFunc(func(ctx context.Context, n graph.Notice) {
		noticesTotal.WithLabelValues(string(n.Kind)).Inc()
		next.Notify(ctx, n)
	})
	return m
}

// LoadAll loads every stored profile and makes sure the default profile
// exists, creating and saving an empty one when it does not.
func (m *Manager) LoadAll(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	var names []string
	if m.store != nil {
		var err error
		names, err = m.store.List()
		if err != nil {
			return err
		}
	}
	for _, name := range names {
		m.load(ctx, name, false)
	}

	if _, ok := m.profiles[DefaultProfile]; !ok {
		logger.Info("Creating empty default profile.", "profile", DefaultProfile)
		m.put(ctx, &profile.Profile{Name: DefaultProfile, Graph: m.newGraph()})
		if m.store != nil {
			if err := m.Save(ctx, DefaultProfile); err != nil {
				return err
			}
		}
	}

	m.ensureActive(ctx)
	logger.Info("Profiles loaded.", "count", len(m.profiles), "active", m.active)
	return nil
}

func (m *Manager) newGraph() *graph.Graph {
	return graph.New(graph.WithNotifier(m.notifier))
}

// load reads one profile from the store. A document that cannot be loaded
// is replaced by a disabled, empty profile and a notice is raised. When
// skipUnchanged is set and the document matches what was last read or
// written, nothing happens.
func (m *Manager) load(ctx context.Context, name string, skipUnchanged bool) {
	logger := ctxlog.FromContext(ctx)

	p, err := m.readProfile(ctx, name, skipUnchanged)
	if errors.Is(err, errUnchanged) {
		logger.Debug("Profile unchanged on disk; reload skipped.", "profile", name)
		return
	}
	if err != nil {
		logger.Error("Profile failed to load; disabling it.", "profile", name, "error", err)
		loadFailures.Inc()
		m.notifier.Notify(ctx, graph.Notice{
			Kind:    graph.NoticeProfileDisabled,
			Message: fmt.Sprintf("Profile %s could not be loaded and was disabled: %v", name, err),
		})
		p = &profile.Profile{Name: name, Disabled: true, Graph: m.newGraph()}
	}
	if p.Name != name {
		logger.Warn("Profile document names a different profile; using the file name.", "profile", name, "classname", p.Name)
		p.Name = name
	}
	m.put(ctx, p)
	m.ensureActive(ctx)
}

var errUnchanged = errors.New("profile unchanged")

func (m *Manager) readProfile(ctx context.Context, name string, skipUnchanged bool) (*profile.Profile, error) {
	if m.store == nil {
		return nil, fmt.Errorf("profile %s: no store configured", name)
	}
	data, err := m.store.Read(name)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	if prev, ok := m.digests[name]; skipUnchanged && ok && prev == sum {
		return nil, errUnchanged
	}
	m.digests[name] = sum
	return profile.Load(ctx, data, m.store.Path(name), m.reg, graph.WithNotifier(m.notifier))
}

// put installs p and binds it to the devices seen so far.
func (m *Manager) put(ctx context.Context, p *profile.Profile) {
	m.profiles[p.Name] = p
	if !p.Disabled && len(m.devices) > 0 {
		if _, err := devices.Sync(ctx, p.Graph, m.devices); err != nil {
			ctxlog.FromContext(ctx).Error("Device sync failed.", "profile", p.Name, "error", err)
		}
	}
	graphNodes.WithLabelValues(p.Name).Set(float64(len(p.Graph.Nodes())))
	graphLinks.WithLabelValues(p.Name).Set(float64(len(p.Graph.Links())))
}

// ensureActive falls back to the default profile when the active or edited
// profile is missing or disabled.
func (m *Manager) ensureActive(ctx context.Context) {
	if _, ok := m.profiles[DefaultProfile]; !ok {
		return
	}
	if p, ok := m.profiles[m.active]; !ok || p.Disabled {
		if m.active != DefaultProfile {
			ctxlog.FromContext(ctx).Warn("Active profile unavailable; falling back.", "profile", m.active, "fallback", DefaultProfile)
		}
		m.active = DefaultProfile
	}
	if _, ok := m.profiles[m.edited]; !ok {
		m.edited = m.active
	}
}

// Names lists the loaded profiles, sorted.
func (m *Manager) Names() []string {
	out := make([]string, 0, len(m.profiles))
	for name := range m.profiles {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Profile returns a loaded profile by name.
func (m *Manager) Profile(name string) (*profile.Profile, bool) {
	p, ok := m.profiles[name]
	return p, ok
}

// Active returns the profile driving the vehicle.
func (m *Manager) Active() *profile.Profile { return m.profiles[m.active] }

// Edited returns the profile open in the editor.
func (m *Manager) Edited() *profile.Profile { return m.profiles[m.edited] }

// Activate makes name the profile that drives the vehicle.
func (m *Manager) Activate(name string) error {
	p, ok := m.profiles[name]
	if !ok {
		return fmt.Errorf("activate %s: %w", name, ErrUnknownProfile)
	}
	if p.Disabled {
		return fmt.Errorf("activate %s: %w", name, ErrProfileDisabled)
	}
	m.active = name
	return nil
}

// Edit selects the profile the editor works on.
func (m *Manager) Edit(name string) error {
	if _, ok := m.profiles[name]; !ok {
		return fmt.Errorf("edit %s: %w", name, ErrUnknownProfile)
	}
	m.edited = name
	return nil
}

// Create adds an empty profile. It is not saved until Save is called.
func (m *Manager) Create(ctx context.Context, name string) (*profile.Profile, error) {
	if name == "" {
		return nil, fmt.Errorf("create profile: empty name: %w", ErrUnknownProfile)
	}
	if p, ok := m.profiles[name]; ok {
		return p, nil
	}
	p := &profile.Profile{Name: name, Graph: m.newGraph()}
	m.put(ctx, p)
	return p, nil
}

// Save writes a profile to the store.
func (m *Manager) Save(ctx context.Context, name string) error {
	p, ok := m.profiles[name]
	if !ok {
		return fmt.Errorf("save %s: %w", name, ErrUnknownProfile)
	}
	if m.store == nil {
		return fmt.Errorf("save %s: no store configured", name)
	}
	data, err := profile.Save(ctx, p)
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	if err := m.store.Write(name, data); err != nil {
		return err
	}
	m.digests[name] = sha256.Sum256(data)
	ctxlog.FromContext(ctx).Info("Profile saved.", "profile", name, "path", m.store.Path(name))
	return nil
}

// Reload re-reads a profile from the store, replacing its graph. A document
// identical to the one last read or written is ignored.
func (m *Manager) Reload(ctx context.Context, name string) {
	ctxlog.FromContext(ctx).Info("Reloading profile.", "profile", name)
	m.load(ctx, name, true)
}

// Enqueue schedules cmd to run at the start of the next tick. It is safe to
// call from any goroutine.
func (m *Manager) Enqueue(cmd Command) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, cmd)
}

// RequestReload schedules a reload of name on the tick thread.
func (m *Manager) RequestReload(name string) {
	m.Enqueue(func(ctx context.Context, m *Manager) { m.Reload(ctx, name) })
}

func (m *Manager) drain(ctx context.Context) {
	m.mu.Lock()
	cmds := m.queue
	m.queue = nil
	m.mu.Unlock()

	for _, cmd := range cmds {
		cmd(ctx, m)
	}
}

// Levels returns the control levels committed by the last tick.
func (m *Manager) Levels() controls.Levels { return m.frame.Levels() }

// Tick runs one simulation step: queued commands, device reconciliation when
// the attached devices changed, then a live pass of the active graph and a
// preview pass of the edited one. Graph errors are logged and counted; they
// never stop the tick. A failed live pass publishes zero on every channel.
func (m *Manager) Tick(ctx context.Context, snap *hid.Snapshot, delta time.Duration) {
	start := time.Now()
	logger := ctxlog.FromContext(ctx)

	m.drain(ctx)

	if snap == nil {
		snap = hid.NewSnapshot()
	}
	if live := snap.Infos(); !hid.SameDevices(live, m.devices) {
		m.syncDevices(ctx, live)
	}

	env := &graph.Env{
		Devices: snap,
		Frame:   m.frame,
		Vehicle: m.vehicle,
		Keys:    m.keys,
		Delta:   delta,
	}
	live := false
	if p := m.Active(); p != nil && !p.Disabled {
		if err := p.Graph.Execute(ctx, env); err != nil {
			evalErrors.WithLabelValues("execute").Inc()
			logger.Error("Live pass failed.", "profile", p.Name, "error", err)
		} else {
			live = true
		}
	}
	if !live {
		// Without a successful live pass no sink wrote this tick.
		m.frame.Reset()
	}
	if m.edited != m.active {
		if p := m.Edited(); p != nil && !p.Disabled {
			preview := *env
			preview.Frame = controls.NewFrame()
			if err := p.Graph.Simulate(ctx, &preview); err != nil {
				evalErrors.WithLabelValues("simulate").Inc()
				logger.Error("Preview pass failed.", "profile", p.Name, "error", err)
			}
		}
	}

	ticksTotal.Inc()
	tickDuration.Observe(time.Since(start).Seconds())
}

func (m *Manager) syncDevices(ctx context.Context, live []hid.Info) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Attached devices changed.", "count", len(live))
	m.devices = live
	devicesAttached.Set(float64(len(live)))

	for _, name := range m.Names() {
		p := m.profiles[name]
		if p.Disabled {
			continue
		}
		if _, err := devices.Sync(ctx, p.Graph, live); err != nil {
			logger.Error("Device sync failed.", "profile", name, "error", err)
		}
		graphNodes.WithLabelValues(name).Set(float64(len(p.Graph.Nodes())))
	}
}
