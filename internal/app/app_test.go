// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/controlgrid/internal/controls"
	"github.com/vk/controlgrid/internal/graph"
	"github.com/vk/controlgrid/internal/hid"
	"github.com/vk/controlgrid/internal/manager"
	"github.com/vk/controlgrid/internal/nodes"
	"github.com/vk/controlgrid/internal/profile"
	"github.com/vk/controlgrid/internal/registry"
	"github.com/vk/controlgrid/internal/vehicle"
)

func stick(guid uuid.UUID, pitch float64) hid.Device {
	return hid.Device{
		Info:  hid.Info{Index: 0, GUID: guid, Name: "Stick", Axes: 1, Buttons: 1},
		State: hid.State{Axes: []float64{pitch}, Buttons: []bool{false}},
	}
}

// writeFlightProfile stores a profile linking the stick's first axis to pitch.
func writeFlightProfile(t *testing.T, dir string, guid uuid.UUID) {
	t.Helper()
	g := graph.New()
	dev := nodes.NewDevice(hid.Info{Index: 0, GUID: guid, Name: "Stick", Axes: 1, Buttons: 1})
	_, err := g.CreateNode(dev)
	require.NoError(t, err)
	att := nodes.NewAttitude()
	_, err = g.CreateNode(att)
	require.NoError(t, err)
	_, err = g.CreateLink(dev.Output(0).ID(), att.Input(int(controls.Pitch)).ID())
	require.NoError(t, err)

	data, err := profile.Save(context.Background(), &profile.Profile{Name: "Flight", Graph: g})
	require.NoError(t, err)
	require.NoError(t, profile.NewStore(dir).Write("Flight", data))
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults tick", cfg: Config{ProfilesDir: "p"}},
		{name: "missing dir", cfg: Config{}, wantErr: true},
		{name: "negative tick", cfg: Config{ProfilesDir: "p", Tick: -time.Second}, wantErr: true},
		{name: "bad port", cfg: Config{ProfilesDir: "p", HealthcheckPort: 70000}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultTick, cfg.Tick)
		})
	}
}

func TestRun_DrivesVehicleFromStoredProfile(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	guid := uuid.New()
	writeFlightProfile(t, dir, guid)
	source := hid.NewStatic(stick(guid, 0.5))
	rec := &vehicle.Recorder{}

	cfg, err := NewConfig(Config{ProfilesDir: dir, Active: "Flight", Tick: 5 * time.Millisecond})
	require.NoError(t, err)
	a, logs := SetupAppTest(t, cfg, WithSource(source), WithVehicle(rec, rec))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	// --- Act ---
	runErr := a.Run(ctx)

	// --- Assert ---
	require.NoError(t, runErr)
	m := a.Manager()
	assert.Equal(t, "Flight", m.Active().Name)
	assert.Equal(t, int32(16384), m.Levels().Channels[controls.Pitch])
	assert.ElementsMatch(t, []string{manager.DefaultProfile, "Flight"}, m.Names())
	assert.Contains(t, logs.String(), "Control loop starting.")
	_, statErr := os.Stat(filepath.Join(dir, manager.DefaultProfile+profile.Extension))
	assert.NoError(t, statErr)
}

func TestRun_WatchReloadsChangedProfile(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	guid := uuid.New()
	cfg, err := NewConfig(Config{ProfilesDir: dir, Active: "Flight", Tick: 5 * time.Millisecond, Watch: true})
	require.NoError(t, err)
	a, _ := SetupAppTest(t, cfg, WithSource(hid.NewStatic(stick(guid, 0.5))))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	// --- Act ---
	// Flight does not exist yet, so the app starts on Default.
	time.Sleep(100 * time.Millisecond)
	writeFlightProfile(t, dir, guid)
	time.Sleep(600 * time.Millisecond)
	cancel()

	// --- Assert ---
	require.NoError(t, <-done)
	_, ok := a.Manager().Profile("Flight")
	assert.True(t, ok, "watcher should have loaded the new profile")
}

func TestNewApp_PanicsOnInvalidRegistry(t *testing.T) {
	cfg, err := NewConfig(Config{ProfilesDir: t.TempDir()})
	require.NoError(t, err)

	assert.Panics(t, func() {
		NewApp(&SafeBuffer{}, cfg, WithModules(brokenModule{}))
	})
}

type brokenModule struct{}

func (brokenModule) Register(r *registry.Registry) {
	r.Register("broken", "logic", func() *graph.Node { return nil })
}

func TestHealthMux(t *testing.T) {
	cfg, err := NewConfig(Config{ProfilesDir: t.TempDir()})
	require.NoError(t, err)
	a, _ := SetupAppTest(t, cfg)
	srv := httptest.NewServer(a.healthMux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
