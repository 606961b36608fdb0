// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/controlgrid/internal/ctxlog"
	"github.com/vk/controlgrid/internal/editorlink"
	"github.com/vk/controlgrid/internal/graph"
	"github.com/vk/controlgrid/internal/hid"
	"github.com/vk/controlgrid/internal/manager"
	"github.com/vk/controlgrid/internal/profile"
	"github.com/vk/controlgrid/internal/registry"
	"github.com/vk/controlgrid/internal/vehicle"
)

// Option customizes an App.
type Option func(*App)

// WithSource sets the input device source. Without it the app runs with no
// attached devices.
func WithSource(s hid.Source) Option {
	return func(a *App) { a.source = s }
}

// WithVehicle sets the vehicle that command sinks drive and the sink that
// receives key bindings.
func WithVehicle(v vehicle.Vehicle, keys vehicle.KeySink) Option {
	return func(a *App) {
		a.vehicle = v
		a.keys = keys
	}
}

// WithModules replaces the compiled-in node modules.
func WithModules(modules ...registry.Module) Option {
	return func(a *App) { a.modules = modules }
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	modules  []registry.Module
	registry *registry.Registry
	store    *profile.Store
	manager  *manager.Manager
	link     *editorlink.Link
	source   hid.Source
	vehicle  vehicle.Vehicle
	keys     vehicle.KeySink

	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// An invalid registry is a programmer error and panics.
func NewApp(outW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		modules: coreModules,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.source == nil {
		a.source = hid.NewStatic()
	}
	if a.vehicle == nil {
		rec := &vehicle.Recorder{}
		a.vehicle, a.keys = rec, rec
	}
	if a.keys == nil {
		a.keys = vehicle.Nop{}
	}

	a.registry = registry.New(a.modules...)
	logger.Debug("All node modules registered.", "count", len(a.modules), "types", len(a.registry.Types()))
	if err := a.registry.Validate(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	a.store = profile.NewStore(cfg.ProfilesDir)
	a.manager = manager.New(a.registry, manager.Options{
		Store:    a.store,
		Active:   cfg.Active,
		Notifier: graph.NotifierFunc(a.notify),
		Vehicle:  a.vehicle,
		Keys:     a.keys,
	})
	a.link = editorlink.New(a.manager, a.registry)
	return a
}

// notify logs a notice and forwards it to the editor when one is connected.
func (a *App) notify(ctx context.Context, n graph.Notice) {
	graph.LogNotifier{}.Notify(ctx, n)
	a.link.Notify(ctx, n)
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Manager returns the application's profile manager. It must only be used
// from the tick thread while Run is active; tests use it after Run returns.
func (a *App) Manager() *manager.Manager {
	return a.manager
}
