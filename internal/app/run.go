// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vk/controlgrid/internal/ctxlog"
	"github.com/vk/controlgrid/internal/editorlink"
	"github.com/vk/controlgrid/internal/profile"
	"github.com/vk/controlgrid/internal/watch"
)

// Run loads every profile and ticks the manager until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if err := a.manager.LoadAll(ctx); err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}

	a.startHealthcheckServer(ctx)
	defer a.closeHealthcheckServer(ctx)

	runCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	if a.config.Watch {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.watchProfiles(runCtx)
		}()
	}
	if a.config.EditorURL != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.serveEditor(runCtx)
		}()
	}

	a.logger.Info("Control loop starting.", "tick", a.config.Tick, "active", a.manager.Active().Name)
	a.loop(runCtx)
	a.logger.Info("Control loop stopped.")
	return nil
}

func (a *App) loop(ctx context.Context) {
	ticker := time.NewTicker(a.config.Tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			a.step(ctx, now.Sub(last))
			last = now
		}
	}
}

// step runs one tick. A failed poll skips the tick so devices are not
// reported as detached.
func (a *App) step(ctx context.Context, delta time.Duration) {
	snap, err := a.source.Poll(ctx)
	if err != nil {
		a.logger.Warn("Device poll failed, skipping tick.", "error", err)
		return
	}
	a.manager.Tick(ctx, snap, delta)
	a.link.PublishControls(a.manager.Levels())
}

func (a *App) watchProfiles(ctx context.Context) {
	w := watch.New(a.store.Dir(), profile.Extension, watch.DefaultDebounce, func(path string) {
		if name, ok := a.store.NameOf(path); ok {
			a.manager.RequestReload(name)
		}
	})
	if err := w.Run(ctx); err != nil {
		a.logger.Error("Profile watcher stopped.", "dir", a.store.Dir(), "error", err)
	}
}

// serveEditor keeps the editor link up, reconnecting after a delay while ctx
// is alive.
func (a *App) serveEditor(ctx context.Context) {
	cfg := editorlink.Config{URL: a.config.EditorURL, Namespace: a.config.EditorNamespace}
	for {
		err := a.link.Run(ctx, cfg)
		if ctx.Err() != nil {
			return
		}
		a.logger.Warn("Editor link unavailable, retrying.", "url", cfg.URL, "error", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}
