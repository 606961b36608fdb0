// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package editorlink

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vk/controlgrid/internal/controls"
	"github.com/vk/controlgrid/internal/ctxlog"
	"github.com/vk/controlgrid/internal/graph"
	"github.com/vk/controlgrid/internal/manager"
	"github.com/vk/controlgrid/internal/registry"
)

// Emitter sends an event to the editor.
type Emitter interface {
	Emit(event string, payload any)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(event string, payload any)

func (f EmitterFunc) Emit(event string, payload any) { f(event, payload) }

// Link turns editor events into manager commands and manager output into
// editor events.
type Link struct {
	mgr      *manager.Manager
	reg      *registry.Registry
	handlers map[string]handler

	mu   sync.Mutex
	out  Emitter
	last controls.Levels
	sent bool
}

// New creates a link. Events are dropped until an emitter is attached.
func New(mgr *manager.Manager, reg *registry.Registry) *Link {
	l := &Link{mgr: mgr, reg: reg}
	l.handlers = l.commands()
	return l
}

// Attach sets the emitter replies and notices are sent through. A nil
// emitter detaches.
func (l *Link) Attach(e Emitter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = e
	l.sent = false
}

// Commands returns the event names the link answers, sorted.
func (l *Link) Commands() []string {
	names := make([]string, 0, len(l.handlers))
	for name := range l.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *Link) emit(event string, payload any) {
	l.mu.Lock()
	out := l.out
	l.mu.Unlock()
	if out != nil {
		out.Emit(event, payload)
	}
}

// Dispatch queues command onto the manager's tick thread. It is safe to call
// from any goroutine; the reply is emitted once the command has run.
func (l *Link) Dispatch(command string, payload any) {
	args, _ := payload.(map[string]any)
	if args == nil {
		args = map[string]any{}
	}
	l.mgr.Enqueue(func(ctx context.Context, m *manager.Manager) {
		res, err := l.Execute(ctx, m, command, args)
		l.reply(ctx, command, args, res, err)
	})
}

// Execute runs command against m on the calling goroutine.
func (l *Link) Execute(ctx context.Context, m *manager.Manager, command string, args Args) (Result, error) {
	h, ok := l.handlers[command]
	if !ok {
		return nil, fmt.Errorf("unknown command %q: %w", command, ErrBadRequest)
	}
	return h(ctx, m, args)
}

func (l *Link) reply(ctx context.Context, command string, args Args, res Result, err error) {
	out := map[string]any{}
	if req, ok := args["request"]; ok {
		out["request"] = req
	}
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Editor command failed.", "command", command, "error", err)
		out["error"] = err.Error()
	} else {
		for k, v := range res {
			out[k] = v
		}
	}
	l.emit(command+"_result", out)
}

// Notify implements graph.Notifier by forwarding notices to the editor.
func (l *Link) Notify(_ context.Context, n graph.Notice) {
	l.emit("notice", map[string]any{
		"kind":    string(n.Kind),
		"message": n.Message,
		"subject": n.Subject.String(),
	})
}

// PublishControls sends the committed control levels when they differ from
// the last levels sent.
func (l *Link) PublishControls(levels controls.Levels) {
	l.mu.Lock()
	if l.sent && levels == l.last {
		l.mu.Unlock()
		return
	}
	l.last, l.sent = levels, true
	l.mu.Unlock()

	ch := make(map[string]int32, controls.NumChannels)
	for c := controls.Channel(0); c < controls.NumChannels; c++ {
		ch[c.String()] = levels.Channels[c]
	}
	aero := make(map[string]int32, controls.NumAero)
	for c := controls.AeroChannel(0); c < controls.NumAero; c++ {
		aero[c.String()] = levels.Aero[c]
	}
	l.emit("controls", map[string]any{"channels": ch, "aero": aero})
}
