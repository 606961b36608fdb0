// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"context"

	"github.com/vk/controlgrid/internal/ctxlog"
)

// NoticeKind classifies a user-visible notification.
type NoticeKind string

const (
	NoticeCycleRejected      NoticeKind = "cycle_rejected"
	NoticeIncompatiblePins   NoticeKind = "incompatible_pins"
	NoticeProfileDisabled    NoticeKind = "profile_disabled"
	NoticeDeviceConnected    NoticeKind = "device_connected"
	NoticeDeviceDisconnected NoticeKind = "device_disconnected"
)

// Notice is a non-blocking notification raised for the user.
type Notice struct {
	Kind    NoticeKind
	Message string
	// Subject is the node or link the notice is about, when there is one.
	Subject ID
}

// Notifier receives notices. Implementations must not block and must not
// call back into the graph.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// LogNotifier writes notices to the context logger at warn level.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n Notice) {
	ctxlog.FromContext(ctx).Warn(n.Message, "notice", string(n.Kind), "subject", n.Subject.String())
}
