// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package editorlink

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/controlgrid/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultConnectTimeout bounds the wait for the first connect event.
const DefaultConnectTimeout = 15 * time.Second

// ErrNoURL is returned by Run when no editor URL is configured.
var ErrNoURL = errors.New("editor URL is empty")

// Config describes the editor endpoint.
type Config struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// Dial connects to the editor and waits for the connection to be accepted.
func Dial(ctx context.Context, cfg Config) (*socket.Socket, error) {
	logger := ctxlog.FromContext(ctx).With("component", "editorlink", "url", cfg.URL)
	if cfg.URL == "" {
		return nil, ErrNoURL
	}
	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse editor URL: %w", err)
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "/"
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to editor.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			} else {
				err = fmt.Errorf("%v", errs[0])
			}
		}
		connectChan <- err
	})

	logger.Debug("Initiating editor connection...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("editor connection failed: %w", err)
		}
		return io, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("waiting for editor connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for editor connection", timeout)
	}
}

// Run connects to the editor, serves its commands until ctx is cancelled,
// and disconnects.
func (l *Link) Run(ctx context.Context, cfg Config) error {
	logger := ctxlog.FromContext(ctx).With("component", "editorlink")

	io, err := Dial(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		l.Attach(nil)
		logger.Info("Disconnecting from editor.", "sid", io.Id())
		io.Disconnect()
	}()

	l.Attach(EmitterFunc(func(event string, payload any) {
		if !io.Connected() {
			logger.Debug("Dropping editor event while disconnected.", "event", event)
			return
		}
		io.Emit(event, payload)
	}))

	for _, name := range l.Commands() {
		command := name
		io.On(types.EventName(command), func(args ...any) {
			var payload any
			if len(args) > 0 {
				payload = args[0]
			}
			logger.Debug("Editor command received.", "command", command)
			l.Dispatch(command, payload)
		})
	}
	io.On(types.EventName("disconnect"), func(reason ...any) {
		logger.Warn("Editor connection lost.", "reason", reason)
	})

	<-ctx.Done()
	return nil
}
