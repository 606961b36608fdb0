// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package devices keeps the device-source nodes of a graph in step with the
// devices that are actually attached.
package devices

import (
	"context"
	"fmt"

	"github.com/vk/controlgrid/internal/ctxlog"
	"github.com/vk/controlgrid/internal/graph"
	"github.com/vk/controlgrid/internal/hid"
	"github.com/vk/controlgrid/internal/nodes"
)

// Result counts what one Sync call changed.
type Result struct {
	Disconnected int
	Rebound      int
	Created      int
}

// Changed reports whether Sync mutated anything.
func (r Result) Changed() bool {
	return r.Disconnected+r.Rebound+r.Created > 0
}

// Sync reconciles the device-source nodes of g with the live devices.
//
// Nodes whose device slot vanished, or now holds a different device, are
// marked disconnected and keep their values. Each live device not already
// bound is matched to a disconnected node by GUID and rebound; failing that a
// new device node is created. Calling Sync again with the same devices
// changes nothing.
func Sync(ctx context.Context, g *graph.Graph, live []hid.Info) (Result, error) {
	logger := ctxlog.FromContext(ctx)
	var res Result

	byIndex := make(map[int]hid.Info, len(live))
	for _, info := range live {
		byIndex[info.Index] = info
	}

	bound := make(map[int]bool, len(live))
	var idle []*graph.Node
	for _, n := range g.DeviceNodes() {
		d, ok := n.Behavior().(*nodes.Device)
		if !ok {
			continue
		}
		if d.Connected() {
			info, present := byIndex[d.Index()]
			if present && info.GUID == d.GUID && !bound[info.Index] {
				bound[info.Index] = true
				continue
			}
			d.Disconnect()
			res.Disconnected++
			logger.Info("Device disconnected.", "node_id", n.ID().String(), "device", n.Name())
			g.Notify(ctx, graph.Notice{
				Kind:    graph.NoticeDeviceDisconnected,
				Message: fmt.Sprintf("%s disconnected.", n.Name()),
				Subject: n.ID(),
			})
		}
		idle = append(idle, n)
	}

	for _, info := range live {
		if bound[info.Index] {
			continue
		}
		bound[info.Index] = true

		if n := takeByGUID(&idle, info); n != nil {
			n.Behavior().(*nodes.Device).Bind(info.Index)
			res.Rebound++
			logger.Info("Device reconnected.", "node_id", n.ID().String(), "device", info.Name, "index", info.Index)
			g.Notify(ctx, graph.Notice{
				Kind:    graph.NoticeDeviceConnected,
				Message: fmt.Sprintf("%s reconnected.", info.Name),
				Subject: n.ID(),
			})
			continue
		}

		n := nodes.NewDevice(info)
		id, err := g.CreateNode(n)
		if err != nil {
			return res, fmt.Errorf("sync device %s: %w", info.GUID, err)
		}
		res.Created++
		logger.Info("Device node created.", "node_id", id.String(), "device", info.Name, "index", info.Index)
		g.Notify(ctx, graph.Notice{
			Kind:    graph.NoticeDeviceConnected,
			Message: fmt.Sprintf("%s connected.", info.Name),
			Subject: id,
		})
	}

	if res.Changed() {
		logger.Debug("Devices reconciled.", "disconnected", res.Disconnected, "rebound", res.Rebound, "created", res.Created)
	}
	return res, nil
}

// takeByGUID removes and returns the first idle node bound to info's GUID.
func takeByGUID(idle *[]*graph.Node, info hid.Info) *graph.Node {
	for i, n := range *idle {
		if n.Behavior().(*nodes.Device).GUID == info.GUID {
			*idle = append((*idle)[:i], (*idle)[i+1:]...)
			return n
		}
	}
	return nil
}
