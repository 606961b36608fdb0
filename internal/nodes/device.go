// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nodes

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/vk/controlgrid/internal/graph"
	"github.com/vk/controlgrid/internal/hid"
	"github.com/zclconf/go-cty/cty"
)

// DeviceType is the type tag of device-source nodes.
const DeviceType = "device"

// Device exposes one physical device as output pins: an axis per device
// axis, a button per device button and four buttons per hat. While
// disconnected the outputs keep their last values.
type Device struct {
	GUID    uuid.UUID
	Label   string
	Axes    int
	Buttons int
	Hats    int

	index     int
	connected bool
}

// NewDevice builds a connected device-source node for a live device.
func NewDevice(info hid.Info) *graph.Node {
	d := &Device{
		GUID:      info.GUID,
		Label:     info.Name,
		Axes:      info.Axes,
		Buttons:   info.Buttons,
		Hats:      info.Hats,
		index:     info.Index,
		connected: true,
	}
	n := graph.NewNode(DeviceType, info.Name, d)
	n.MarkDeviceSource()
	n.SetDeletable(false)
	d.Shape(n)
	return n
}

// newStoredDevice is the registry constructor. The node starts disconnected
// with no pins; the loader lays them out from the stored settings.
func newStoredDevice() *graph.Node {
	d := &Device{index: -1}
	n := graph.NewNode(DeviceType, "Device", d)
	n.MarkDeviceSource()
	n.SetDeletable(false)
	return n
}

// Shape adds the output pins described by the device layout. It does nothing
// when the node already has outputs.
func (d *Device) Shape(n *graph.Node) {
	if len(n.Outputs()) > 0 {
		return
	}
	for i := 0; i < d.Axes; i++ {
		n.AddOutput(fmt.Sprintf("Axis %d", i+1), graph.KindAxis)
	}
	for i := 0; i < d.Buttons; i++ {
		n.AddOutput(fmt.Sprintf("Button %d", i+1), graph.KindButton)
	}
	for i := 0; i < d.Hats; i++ {
		for _, dir := range hid.HatDirections {
			n.AddOutput(fmt.Sprintf("Hat %d %s", i+1, dir), graph.KindButton)
		}
	}
}

// Connected reports whether the node is bound to a live device.
func (d *Device) Connected() bool { return d.connected }

// Index is the live device slot the node reads from, or -1 when disconnected.
func (d *Device) Index() int {
	if !d.connected {
		return -1
	}
	return d.index
}

// Bind attaches the node to the device at a live slot.
func (d *Device) Bind(index int) {
	d.index = index
	d.connected = true
}

// Disconnect freezes the node's outputs until it is bound again.
func (d *Device) Disconnect() {
	d.connected = false
}

func (d *Device) Update(n *graph.Node, env *graph.Env) {
	if !d.connected {
		return
	}
	dev, ok := env.Devices.Device(d.index)
	if !ok || dev.GUID != d.GUID {
		return
	}

	outs := n.Outputs()
	i := 0
	for a := 0; a < d.Axes && i < len(outs); a, i = a+1, i+1 {
		p := outs[i]
		p.SetFloat(ApplyDeadzone(dev.Axis(a), p.Deadzone()))
	}
	for b := 0; b < d.Buttons && i < len(outs); b, i = b+1, i+1 {
		outs[i].SetBool(dev.Button(b))
	}
	for h := 0; h < d.Hats; h++ {
		hat := dev.HatAt(h)
		for _, dir := range hid.HatDirections {
			if i >= len(outs) {
				return
			}
			outs[i].SetBool(hat.Has(dir))
			i++
		}
	}
}

func (d *Device) Attrs() map[string]cty.Value {
	return map[string]cty.Value{
		"guid":    cty.StringVal(d.GUID.String()),
		"device":  cty.StringVal(d.Label),
		"axes":    integer(d.Axes),
		"buttons": integer(d.Buttons),
		"hats":    integer(d.Hats),
	}
}

func (d *Device) SetAttrs(attrs map[string]cty.Value) error {
	var guid string
	if err := (settings{
		"guid":    &guid,
		"device":  &d.Label,
		"axes":    &d.Axes,
		"buttons": &d.Buttons,
		"hats":    &d.Hats,
	}).apply(attrs); err != nil {
		return err
	}
	if guid == "" {
		return nil
	}
	id, err := uuid.Parse(guid)
	if err != nil {
		return fmt.Errorf("setting \"guid\": %v: %w", err, ErrBadSetting)
	}
	d.GUID = id
	return nil
}

// ApplyDeadzone zeroes values whose magnitude is below dz and rescales the
// rest so the output still spans the full range.
func ApplyDeadzone(v, dz float64) float64 {
	if dz <= 0 {
		return v
	}
	mag := math.Abs(v)
	if mag < dz {
		return 0
	}
	out := (mag - dz) / (1 - dz)
	if out > 1 {
		out = 1
	}
	return math.Copysign(out, v)
}
