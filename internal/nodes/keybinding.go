// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nodes

import (
	"fmt"

	"github.com/vk/controlgrid/internal/graph"
	"github.com/vk/controlgrid/internal/vehicle"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// binding is the settings shape of one key binding.
type binding struct {
	Code      int `cty:"code"`
	Modifiers int `cty:"modifiers"`
}

var bindingType = cty.Object(map[string]cty.Type{
	"code":      cty.Number,
	"modifiers": cty.Number,
})

// KeyBinding emits a key event each time one of its trigger inputs fires.
// Input i is bound to Keys[i]; inputs are added through its Add-Trigger pin.
type KeyBinding struct {
	Keys []vehicle.KeyEvent
}

func NewKeyBinding() *graph.Node {
	n := graph.NewNode("key_binding", "Key Binding", &KeyBinding{}).MarkSink()
	n.SetInputPlaceholder("Add", graph.KindAddTrigger)
	return n
}

// Bind sets the key sent by input i.
func (k *KeyBinding) Bind(i int, ev vehicle.KeyEvent) {
	for len(k.Keys) <= i {
		k.Keys = append(k.Keys, vehicle.KeyEvent{})
	}
	k.Keys[i] = ev
}

func (k *KeyBinding) PinAdded(n *graph.Node, p *graph.Pin) {
	if p.Dir() == graph.Input {
		k.Bind(len(n.Inputs())-1, vehicle.KeyEvent{})
	}
}

// PinRemoved drops the key bound to a removed input.
func (k *KeyBinding) PinRemoved(_ *graph.Node, p *graph.Pin, index int) {
	if p.Dir() == graph.Input && index < len(k.Keys) {
		k.Keys = append(k.Keys[:index], k.Keys[index+1:]...)
	}
}

func (k *KeyBinding) Update(n *graph.Node, env *graph.Env) {
	for i, p := range n.Inputs() {
		if p.Bool() && i < len(k.Keys) {
			env.Keys.PushKey(k.Keys[i])
		}
	}
}

func (k *KeyBinding) Preview(*graph.Node, *graph.Env) {}

func (k *KeyBinding) Attrs() map[string]cty.Value {
	if len(k.Keys) == 0 {
		return map[string]cty.Value{"keys": cty.ListValEmpty(bindingType)}
	}
	list := make([]binding, len(k.Keys))
	for i, ev := range k.Keys {
		list[i] = binding{Code: ev.Code, Modifiers: int(ev.Modifiers)}
	}
	v, err := gocty.ToCtyValue(list, cty.List(bindingType))
	if err != nil {
		// Every field is a plain int, so conversion cannot fail.
		panic(fmt.Sprintf("key bindings: %v", err))
	}
	return map[string]cty.Value{"keys": v}
}

func (k *KeyBinding) SetAttrs(attrs map[string]cty.Value) error {
	for name := range attrs {
		if name != "keys" {
			return fmt.Errorf("setting %q: %w", name, ErrBadSetting)
		}
	}
	v, ok := attrs["keys"]
	if !ok || v.IsNull() {
		return nil
	}
	v, err := convert.Convert(v, cty.List(bindingType))
	if err != nil {
		return fmt.Errorf("setting \"keys\": %v: %w", err, ErrBadSetting)
	}

	var list []binding
	if v.LengthInt() > 0 {
		if err := gocty.FromCtyValue(v, &list); err != nil {
			return fmt.Errorf("setting \"keys\": %v: %w", err, ErrBadSetting)
		}
	}
	k.Keys = make([]vehicle.KeyEvent, len(list))
	for i, b := range list {
		k.Keys[i] = vehicle.KeyEvent{Code: b.Code, Modifiers: vehicle.Modifier(b.Modifiers)}
	}
	return nil
}
