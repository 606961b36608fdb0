// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nodes

import (
	"github.com/vk/controlgrid/internal/graph"
	"github.com/zclconf/go-cty/cty"
)

// Comment is a free-text annotation with no pins.
type Comment struct {
	Text string
}

func NewComment() *graph.Node {
	return graph.NewNode("comment", "Comment", &Comment{})
}

func (*Comment) Update(*graph.Node, *graph.Env) {}

func (c *Comment) Attrs() map[string]cty.Value {
	return map[string]cty.Value{"text": cty.StringVal(c.Text)}
}

func (c *Comment) SetAttrs(attrs map[string]cty.Value) error {
	return settings{"text": &c.Text}.apply(attrs)
}
