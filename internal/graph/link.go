// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

// Link is an immutable edge from one output pin to one input pin. Edits are
// modelled as delete plus create.
type Link struct {
	id  ID
	in  ID
	out ID
}

func (l *Link) ID() ID { return l.id }

// In is the id of the consuming input pin.
func (l *Link) In() ID { return l.in }

// Out is the id of the producing output pin.
func (l *Link) Out() ID { return l.out }
