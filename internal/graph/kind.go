// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"fmt"
	"strconv"
)

// ID identifies a node, pin or link within one graph.
type ID uint64

// String renders the id the way it is written to profile documents.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Kind is the value kind carried by a pin.
type Kind int

const (
	KindButton Kind = iota
	KindTrigger
	KindAxis
	KindHalfAxis
	KindHat
	// KindAdd is a placeholder accepting any concrete kind.
	KindAdd
	// KindAddButton is a placeholder accepting only button-like pins.
	KindAddButton
	// KindAddTrigger is a placeholder that spawns trigger inputs.
	KindAddTrigger
	// KindAddAxis is a placeholder accepting only axis and half-axis pins.
	KindAddAxis
)

var kindNames = map[Kind]string{
	KindButton:     "button",
	KindTrigger:    "trigger",
	KindAxis:       "axis",
	KindHalfAxis:   "half_axis",
	KindHat:        "hat",
	KindAdd:        "add",
	KindAddButton:  "add_button",
	KindAddTrigger: "add_trigger",
	KindAddAxis:    "add_axis",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// IsPlaceholder reports whether k is one of the "Add" kinds.
func (k Kind) IsPlaceholder() bool {
	return k == KindAdd || k == KindAddButton || k == KindAddTrigger || k == KindAddAxis
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown pin kind %q", s)
}

// Direction tells whether a pin consumes or produces values.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}
