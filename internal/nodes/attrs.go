// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nodes

import (
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ErrBadSetting is returned by SetAttrs when a setting is unknown or has the
// wrong type.
var ErrBadSetting = errors.New("bad node setting")

// settings decodes a settings map into Go targets. Keys absent from the map
// leave their target untouched.
type settings map[string]any

func (s settings) apply(attrs map[string]cty.Value) error {
	for k, v := range attrs {
		target, ok := s[k]
		if !ok {
			return fmt.Errorf("setting %q: %w", k, ErrBadSetting)
		}
		if v.IsNull() {
			continue
		}
		if err := gocty.FromCtyValue(v, target); err != nil {
			return fmt.Errorf("setting %q: %v: %w", k, err, ErrBadSetting)
		}
	}
	return nil
}

func number(v float64) cty.Value { return cty.NumberFloatVal(v) }

func integer(v int) cty.Value { return cty.NumberIntVal(int64(v)) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
