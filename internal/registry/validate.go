// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/controlgrid/internal/ctxlog"
	"github.com/vk/controlgrid/internal/graph"
	"github.com/zclconf/go-cty/cty"
)

// Validate builds one node of every registered type and checks that it is
// self-consistent: it carries its own tag, has a behavior, and its settings
// block survives a write-back unchanged.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, typeName := range r.Types() {
		n := r.entries[typeName].New()
		if n == nil {
			errs = append(errs, fmt.Sprintf("type '%s': constructor returned nil", typeName))
			continue
		}
		if n.Type() != typeName {
			errs = append(errs, fmt.Sprintf("type '%s': constructor built a node tagged '%s'", typeName, n.Type()))
		}
		if n.Behavior() == nil {
			errs = append(errs, fmt.Sprintf("type '%s': node has no behavior", typeName))
			continue
		}

		cfg, ok := n.Behavior().(graph.Configurable)
		if !ok {
			continue
		}
		attrs := cfg.Attrs()
		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := attrs[k]
			if v.IsNull() || !v.IsKnown() {
				errs = append(errs, fmt.Sprintf("type '%s', setting '%s': default must be a known, non-null value", typeName, k))
				continue
			}
			if v.Type().Equals(cty.DynamicPseudoType) {
				logger.Warn("Node setting has a dynamic type, which disables type checking on load.", "type", typeName, "setting", k)
			}
		}
		if err := cfg.SetAttrs(attrs); err != nil {
			errs = append(errs, fmt.Sprintf("type '%s': settings do not round-trip: %v", typeName, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Registry validated.", "types", len(r.entries))
	return nil
}
