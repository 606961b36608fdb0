// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package profile

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/controlgrid/internal/ctxlog"
	"github.com/vk/controlgrid/internal/graph"
	"github.com/vk/controlgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// ErrMalformed is returned when a document parses but does not describe a
// valid graph.
var ErrMalformed = errors.New("malformed profile document")

// Profile is a named graph together with its enabled state.
type Profile struct {
	Name     string
	Disabled bool
	Graph    *graph.Graph
}

// document mirrors the top level of a profile file.
type document struct {
	Classname string       `hcl:"classname"`
	Disabled  bool         `hcl:"disabled,optional"`
	NextID    uint64       `hcl:"next_id,optional"`
	Nodes     []*nodeBlock `hcl:"node,block"`
	Links     []*linkBlock `hcl:"link,block"`
}

type nodeBlock struct {
	Type     string         `hcl:"type,label"`
	ID       string         `hcl:"id"`
	Name     string         `hcl:"name,optional"`
	X        float64        `hcl:"x,optional"`
	Y        float64        `hcl:"y,optional"`
	Hidden   bool           `hcl:"hidden,optional"`
	Settings *settingsBlock `hcl:"settings,block"`
	Inputs   []*pinBlock    `hcl:"input,block"`
	Outputs  []*pinBlock    `hcl:"output,block"`
}

type settingsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type pinBlock struct {
	ID       string   `hcl:"id"`
	Name     string   `hcl:"name,optional"`
	Kind     string   `hcl:"kind"`
	Deadzone *float64 `hcl:"deadzone,optional"`
}

type linkBlock struct {
	Input  string `hcl:"input"`
	Output string `hcl:"output"`
}

// Save renders a profile as an HCL document.
func Save(ctx context.Context, p *Profile) ([]byte, error) {
	logger := ctxlog.FromContext(ctx)

	f := hclwrite.NewEmptyFile()
	root := f.Body()
	root.SetAttributeValue("classname", cty.StringVal(p.Name))
	root.SetAttributeValue("disabled", cty.BoolVal(p.Disabled))

	g := p.Graph
	if g == nil {
		g = graph.New()
	}
	root.SetAttributeValue("next_id", cty.NumberUIntVal(uint64(g.NextID())))

	for _, n := range g.Nodes() {
		root.AppendNewline()
		block := root.AppendNewBlock("node", []string{n.Type()})
		body := block.Body()
		body.SetAttributeValue("id", cty.StringVal(n.ID().String()))
		body.SetAttributeValue("name", cty.StringVal(n.Name()))
		body.SetAttributeValue("x", cty.NumberFloatVal(n.Position.X))
		body.SetAttributeValue("y", cty.NumberFloatVal(n.Position.Y))
		if n.Hidden() {
			body.SetAttributeValue("hidden", cty.True)
		}

		if cfg, ok := n.Behavior().(graph.Configurable); ok {
			attrs := cfg.Attrs()
			keys := make([]string, 0, len(attrs))
			for k := range attrs {
				if !hclsyntax.ValidIdentifier(k) {
					return nil, fmt.Errorf("node %s: setting %q is not a valid identifier", n.ID(), k)
				}
				keys = append(keys, k)
			}
			sort.Strings(keys)
			sb := body.AppendNewBlock("settings", nil).Body()
			for _, k := range keys {
				sb.SetAttributeValue(k, attrs[k])
			}
		}

		for _, pin := range n.Inputs() {
			writePin(body.AppendNewBlock("input", nil).Body(), pin)
		}
		for _, pin := range n.Outputs() {
			writePin(body.AppendNewBlock("output", nil).Body(), pin)
		}
	}

	for _, l := range g.Links() {
		root.AppendNewline()
		body := root.AppendNewBlock("link", nil).Body()
		body.SetAttributeValue("input", cty.StringVal(l.In().String()))
		body.SetAttributeValue("output", cty.StringVal(l.Out().String()))
	}

	logger.Debug("Profile serialized.", "profile", p.Name, "nodes", len(g.Nodes()), "links", len(g.Links()))
	return f.Bytes(), nil
}

func writePin(body *hclwrite.Body, p *graph.Pin) {
	body.SetAttributeValue("id", cty.StringVal(p.ID().String()))
	body.SetAttributeValue("name", cty.StringVal(p.Name()))
	body.SetAttributeValue("kind", cty.StringVal(p.Kind().String()))
	if p.Deadzone() > 0 {
		body.SetAttributeValue("deadzone", cty.NumberFloatVal(p.Deadzone()))
	}
}

// Load parses a document and rebuilds its graph. Node types are resolved
// through reg; an unknown type fails the whole load. A disabled document
// yields an empty graph. The graph's order is computed before Load returns,
// and a document whose links form a cycle is rejected with graph.ErrCycle.
func Load(ctx context.Context, src []byte, filename string, reg *registry.Registry, opts ...graph.Option) (*Profile, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse profile %s: %w", filename, diags)
	}

	var doc document
	diags = gohcl.DecodeBody(file.Body, nil, &doc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode profile %s: %w", filename, diags)
	}

	p := &Profile{Name: doc.Classname, Disabled: doc.Disabled, Graph: graph.New(opts...)}
	if doc.Disabled {
		logger.Info("Profile is disabled; loaded as an empty graph.", "profile", p.Name)
		return p, nil
	}

	g := p.Graph
	g.ReserveIDs(graph.ID(doc.NextID))
	pins := make(map[string]graph.ID)
	seen := make(map[string]bool, len(doc.Nodes))

	for _, nb := range doc.Nodes {
		if seen[nb.ID] {
			return nil, fmt.Errorf("profile %s: node id %q used twice: %w", filename, nb.ID, ErrMalformed)
		}
		seen[nb.ID] = true

		n, err := buildNode(reg, nb)
		if err != nil {
			return nil, fmt.Errorf("profile %s: node %q: %w", filename, nb.ID, err)
		}
		if _, err := g.CreateNode(n); err != nil {
			return nil, fmt.Errorf("profile %s: node %q: %w", filename, nb.ID, err)
		}
		if err := mapPins(pins, nb.Inputs, n.Inputs()); err != nil {
			return nil, fmt.Errorf("profile %s: node %q: %w", filename, nb.ID, err)
		}
		if err := mapPins(pins, nb.Outputs, n.Outputs()); err != nil {
			return nil, fmt.Errorf("profile %s: node %q: %w", filename, nb.ID, err)
		}
	}

	for _, lb := range doc.Links {
		in, ok := pins[lb.Input]
		if !ok {
			return nil, fmt.Errorf("profile %s: link input %q: %w", filename, lb.Input, ErrMalformed)
		}
		out, ok := pins[lb.Output]
		if !ok {
			return nil, fmt.Errorf("profile %s: link output %q: %w", filename, lb.Output, ErrMalformed)
		}
		if _, err := g.Connect(in, out); err != nil {
			return nil, fmt.Errorf("profile %s: link %s-%s: %w", filename, lb.Input, lb.Output, err)
		}
	}

	if _, err := g.Recompute(ctx); err != nil {
		return nil, fmt.Errorf("profile %s: %w", filename, err)
	}

	logger.Debug("Profile loaded.", "profile", p.Name, "nodes", len(g.Nodes()), "links", len(g.Links()))
	return p, nil
}

// buildNode constructs a detached node from its block: settings first, then
// any settings-dependent layout, then the stored pins.
func buildNode(reg *registry.Registry, nb *nodeBlock) (*graph.Node, error) {
	n, err := reg.NewNode(nb.Type)
	if err != nil {
		return nil, err
	}
	if nb.Name != "" {
		n.SetName(nb.Name)
	}
	n.Position = graph.Point{X: nb.X, Y: nb.Y}
	n.SetHidden(nb.Hidden)

	if nb.Settings != nil {
		attrs, err := decodeSettings(nb.Settings.Body)
		if err != nil {
			return nil, err
		}
		cfg, ok := n.Behavior().(graph.Configurable)
		if !ok {
			if len(attrs) > 0 {
				return nil, fmt.Errorf("type %q takes no settings: %w", nb.Type, ErrMalformed)
			}
		} else if err := cfg.SetAttrs(attrs); err != nil {
			return nil, fmt.Errorf("%w: %w", err, ErrMalformed)
		}
	}
	if s, ok := n.Behavior().(graph.Shaper); ok {
		s.Shape(n)
	}

	if err := restorePins(n, nb.Inputs, graph.Input); err != nil {
		return nil, err
	}
	if err := restorePins(n, nb.Outputs, graph.Output); err != nil {
		return nil, err
	}
	return n, nil
}

func decodeSettings(body hcl.Body) (map[string]cty.Value, error) {
	hattrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode settings: %w", diags)
	}
	attrs := make(map[string]cty.Value, len(hattrs))
	for name, a := range hattrs {
		v, diags := a.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate setting %q: %w", name, diags)
		}
		attrs[name] = v
	}
	return attrs, nil
}

// restorePins lines the stored pins up with the ones the constructor made,
// checking kinds, and grows the rest as dynamic pins in stored order.
func restorePins(n *graph.Node, stored []*pinBlock, dir graph.Direction) error {
	existing := n.Inputs()
	if dir == graph.Output {
		existing = n.Outputs()
	}

	for i, pb := range stored {
		kind, err := graph.ParseKind(pb.Kind)
		if err != nil || kind.IsPlaceholder() {
			return fmt.Errorf("pin %q: kind %q: %w", pb.ID, pb.Kind, ErrMalformed)
		}

		var p *graph.Pin
		switch {
		case i < len(existing):
			p = existing[i]
			if p.Kind() != kind {
				return fmt.Errorf("pin %q: stored kind %s, %s pin %d is %s: %w", pb.ID, kind, dir, i, p.Kind(), ErrMalformed)
			}
			if pb.Name != "" {
				p.SetName(pb.Name)
			}
		case dir == graph.Input:
			p = n.GrowInput(pb.Name, kind)
		default:
			p = n.GrowOutput(pb.Name, kind)
		}
		if pb.Deadzone != nil {
			p.SetDeadzone(*pb.Deadzone)
		}
	}
	return nil
}

// mapPins records stored id -> fresh id for each restored pin.
func mapPins(ids map[string]graph.ID, stored []*pinBlock, pins []*graph.Pin) error {
	for i, pb := range stored {
		if _, dup := ids[pb.ID]; dup {
			return fmt.Errorf("pin id %q used twice: %w", pb.ID, ErrMalformed)
		}
		ids[pb.ID] = pins[i].ID()
	}
	return nil
}
