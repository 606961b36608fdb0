// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"context"
	"fmt"

	"github.com/vk/controlgrid/internal/ctxlog"
)

// Recompute rebuilds the derived parent/child sets and fan-in lists from the
// link list and caches a topological order. It does nothing unless the graph
// is dirty.
//
// When the links contain a cycle, the most recently created link is removed
// along with any pin it synthesized, a notice is raised and the sort is retried. That is the only repair
// attempted: if the cycle persists, or there is no link to roll back, ErrCycle
// is returned and the graph stays dirty.
func (g *Graph) Recompute(ctx context.Context) ([]*Node, error) {
	logger := ctxlog.FromContext(ctx)
	if !g.dirty {
		return g.Order(), nil
	}

	for {
		order := g.sort()
		if len(order) == len(g.nodeSeq) {
			g.order = order
			g.dirty = false
			logger.Debug("Evaluation order recomputed.", "nodes", len(order), "links", len(g.links))
			return g.Order(), nil
		}

		if g.lastLink == 0 {
			logger.Error("Cycle detected with no link to roll back.", "sorted", len(order), "nodes", len(g.nodeSeq))
			return nil, fmt.Errorf("recompute: %d of %d nodes sortable: %w", len(order), len(g.nodeSeq), ErrCycle)
		}

		rejected, grown := g.lastLink, g.lastGrown
		if err := g.DeleteLink(rejected); err != nil {
			return nil, fmt.Errorf("recompute: roll back link %s: %w", rejected, err)
		}
		g.forgetLastLink()
		if grown != 0 {
			if err := g.RemovePin(grown); err != nil {
				return nil, fmt.Errorf("recompute: roll back pin %s: %w", grown, err)
			}
		}
		g.notifier.Notify(ctx, Notice{
			Kind:    NoticeCycleRejected,
			Message: "Link rejected because it would create a cycle.",
			Subject: rejected,
		})
	}
}

// sort runs Kahn's algorithm over the current links. The ready queue is FIFO
// and seeded in node insertion order, so equal-rank nodes keep a stable order.
func (g *Graph) sort() []*Node {
	g.rebuildAdjacency()

	pending := make(map[ID]int, len(g.nodeSeq))
	queue := make([]*Node, 0, len(g.nodeSeq))
	for _, n := range g.nodeSeq {
		pending[n.id] = len(n.parents)
		if len(n.parents) == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]*Node, 0, len(g.nodeSeq))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, cid := range n.children {
			pending[cid]--
			if pending[cid] == 0 {
				queue = append(queue, g.nodes[cid])
			}
		}
	}
	return order
}

// rebuildAdjacency recomputes parents, children and every input pin's
// upstream list from scratch.
func (g *Graph) rebuildAdjacency() {
	for _, n := range g.nodeSeq {
		n.parents = n.parents[:0]
		n.children = n.children[:0]
		for _, p := range n.inputs {
			p.upstream = p.upstream[:0]
		}
	}

	type edge struct{ from, to ID }
	seen := make(map[edge]bool, len(g.links))
	for _, l := range g.links {
		in, okIn := g.pins[l.in]
		out, okOut := g.pins[l.out]
		if !okIn || !okOut {
			continue
		}
		in.upstream = append(in.upstream, out.id)

		e := edge{from: out.node, to: in.node}
		if seen[e] {
			continue
		}
		seen[e] = true
		from, okFrom := g.nodes[e.from]
		to, okTo := g.nodes[e.to]
		if !okFrom || !okTo {
			continue
		}
		from.children = append(from.children, to.id)
		to.parents = append(to.parents, from.id)
	}
}
