// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package graph is the typed dataflow graph that maps device inputs onto
// vehicle controls.
//
// # Model
//
// A Graph owns Nodes and Links. Every Node owns an ordered list of input and
// output Pins and, optionally, a pair of placeholder ("Add") pins that spawn
// new concrete pins when linked. A Link joins exactly one output pin to one
// input pin. Pins, nodes and links share one id space allocated by the graph;
// ids are never reused, so a stale id simply misses on lookup.
//
// Connectivity lives only in the link list. Node parent/child sets and each
// input pin's fan-in list are caches rebuilt from the links by Recompute and
// are never patched incrementally.
//
// # Dirty flag
//
// Every structural mutation (node or link added or removed, dynamic pin
// created) sets the dirty flag. Execute and Simulate recompute the evaluation
// order first whenever the flag is set, so a node never observes an input that
// has not been refreshed during the current pass.
//
// # Evaluation
//
// A pass walks the cached topological order once. For each node it first
// refreshes the input pins from their upstream outputs (combined per pin kind)
// and then runs the node's behavior. Execute runs the live step everywhere;
// Simulate runs the preview step on control sinks so nothing leaves the graph.
//
// # Concurrency
//
// A Graph is not safe for concurrent use. All editing and evaluation must
// happen on one goroutine, and evaluation is not re-entrant.
package graph
