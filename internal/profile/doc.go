// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package profile reads and writes profile documents: one HCL file per named
// profile holding a whole graph.
//
// A document looks like this:
//
//	classname = "Default"
//	disabled  = false
//	next_id   = 42
//
//	node "toggle" {
//	  id   = "7"
//	  name = "Gear"
//	  x    = 120
//	  y    = 40
//
//	  settings {
//	    on = false
//	  }
//
//	  input {
//	    id   = "8"
//	    name = "In"
//	    kind = "trigger"
//	  }
//	}
//
//	link {
//	  input  = "8"
//	  output = "3"
//	}
//
// Ids in a document are only meaningful inside that document. Load maps
// every stored id onto a freshly allocated one.
package profile
