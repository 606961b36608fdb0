// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"github.com/vk/controlgrid/internal/nodes"
	"github.com/vk/controlgrid/internal/registry"
)

// coreModules is the definitive list of all node modules that are compiled
// into the controlgrid binary.
var coreModules = []registry.Module{
	&nodes.Module{},
}
