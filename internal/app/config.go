// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTick is the simulation step used when none is configured.
const DefaultTick = 20 * time.Millisecond

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProfilesDir string // directory holding one .hcl document per profile
	Active      string // profile that drives the vehicle at startup
	Tick        time.Duration
	Watch       bool // reload profiles when their files change

	EditorURL       string
	EditorNamespace string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProfilesDir == "" {
		return nil, errors.New("ProfilesDir is a required configuration field and cannot be empty")
	}
	if cfg.Tick == 0 {
		cfg.Tick = DefaultTick
	}
	if cfg.Tick < 0 {
		return nil, fmt.Errorf("tick must be positive, got %s", cfg.Tick)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port out of range: %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
