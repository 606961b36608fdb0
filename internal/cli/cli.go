// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vk/controlgrid/internal/app"
)

// Environment variables consulted for settings not given as flags. A .env
// file in the working directory is loaded first when present.
const (
	EnvProfiles  = "CONTROLGRID_PROFILES"
	EnvActive    = "CONTROLGRID_ACTIVE"
	EnvEditorURL = "CONTROLGRID_EDITOR_URL"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded.", "reason", err)
	}

	flagSet := flag.NewFlagSet("controlgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
ControlGrid - maps joystick and keyboard input to vehicle controls through
a graph of logic nodes.

Usage:
  controlgrid [options] [PROFILES_DIR]

Arguments:
  PROFILES_DIR
    Directory holding one .hcl document per profile.
    Defaults to $`+EnvProfiles+`.

Options:
`)
		flagSet.PrintDefaults()
	}

	profilesFlag := flagSet.String("profiles", "", "Directory holding the profile documents.")
	pFlag := flagSet.String("p", "", "Directory holding the profile documents (shorthand).")
	activeFlag := flagSet.String("active", os.Getenv(EnvActive), "Profile that drives the vehicle at startup.")
	tickFlag := flagSet.Duration("tick", app.DefaultTick, "Simulation step.")
	watchFlag := flagSet.Bool("watch", false, "Reload profiles when their files change.")
	editorURLFlag := flagSet.String("editor-url", os.Getenv(EnvEditorURL), "socket.io URL of the node editor. Empty disables the editor link.")
	editorNSFlag := flagSet.String("editor-namespace", "/", "socket.io namespace of the node editor.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	dir := ""
	switch {
	case *profilesFlag != "":
		dir = *profilesFlag
	case *pFlag != "":
		dir = *pFlag
	case flagSet.NArg() > 0:
		dir = flagSet.Arg(0)
	default:
		dir = os.Getenv(EnvProfiles)
	}
	slog.Debug("Profiles directory determined.", "dir", dir)

	if dir == "" {
		slog.Debug("No profiles directory provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *tickFlag <= 0 || *tickFlag > time.Second {
		return nil, false, &ExitError{Code: 2, Message: "invalid tick: must be between 0 and 1s"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ProfilesDir:     dir,
		Active:          *activeFlag,
		Tick:            *tickFlag,
		Watch:           *watchFlag,
		EditorURL:       *editorURLFlag,
		EditorNamespace: *editorNSFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
