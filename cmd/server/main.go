// Command edubloom-ai serves the student-risk scoring API and offers offline
// scoring from the command line.
//
// @title        EduBloom AI Service
// @version      1.0.0
// @description  Microservice providing risk prediction utilities for EduBloom.
// @BasePath     /
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/ZanzyTHEbar/edubloom-ai/internal/config"
)

const (
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "1.0.0"
	commit  = ""

	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a YAML config file (optional)",
		EnvVars: []string{"CONFIG_FILE"},
	}

	envFileFlag = &cli.StringFlag{
		Name:  "env-file",
		Usage: "Dotenv file exported before the config is read (ignored when absent)",
		Value: ".env",
	}

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	Config *config.Config
	Debug  bool
}

func getConfig(c *cli.Context) *appConfig {
	return c.App.Metadata[appConfigKey].(*appConfig)
}

func newApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "edubloom-ai",
		Version:         fmt.Sprintf("%s (commit: %s)", version, commit),
		Compiled:        time.Now(),
		Usage:           "Student disengagement risk scoring service",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			configFlag,
			envFileFlag,
			debugFlag,
		},
		Commands: []*cli.Command{
			serveCmd,
			scoreCmd,
			samplesCmd,
		},
		Action: cmdServe,
		Before: func(c *cli.Context) error {
			if err := config.LoadDotEnv(c.String(envFileFlag.Name)); err != nil {
				return err
			}

			cfg, err := config.Load(c.String(configFlag.Name))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if c.Bool(debugFlag.Name) {
				cfg.Log.Level = "debug"
			}

			if c.App.Metadata == nil {
				c.App.Metadata = map[string]any{}
			}
			c.App.Metadata[appConfigKey] = &appConfig{
				Config: cfg,
				Debug:  c.Bool(debugFlag.Name),
			}
			return nil
		},
	}
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML, "yml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	case formatJSON:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
