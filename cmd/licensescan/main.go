// Copyright Amazon.com Inc or its affiliates and the project contributors
// Written by James Shubin <purple@amazon.com> and the project contributors
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.
//
// We will never require a CLA to submit a patch. All contributions follow the
// `inbound == outbound` rule.
//
// This is not an official Amazon product. Amazon does not offer support for
// this project.

package main

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/jshubin/licensescan/backend"
	"github.com/jshubin/licensescan/interfaces"
	"github.com/jshubin/licensescan/lib"
	"github.com/jshubin/licensescan/util/ansi"
	"github.com/jshubin/licensescan/util/errwrap"

	cli "github.com/urfave/cli/v2" // imports as package "cli"
)

// Hide a program/version string for build embedding.
//go:generate bash -c "basename $(pwd) | tr -d '\n' > .program"
//go:generate bash -c "git describe --match '[0-9]*.[0-9]*.[0-9]*' --tags --dirty --always > .version"

//go:embed .program
var program string

//go:embed .version
var version string

const (
	// ConfigFileName is the name of the config file used to pull in all the
	// various main settings that we want.
	ConfigFileName = "config.json"

	// defaultRulesPath is used when neither --rules-path nor the config
	// file names one.
	defaultRulesPath = "rules"
)

// Config is a list of settings stored in the users ~/.config/ directory.
type Config struct {
	// Quiet will prevent the tool from talking too much on the console.
	Quiet *bool `json:"quiet"`

	// RulesPath specifies the root of the rule corpus to load.
	RulesPath *string `json:"rules-path"`

	// WithDeprecated includes deprecated rules in the loaded corpus.
	WithDeprecated *bool `json:"with-deprecated"`
}

// GetConfig loads the config file data into a struct.
func GetConfig(configPath string) (*Config, error) {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errwrap.Wrapf(err, "error finding home directory")
		}
		if home == "" {
			return nil, fmt.Errorf("home directory is empty")
		}
		configPath = filepath.Clean(filepath.Join(home, ".config/", program+"/", ConfigFileName))
	}

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return nil, nil // no config, no error
	}
	if err != nil {
		return nil, errwrap.Wrapf(err, "error reading config file")
	}

	buffer := bytes.NewBuffer(data)
	if buffer.Len() == 0 {
		return nil, fmt.Errorf("empty config file: %s", configPath)
	}
	decoder := json.NewDecoder(buffer)

	var configData Config
	if err := decoder.Decode(&configData); err != nil {
		return nil, errwrap.Wrapf(err, "error decoding json output of: %s", configPath)
	}

	return &configData, nil
}

// collectFiles walks every argument path, returning the contents of every
// regular file found. A single file argument is read directly; a directory
// argument is walked recursively. Per-file read errors are logged and
// skipped rather than aborting the whole scan.
func collectFiles(paths []string, logf func(format string, v ...interface{})) ([]lib.File, error) {
	var files []lib.File
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errwrap.Wrapf(err, "error accessing %s", root)
		}
		if !info.IsDir() {
			data, err := os.ReadFile(root)
			if err != nil {
				logf("skipping %s: %+v", root, err)
				continue
			}
			files = append(files, lib.File{Path: root, Data: data})
			continue
		}

		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				logf("skipping %s: %+v", path, err)
				return nil
			}
			if d.IsDir() {
				return nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				logf("skipping %s: %+v", path, err)
				return nil
			}
			files = append(files, lib.File{Path: path, Data: data})
			return nil
		})
		if err != nil {
			return nil, errwrap.Wrapf(err, "error walking %s", root)
		}
	}
	return files, nil
}

// printResults writes a human-readable summary of the result set to stdout,
// coloring the license expression by how confident the match was.
func printResults(results interfaces.ResultSet) {
	for path, byBackend := range results {
		for _, result := range byBackend {
			if result == nil || len(result.Licenses) == 0 {
				continue
			}
			expr := result.Licenses[0].String()

			c := color.New(color.FgGreen)
			switch {
			case result.Confidence < 0.5:
				c = color.New(color.FgRed)
			case result.Confidence < 0.9:
				c = color.New(color.FgYellow)
			}

			fmt.Printf("%s: %s", path, c.Sprint(expr))
			if len(result.More) > 0 {
				more := make([]string, len(result.More))
				for i, r := range result.More {
					if len(r.Licenses) > 0 {
						more[i] = r.Licenses[0].String()
					}
				}
				fmt.Printf(" (also: %s)", strings.Join(more, ", "))
			}
			fmt.Println()
		}
	}
}

// CLI is the entry point for the CLI frontend.
func CLI(program, version string, debug bool, logf func(format string, v ...interface{})) error {
	flags := []cli.Flag{
		&cli.BoolFlag{Name: "quiet"},
		&cli.StringFlag{Name: "config-path"},
		&cli.StringFlag{Name: "rules-path"},
		&cli.BoolFlag{Name: "with-deprecated"},
	}

	app := &cli.App{
		Name:  program,
		Usage: "scan files for license text",
		Action: func(c *cli.Context) error {
			logf("this is %s, version: %s", program, version)
			defer logf("done!")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			var quiet bool
			rulesPath := defaultRulesPath
			withDeprecated := false

			config, err := GetConfig(c.String("config-path"))
			if err != nil {
				return err
			}
			if config != nil {
				if config.Quiet != nil {
					quiet = *config.Quiet
				}
				if config.RulesPath != nil {
					rulesPath = *config.RulesPath
				}
				if config.WithDeprecated != nil {
					withDeprecated = *config.WithDeprecated
				}
			}

			if c.IsSet("quiet") {
				quiet = c.Bool("quiet")
			}
			if c.IsSet("rules-path") {
				rulesPath = c.String("rules-path")
			}
			if c.IsSet("with-deprecated") {
				withDeprecated = c.Bool("with-deprecated")
			}

			if quiet {
				logf = func(format string, v ...interface{}) {}
			}

			args := make([]string, 0, c.NArg())
			for i := 0; i < c.NArg(); i++ {
				args = append(args, c.Args().Get(i))
			}
			if len(args) == 0 {
				args = []string{"."}
			}

			engine := &backend.Engine{
				Debug:          debug,
				Logf:           func(format string, v ...interface{}) { logf("engine: "+format, v...) },
				RulesPath:      rulesPath,
				WithDeprecated: withDeprecated,
			}

			core := &lib.Core{
				Debug:    debug,
				Logf:     logf,
				Backends: []interfaces.DataBackend{engine},
			}
			if err := core.Init(ctx); err != nil {
				return err
			}

			files, err := collectFiles(args, logf)
			if err != nil {
				return err
			}

			results, err := core.Run(ctx, files)
			if err != nil {
				return err
			}

			printResults(results)
			return nil
		},
		Flags:                flags,
		EnableBashCompletion: true,
	}

	return app.Run(os.Args)
}

func main() {
	debug := os.Getenv("LICENSESCAN_DEBUG") != ""

	logger := &ansi.Logf{
		Prefix:   "main: ",
		Ellipsis: "...",
		Enable:   !debug, // in debug mode, keep every line visible
		Prefixes: []string{"main: scanning"},
	}
	logf := logger.Init()

	program = strings.TrimSpace(program)
	version = strings.TrimSpace(version)
	if program == "" || version == "" {
		// run `go generate` before you build it.
		logf("program was not compiled correctly")
		os.Exit(1)
		return
	}

	// FIXME: We discard output from libs that use the `log` package directly.
	log.SetOutput(io.Discard)

	if err := CLI(program, version, debug, logf); err != nil {
		if debug {
			logf("failed: %+v", err)
		} else {
			logf("failed: %+v", errwrap.Cause(err))
		}
		os.Exit(1)
		return
	}
	os.Exit(0)
}
