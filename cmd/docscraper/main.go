// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command docscraper runs a document-tree transformation pipeline declared
// in a YAML configuration document (spec §6.1) against one or more HTML
// sources and writes structured output to the configured sinks.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/aschults/docscraper/internal/config"
	"github.com/aschults/docscraper/internal/output"
	"github.com/aschults/docscraper/internal/pipeline"
	"github.com/aschults/docscraper/internal/queryengine"
	"github.com/aschults/docscraper/internal/registry"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "docscraper",
		Short:   "Extract structured records from word-processor documents",
		Version: version,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var (
		configPath string
		fatal      bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a pipeline configuration document",
		Example: `  docscraper run --config pipeline.yaml
  docscraper run --config pipeline.yaml --fatal`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.Default()
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}

			doc, reg, _, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			driver, err := buildDriver(doc, reg)
			if err != nil {
				return err
			}
			driver.FatalOnError = fatal
			driver.Logger = logger

			return driver.Run()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the pipeline configuration document (required)")
	cmd.Flags().BoolVar(&fatal, "fatal", false, "Stop on the first document failure instead of continuing")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func validateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a pipeline configuration document without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, reg, _, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if err := doc.Validate(reg); err != nil {
				return err
			}
			fmt.Println("configuration is valid")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the pipeline configuration document (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func loadConfig(path string) (*config.Document, *registry.Registry, *queryengine.Engine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	doc, err := config.Parse(f)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse config: %w", err)
	}

	qe := queryengine.New()
	reg := registry.New()
	pipeline.RegisterDefaults(reg, qe)

	if err := doc.Validate(reg); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return doc, reg, qe, nil
}

func buildDriver(doc *config.Document, reg *registry.Registry) (*pipeline.Driver, error) {
	driver := pipeline.New()

	for _, e := range doc.Sources {
		v, err := reg.Build(registry.DomainSource, e.Kind, e)
		if err != nil {
			return nil, err
		}
		driver.Sources = append(driver.Sources, v.(pipeline.SourceFunc))
	}
	for _, e := range doc.Transformations {
		v, err := reg.Build(registry.DomainTransform, e.Kind, e)
		if err != nil {
			return nil, err
		}
		driver.Transforms = append(driver.Transforms, v.(pipeline.TransformFunc))
	}
	for _, e := range doc.Outputs {
		v, err := reg.Build(registry.DomainOutput, e.Kind, e)
		if err != nil {
			return nil, err
		}
		sink, ok := v.(output.Sink)
		if !ok {
			return nil, fmt.Errorf("output kind %q did not build a sink", e.Kind)
		}
		driver.Outputs = append(driver.Outputs, sink)
	}

	return driver, nil
}
