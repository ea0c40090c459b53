/*
Copyright 2024 PremiAds Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/premiads/premiads"
	"github.com/premiads/premiads/config"
	"github.com/premiads/premiads/database"
	"github.com/premiads/premiads/internal/notification"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CLI wraps the root Cobra command for the premiads binary.
type CLI struct {
	cmd *cobra.Command
}

// premiadsInstance holds the service instance and its configuration, shared
// across subcommands.
type premiadsInstance struct {
	premiads *premiads.PremiAds
	cnf      *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and wires up the service before any
// subcommand runs.
func preRun(app *premiadsInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("premiads.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newPremiAds, err := setupPremiAds(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.premiads = newPremiAds
		app.cnf = cnf

		return nil
	}
}

// setupPremiAds creates the service instance backed by the configured data
// source.
func setupPremiAds(cfg *config.Configuration) (*premiads.PremiAds, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newPremiAds, err := premiads.NewPremiAds(db)
	if err != nil {
		return nil, fmt.Errorf("error creating premiads: %v", err)
	}
	return newPremiAds, nil
}

// NewCLI builds the premiads command tree: server, workers and migrations.
func NewCLI() *CLI {
	var configFile string
	b := &premiadsInstance{}

	var rootCmd = &cobra.Command{
		Use:   "premiads",
		Short: "Mission moderation and reward service",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./premiads.json", "Configuration file for premiads")

	rootCmd.PersistentPreRunE = preRun(b)

	rootCmd.AddCommand(serverCommands(b))
	rootCmd.AddCommand(workerCommands(b))
	rootCmd.AddCommand(migrateCommands(b))

	return &CLI{cmd: rootCmd}
}

func (w CLI) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
