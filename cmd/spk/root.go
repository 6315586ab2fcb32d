/*
 * Copyright 2021 Comcast Cable Communications Management, LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/SpectralOps/service-policy-kit/config"
)

// globalFlags holds the parsed values of persistent flags; subcommands
// read from it via buildConfig.
var globalFlags struct {
	VarBraces string
	DryRun    string
	Reporter  string
	Folder    string
	Timeout   time.Duration
	Verbose   bool
	HistoryDB string
}

var rootCmd = &cobra.Command{
	Use:   "spk",
	Short: "spk — declarative HTTP interaction checker",
	Long: `spk runs sequences of declarative HTTP interactions: it sends requests,
extracts variables from responses, and matches the wire response against a
recorded expectation with regular expressions.

  spk run sequence.yaml
  spk bench sequence.yaml
  spk cert sequence.yaml
  spk discover openapi.yaml
  spk history`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func buildConfig() (*config.Config, error) {
	return config.Load(config.Config{
		VarBraces: globalFlags.VarBraces,
		Reporter:  globalFlags.Reporter,
		Timeout:   globalFlags.Timeout,
		HistoryDB: globalFlags.HistoryDB,
		Verbose:   globalFlags.Verbose,
	})
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&globalFlags.VarBraces, "var-braces", "",
		`placeholder pattern, must contain "var" (default "{{var}}")`)
	pf.StringVar(&globalFlags.DryRun, "dry-run", "",
		"replay the named example instead of sending live requests")
	pf.StringVar(&globalFlags.Reporter, "reporter", "",
		"reporter: console|json|junit (default console)")
	pf.StringVar(&globalFlags.Folder, "folder", "",
		"output folder for the junit reporter")
	pf.DurationVar(&globalFlags.Timeout, "timeout", 0,
		"timeout stored in the resolved configuration (e.g. 10s); not applied to requests, which use their own timeout_ms (default 10s)")
	pf.BoolVar(&globalFlags.Verbose, "verbose", false,
		"print per-interaction detail and a final summary")
	pf.StringVar(&globalFlags.HistoryDB, "history-db", "",
		"path to the run history database")

	rootCmd.AddCommand(runCmd, benchCmd, certCmd, discoverCmd, historyCmd)
}
