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
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/SpectralOps/service-policy-kit/config"
	"github.com/SpectralOps/service-policy-kit/dsl"
	"github.com/SpectralOps/service-policy-kit/history"
	"github.com/SpectralOps/service-policy-kit/report"
	"github.com/SpectralOps/service-policy-kit/runner"
	"github.com/SpectralOps/service-policy-kit/sender"
)

var runFlip bool

var runCmd = &cobra.Command{
	Use:   "run <sequence.yaml>",
	Short: "run a sequence's content checks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSequence(args[0], runFlip)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runFlip, "flip", false, "flip pass/fail polarity")
}

func runSequence(path string, flip bool) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	doc, err := dsl.LoadSequence(path)
	if err != nil {
		return err
	}

	ctx := dsl.NewCtx(context.Background())
	ctx.Verbose = cfg.Verbose

	cctx := dsl.NewContext()
	cctx.Config.VarBraces = cfg.VarBraces

	s := buildSender(cfg)
	reporters := buildReporters(cfg)

	r := runner.New(runner.Options{Sender: s, Flip: flip, Reporters: reporters})

	start := time.Now()
	result := r.Run(ctx, cctx, doc.HTTPInteractions)
	elapsed := time.Since(start)

	if err := recordHistory(cfg, path, result, elapsed); err != nil {
		ctx.Logdf("failed to record run history: %s", err)
	}

	if !result.OK {
		return fmt.Errorf("sequence failed: %d/%d checks had violations or errors",
			countFailing(result.Results), len(result.Results))
	}
	return nil
}

func buildSender(cfg *config.Config) dsl.Sender {
	return sender.Build(sender.Options{DryRunExample: globalFlags.DryRun})
}

func buildReporters(cfg *config.Config) []runner.Reporter {
	reporterCfg := report.Config{}
	if cfg.Verbose {
		reporterCfg["verbose"] = "true"
	}
	if globalFlags.Folder != "" {
		reporterCfg["folder"] = globalFlags.Folder
	}
	return []runner.Reporter{report.Build(cfg.Reporter, reporterCfg)}
}

func countFailing(results []dsl.CheckResult) int {
	n := 0
	for _, r := range results {
		if r.Error != "" || len(r.Violations) > 0 {
			n++
		}
	}
	return n
}

func recordHistory(cfg *config.Config, path string, result runner.Report, elapsed time.Duration) error {
	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	var violations, errors int
	for _, r := range result.Results {
		violations += len(r.Violations)
		if r.Error != "" {
			errors++
		}
	}

	return store.Put(history.Run{
		ID:           uuid.NewString(),
		SequenceFile: path,
		OK:           result.OK,
		Total:        len(result.Results),
		Violations:   violations,
		Errors:       errors,
		DurationMS:   elapsed.Milliseconds(),
		RanAt:        time.Now().UTC(),
	})
}
