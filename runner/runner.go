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

// Package runner drives a sequence of interactions through the
// content, bench and cert checks in order, reporting each result
// through a fan-out of Reporters.
package runner

import (
	"github.com/SpectralOps/service-policy-kit/dsl"
)

// Reporter observes a sequence run: one Start per interaction, one
// Report per check result of that interaction, and a single End once
// the whole sequence has run.
type Reporter interface {
	Start(inter *dsl.Interaction)
	Report(inter *dsl.Interaction, result dsl.CheckResult)
	End(sequence []*dsl.Interaction, results []dsl.CheckResult)
}

// Options configures one sequence run.
type Options struct {
	Sender    dsl.Sender
	Flip      bool
	Reporters []Reporter
}

// Report is the aggregate outcome of a sequence run.
type Report struct {
	OK      bool
	Results []dsl.CheckResult
}

// SequenceRunner executes interactions strictly in order, never
// branching, reporting each to every configured Reporter in turn.
type SequenceRunner struct {
	opts Options
}

// New builds a SequenceRunner.
func New(opts Options) *SequenceRunner {
	return &SequenceRunner{opts: opts}
}

// Run executes sequence against cctx. Interactions are
// dispatched to whichever checks apply to them (content for a
// Response/Invalid, bench for a Benchmark, cert for a Cert); an
// interaction can participate in more than one.
func (r *SequenceRunner) Run(ctx *dsl.Ctx, cctx *dsl.Context, sequence []*dsl.Interaction) Report {
	var results []dsl.CheckResult

	for _, inter := range sequence {
		for _, rep := range r.opts.Reporters {
			rep.Start(inter)
		}

		for _, result := range r.checksFor(ctx, cctx, inter) {
			for _, rep := range r.opts.Reporters {
				rep.Report(inter, result)
			}
			results = append(results, result)
		}
	}

	for _, rep := range r.opts.Reporters {
		rep.End(sequence, results)
	}

	return Report{OK: aggregateOK(results, r.opts.Flip), Results: results}
}

func (r *SequenceRunner) checksFor(ctx *dsl.Ctx, cctx *dsl.Context, inter *dsl.Interaction) []dsl.CheckResult {
	var out []dsl.CheckResult

	if inter.Response != nil || inter.Invalid != nil || len(inter.Types()) == 0 {
		out = append(out, dsl.RunContentCheck(ctx, r.opts.Sender, inter, cctx))
	}
	if inter.Benchmark != nil {
		out = append(out, dsl.RunBenchCheck(ctx, r.opts.Sender, inter, cctx))
	}
	if inter.Cert != nil {
		out = append(out, dsl.RunCertCheck(ctx, inter, cctx))
	}

	return out
}

// aggregateOK computes the sequence-level pass/fail. Empty sequences
// are vacuously ok in both modes, mirroring Iterator::all on an empty
// collection. A result with a non-empty Error always fails
// the run, flip or not.
func aggregateOK(results []dsl.CheckResult, flip bool) bool {
	for _, res := range results {
		if res.Error != "" {
			return false
		}
	}
	if flip {
		for _, res := range results {
			if len(res.Violations) == 0 {
				return false
			}
		}
		return true
	}
	for _, res := range results {
		if len(res.Violations) > 0 {
			return false
		}
	}
	return true
}
