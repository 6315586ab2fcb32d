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

package dsl

import (
	"fmt"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"golang.org/x/time/rate"
)

const benchCheckKind = "benchmark"

// benchHistogramMaxMS bounds the histogram's value range; a single
// request is never expected to take longer than this.
const benchHistogramMaxMS = int64(10 * 60 * 1000)

// RunBenchCheck executes the Bench Check for one interaction:
// send the prepared request Benchmark.Times times, recording wall-clock
// latency of each send into an HDR histogram, then compare the
// resulting avg/p95/p99/total against the recorded budget.
//
// Only interactions carrying a Benchmark participate; others yield
// InvalidResult. Template rendering and vars_command run once up
// front, the same bindings are reused for every repetition, and
// individual send errors count as failed repetitions rather than
// aborting the whole check.
func RunBenchCheck(ctx *Ctx, sender Sender, inter *Interaction, cctx *Context) CheckResult {
	if inter.Benchmark == nil {
		return InvalidResult(benchCheckKind, inter)
	}

	if inter.Benchmark.Times == 0 {
		return CheckResult{
			Kind:    benchCheckKind,
			Request: inter.Request,
			Error:   "benchmark times must be at least 1; percentiles over zero samples are undefined",
		}
	}

	req := inter.Request
	if missing := MissingParams(req.Params, cctx); len(missing) > 0 {
		return CheckResult{
			Kind:    benchCheckKind,
			Request: req,
			Error:   MissingParamsError(missing).Error(),
		}
	}

	cmdVars := RunVarsCommand(ctx, req.VarsCmd, req, cctx.Responses)
	vars := mergedVars(cmdVars, cctx.Vars)
	prepared := Prepare(req, vars, cctx.varBraces())

	hist := hdrhistogram.New(1, benchHistogramMaxMS, 3)

	times := inter.Benchmark.Times

	var limiter *rate.Limiter
	if inter.Benchmark.RateHz > 0 {
		limiter = rate.NewLimiter(rate.Limit(inter.Benchmark.RateHz), 1)
	}

	var lastResponse *Response
	var failures uint64
	start := time.Now()

	for i := uint64(0); i < times; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				ctx.Logdf("benchmark pacing interrupted: %s", err)
				break
			}
		}

		sendStart := time.Now()
		resp, err := sender.Send(ctx, prepared)
		elapsedMS := time.Since(sendStart).Milliseconds()
		if elapsedMS < 1 {
			elapsedMS = 1
		}

		if err != nil {
			failures++
			ctx.Logdf("benchmark send %d/%d failed: %s", i+1, times, err)
			continue
		}

		if recErr := hist.RecordValue(elapsedMS); recErr != nil {
			ctx.Logdf("benchmark send %d/%d: histogram overflow: %s", i+1, times, recErr)
		}
		lastResponse = resp
	}

	total := time.Since(start)

	observed := Benchmark{
		Times:  times,
		AvgMS:  uint64(hist.Mean()),
		P95MS:  uint64(hist.ValueAtQuantile(95)),
		P99MS:  uint64(hist.ValueAtQuantile(99)),
		TimeMS: uint64(total.Milliseconds()),
	}

	var violations []Violation
	if failures > 0 {
		violations = append(violations, Violation{
			Kind:     benchCheckKind,
			Cause:    CauseError,
			Subject:  "sends",
			On:       "failures",
			Wire:     fmt.Sprintf("%d", failures),
			Recorded: "0",
		})
	}
	violations = append(violations, compareBenchmark(observed, *inter.Benchmark)...)

	return CheckResult{
		Kind:       benchCheckKind,
		Request:    prepared,
		Response:   lastResponse,
		Violations: violations,
		Duration:   total,
	}
}

// compareBenchmark reports a violation for each budget the observed
// run exceeded. A zero budget field means "no budget", matching plax's
// treatment of omitted timeout/retry fields as unset rather than zero.
func compareBenchmark(observed, budget Benchmark) []Violation {
	var out []Violation

	check := func(name string, observedMS, budgetMS uint64) {
		if budgetMS == 0 {
			return
		}
		if observedMS > budgetMS {
			out = append(out, Violation{
				Kind:     benchCheckKind,
				Cause:    CauseMismatch,
				Subject:  "benchmark",
				On:       name,
				Wire:     fmt.Sprintf("%dms", observedMS),
				Recorded: fmt.Sprintf("%dms", budgetMS),
			})
		}
	}

	check("avg_ms", observed.AvgMS, budget.AvgMS)
	check("p95_ms", observed.P95MS, budget.P95MS)
	check("p99_ms", observed.P99MS, budget.P99MS)
	check("time_ms", observed.TimeMS, budget.TimeMS)

	return out
}
