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

// Package report implements the runner.Reporter fan-out: console,
// JSON and JUnit XML outputs, one Reporter per configured kind.
package report

import (
	"github.com/SpectralOps/service-policy-kit/dsl"
	"github.com/SpectralOps/service-policy-kit/runner"
)

// Config is the free-form per-output configuration bag (folder,
// verbose, ...), mirroring the original's ReporterConfig.
type Config map[string]string

// Build resolves one runner.Reporter by kind, defaulting unknown kinds
// to console the way the original Reporter::new does.
func Build(kind string, cfg Config) runner.Reporter {
	switch kind {
	case "json":
		return NewJSON()
	case "junit":
		return NewJUnit(cfg)
	case "console":
		return NewConsole(cfg)
	default:
		return NewConsole(cfg)
	}
}

// BuildAll resolves a Reporter for every entry in kinds.
func BuildAll(kinds map[string]Config) []runner.Reporter {
	out := make([]runner.Reporter, 0, len(kinds))
	for kind, cfg := range kinds {
		out = append(out, Build(kind, cfg))
	}
	return out
}

func durationTotal(results []dsl.CheckResult) (total int64) {
	for _, r := range results {
		total += r.Duration.Milliseconds()
	}
	return total
}
