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

package report

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/SpectralOps/service-policy-kit/dsl"
)

const (
	failSign    = "✗"
	successSign = "✓"
)

// Console is a human-readable Reporter: one line per interaction as it
// completes, and a tablewriter summary at the end when Verbose is set.
type Console struct {
	Verbose bool
}

// NewConsole builds a Console reporter from its config bag.
func NewConsole(cfg Config) *Console {
	_, verbose := cfg["verbose"]
	return &Console{Verbose: verbose}
}

func (c *Console) Start(inter *dsl.Interaction) {
	fmt.Printf("• %s: started\n", inter.Request.GetID())
}

func (c *Console) Report(inter *dsl.Interaction, res dsl.CheckResult) {
	ms := res.Duration.Milliseconds()
	switch {
	case res.Error != "":
		fmt.Printf("%s %s: error %dms\n", failSign, inter.Request.GetID(), ms)
		fmt.Printf("└─ error: %s\n", res.Error)
	case len(res.Violations) > 0:
		fmt.Printf("%s %s: failed %dms\n", failSign, inter.Request.GetID(), ms)
		if c.Verbose {
			for _, v := range res.Violations {
				fmt.Printf("      %s: wire=%q recorded=%q\n", v.Subject, v.Wire, v.Recorded)
			}
		}
	default:
		fmt.Printf("%s %s: ok %dms\n", successSign, inter.Request.GetID(), ms)
	}
}

func (c *Console) End(sequence []*dsl.Interaction, results []dsl.CheckResult) {
	if len(sequence) == 0 {
		fmt.Println("No interactions found")
		return
	}

	fmt.Printf("\nRan %d interactions with %d checks in %dms\n",
		len(sequence), len(results), durationTotal(results))

	if !c.Verbose {
		return
	}

	var success, failure, errored, skipped int
	for _, r := range results {
		switch {
		case r.Error != "":
			errored++
		case r.Response == nil:
			skipped++
		case len(r.Violations) == 0:
			success++
		default:
			failure++
		}
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Success", "Failure", "Error", "Skipped"})
	table.Append([]string{
		fmt.Sprintf("%d", success),
		fmt.Sprintf("%d", failure),
		fmt.Sprintf("%d", errored),
		fmt.Sprintf("%d", skipped),
	})
	table.Render()
}
