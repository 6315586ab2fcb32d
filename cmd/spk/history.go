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

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/SpectralOps/service-policy-kit/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "list past sequence run outcomes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig()
		if err != nil {
			return err
		}

		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.List()
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No recorded runs")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Ran At", "Sequence", "OK", "Total", "Violations", "Errors", "Duration"})
		for _, run := range runs {
			table.Append([]string{
				run.RanAt.Format("2006-01-02 15:04:05"),
				run.SequenceFile,
				fmt.Sprintf("%v", run.OK),
				fmt.Sprintf("%d", run.Total),
				fmt.Sprintf("%d", run.Violations),
				fmt.Sprintf("%d", run.Errors),
				fmt.Sprintf("%dms", run.DurationMS),
			})
		}
		table.Render()
		return nil
	},
}
