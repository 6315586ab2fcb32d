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

	"github.com/spf13/cobra"

	"github.com/SpectralOps/service-policy-kit/dsl"
)

var certCmd = &cobra.Command{
	Use:   "cert <sequence.yaml>",
	Short: "run a sequence's TLS certificate checks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig()
		if err != nil {
			return err
		}
		doc, err := dsl.LoadSequence(args[0])
		if err != nil {
			return err
		}

		ctx := dsl.NewCtx(context.Background())
		ctx.Verbose = cfg.Verbose
		cctx := dsl.NewContext()
		cctx.Config.VarBraces = cfg.VarBraces

		reporters := buildReporters(cfg)

		failing := 0
		for _, inter := range doc.HTTPInteractions {
			if inter.Cert == nil {
				continue
			}
			for _, rep := range reporters {
				rep.Start(inter)
			}
			res := dsl.RunCertCheck(ctx, inter, cctx)
			for _, rep := range reporters {
				rep.Report(inter, res)
			}
			if res.Error != "" || len(res.Violations) > 0 {
				failing++
			}
		}

		if failing > 0 {
			return fmt.Errorf("%d certificate check(s) failed", failing)
		}
		return nil
	},
}
