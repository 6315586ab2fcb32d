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

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/SpectralOps/service-policy-kit/discovery"
	"github.com/SpectralOps/service-policy-kit/dsl"
)

var discoverOut string

var discoverCmd = &cobra.Command{
	Use:   "discover <openapi.yaml>",
	Short: "generate a starter sequence document from an OpenAPI spec",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		interactions, err := discovery.New(nil).Discover(raw)
		if err != nil {
			return err
		}

		doc := dsl.SequenceDocument{HTTPInteractions: interactions}
		out, err := yaml.Marshal(&doc)
		if err != nil {
			return err
		}

		if discoverOut == "" {
			fmt.Println(string(out))
			return nil
		}
		return os.WriteFile(discoverOut, out, 0o644)
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverOut, "out", "", "write the generated sequence to this file instead of stdout")
}
