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
	"encoding/json"
	"fmt"

	"github.com/SpectralOps/service-policy-kit/dsl"
)

// JSON reports nothing until the run ends, then emits a single JSON
// document describing the whole sequence.
type JSON struct{}

// NewJSON builds a JSON reporter.
func NewJSON() *JSON {
	return &JSON{}
}

func (j *JSON) Start(inter *dsl.Interaction) {}

func (j *JSON) Report(inter *dsl.Interaction, res dsl.CheckResult) {}

type endEvent struct {
	Interactions []*dsl.Interaction `json:"interactions"`
	Results      []dsl.CheckResult  `json:"results"`
}

func (j *JSON) End(sequence []*dsl.Interaction, results []dsl.CheckResult) {
	bs, err := json.Marshal(&endEvent{Interactions: sequence, Results: results})
	if err != nil {
		fmt.Printf(`{"error": %q}`+"\n", err.Error())
		return
	}
	fmt.Println(string(bs))
}
