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
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSequence reads and parses a sequence document from path.
func LoadSequence(path string) (*SequenceDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseSequence(raw)
}

// ParseSequence parses a sequence document from its YAML bytes.
func ParseSequence(raw []byte) (*SequenceDocument, error) {
	var doc SequenceDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing sequence: %w", err)
	}
	for i, inter := range doc.HTTPInteractions {
		if inter == nil {
			return nil, fmt.Errorf("http_interactions[%d]: empty interaction", i)
		}
	}
	return &doc, nil
}
