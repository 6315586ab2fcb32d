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

import "testing"

const sampleSequence = `
http_interactions:
  - request:
      id: get-ok
      uri: "https://{{host}}/api/ok"
      method: get
    response:
      status_code: "200"
  - request:
      id: bench-ok
      uri: "https://{{host}}/api/ok"
    benchmark:
      times: 10
      avg_ms: 200
`

func TestParseSequence(t *testing.T) {
	doc, err := ParseSequence([]byte(sampleSequence))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.HTTPInteractions) != 2 {
		t.Fatalf("expected 2 interactions, got %d", len(doc.HTTPInteractions))
	}
	if doc.HTTPInteractions[0].Request.GetID() != "get-ok" {
		t.Errorf("unexpected id: %s", doc.HTTPInteractions[0].Request.GetID())
	}
	if doc.HTTPInteractions[1].Benchmark == nil || doc.HTTPInteractions[1].Benchmark.Times != 10 {
		t.Errorf("expected benchmark with times=10, got %+v", doc.HTTPInteractions[1].Benchmark)
	}
}

func TestParseSequenceRejectsEmptyInteraction(t *testing.T) {
	_, err := ParseSequence([]byte("http_interactions:\n  - null\n"))
	if err == nil {
		t.Fatal("expected an error for a nil interaction entry")
	}
}
