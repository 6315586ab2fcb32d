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

func TestMatcherExactMatch(t *testing.T) {
	wire := &Response{StatusCode: "200", Body: "hello"}
	recorded := &Response{StatusCode: "200", Body: "hel+o"}

	violations := NewRegexMatcher("content").IsMatch(wire, recorded)
	if len(violations) != 0 {
		t.Fatalf("expected no violations, got %+v", violations)
	}
}

func TestMatcherStatusMismatch(t *testing.T) {
	wire := &Response{StatusCode: "500"}
	recorded := &Response{StatusCode: "200"}

	violations := NewRegexMatcher("content").IsMatch(wire, recorded)
	if len(violations) != 1 || violations[0].Subject != "status_code" {
		t.Fatalf("expected a single status_code violation, got %+v", violations)
	}
	if violations[0].Cause != CauseMismatch {
		t.Errorf("cause = %s, want Mismatch", violations[0].Cause)
	}
}

func TestMatcherRecordedMissing(t *testing.T) {
	violations := NewRegexMatcher("content").IsMatch(&Response{}, nil)
	if len(violations) != 1 || violations[0].Cause != CauseRecordedMissing {
		t.Fatalf("expected a RecordedMissing violation, got %+v", violations)
	}
}

func TestMatcherHeadersCaseInsensitive(t *testing.T) {
	wire := &Response{Headers: map[string]HeaderList{"Content-Type": {"application/json"}}}
	recorded := &Response{Headers: map[string]HeaderList{"content-type": {"application/.*"}}}

	violations := NewRegexMatcher("content").IsMatch(wire, recorded)
	if len(violations) != 0 {
		t.Fatalf("expected no violations, got %+v", violations)
	}
}

func TestMatcherHeaderWireMissing(t *testing.T) {
	wire := &Response{}
	recorded := &Response{Headers: map[string]HeaderList{"x-id": {".*"}}}

	violations := NewRegexMatcher("content").IsMatch(wire, recorded)
	if len(violations) != 1 || violations[0].Subject != "headers" || violations[0].Cause != CauseWireMissing {
		t.Fatalf("expected a headers WireMissing violation, got %+v", violations)
	}
}

func TestMatcherVarsMismatch(t *testing.T) {
	wire := &Response{Vars: map[string]string{"id": "abc"}}
	recorded := &Response{Vars: map[string]string{"ID": `^\d+$`}}

	violations := NewRegexMatcher("content").IsMatch(wire, recorded)
	if len(violations) != 1 || violations[0].Subject != "vars" {
		t.Fatalf("expected a single vars violation, got %+v", violations)
	}
}

func TestMatcherOrdering(t *testing.T) {
	wire := &Response{}
	recorded := &Response{
		Body:       "x",
		StatusCode: "200",
		Headers:    map[string]HeaderList{"x-id": {".*"}},
	}

	violations := NewRegexMatcher("content").IsMatch(wire, recorded)
	if len(violations) != 3 {
		t.Fatalf("expected one violation per failing field, got %+v", violations)
	}
	for i, want := range []string{"body", "status_code", "headers"} {
		if violations[i].Subject != want {
			t.Errorf("violation %d: expected %s, got %s", i, want, violations[i].Subject)
		}
	}
}
