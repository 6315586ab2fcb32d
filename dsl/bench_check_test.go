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
	"errors"
	"testing"
)

func TestBenchCheckWithinBudget(t *testing.T) {
	sender := &fakeSender{resp: &Response{StatusCode: "200"}}
	inter := &Interaction{
		Request:   Request{URI: "https://example.com"},
		Benchmark: &Benchmark{Times: 5, AvgMS: 1000, P95MS: 1000, P99MS: 1000, TimeMS: 5000},
	}
	cctx := NewContext()

	res := RunBenchCheck(newTestCtx(), sender, inter, cctx)
	if len(res.Violations) != 0 {
		t.Fatalf("expected no violations within budget, got %+v", res.Violations)
	}
}

func TestBenchCheckRecordsSendFailures(t *testing.T) {
	sender := &fakeSender{err: errors.New("boom")}
	inter := &Interaction{
		Request:   Request{URI: "https://example.com"},
		Benchmark: &Benchmark{Times: 3},
	}
	cctx := NewContext()

	res := RunBenchCheck(newTestCtx(), sender, inter, cctx)
	found := false
	for _, v := range res.Violations {
		if v.On == "failures" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a failures violation, got %+v", res.Violations)
	}
}

func TestBenchCheckZeroTimesErrors(t *testing.T) {
	sender := &fakeSender{resp: &Response{StatusCode: "200"}}
	inter := &Interaction{
		Request:   Request{URI: "https://example.com"},
		Benchmark: &Benchmark{Times: 0, P95MS: 1000},
	}
	cctx := NewContext()

	res := RunBenchCheck(newTestCtx(), sender, inter, cctx)
	if res.Error == "" {
		t.Fatal("expected an error for Times: 0")
	}
	if len(res.Violations) != 0 {
		t.Fatalf("expected no violations, got %+v", res.Violations)
	}
	if sender.calls != 0 {
		t.Fatalf("expected the sender never to be invoked, got %d calls", sender.calls)
	}
}

func TestBenchCheckInvalidWithoutBenchmark(t *testing.T) {
	sender := &fakeSender{resp: &Response{StatusCode: "200"}}
	inter := &Interaction{Request: Request{URI: "https://example.com"}}
	cctx := NewContext()

	res := RunBenchCheck(newTestCtx(), sender, inter, cctx)
	if res.Error != "Invalid check" {
		t.Fatalf("expected invalid-check result, got %+v", res)
	}
}
