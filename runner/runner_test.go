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

package runner

import (
	"context"
	"testing"

	"github.com/SpectralOps/service-policy-kit/dsl"
)

type fakeSender struct {
	statusCode string
}

func (f *fakeSender) Send(ctx *dsl.Ctx, req dsl.Request) (*dsl.Response, error) {
	return &dsl.Response{RequestID: req.GetID(), StatusCode: f.statusCode}, nil
}

type recordingReporter struct {
	started, reported, ended int
}

func (r *recordingReporter) Start(inter *dsl.Interaction)                             { r.started++ }
func (r *recordingReporter) Report(inter *dsl.Interaction, res dsl.CheckResult)        { r.reported++ }
func (r *recordingReporter) End(seq []*dsl.Interaction, results []dsl.CheckResult)     { r.ended++ }

func testCtx() *dsl.Ctx {
	return dsl.NewCtx(context.Background())
}

func TestRunnerOKWhenAllMatch(t *testing.T) {
	sequence := []*dsl.Interaction{
		{Request: dsl.Request{ID: "a"}, Response: &dsl.Response{StatusCode: "200"}},
	}
	r := New(Options{Sender: &fakeSender{statusCode: "200"}})

	report := r.Run(testCtx(), dsl.NewContext(), sequence)
	if !report.OK {
		t.Fatalf("expected OK run, got %+v", report)
	}
}

func TestRunnerFailsOnViolation(t *testing.T) {
	sequence := []*dsl.Interaction{
		{Request: dsl.Request{ID: "a"}, Response: &dsl.Response{StatusCode: "500"}},
	}
	r := New(Options{Sender: &fakeSender{statusCode: "200"}})

	report := r.Run(testCtx(), dsl.NewContext(), sequence)
	if report.OK {
		t.Fatal("expected run to fail")
	}
}

func TestRunnerFlipInvertsPolarity(t *testing.T) {
	sequence := []*dsl.Interaction{
		{Request: dsl.Request{ID: "a"}, Response: &dsl.Response{StatusCode: "500"}},
	}
	r := New(Options{Sender: &fakeSender{statusCode: "200"}, Flip: true})

	report := r.Run(testCtx(), dsl.NewContext(), sequence)
	if !report.OK {
		t.Fatal("expected flipped run to report OK when every result has violations")
	}
}

func TestRunnerEmptySequenceIsVacuouslyOK(t *testing.T) {
	r := New(Options{Sender: &fakeSender{statusCode: "200"}})
	if !r.Run(testCtx(), dsl.NewContext(), nil).OK {
		t.Fatal("expected empty sequence to be OK")
	}
	flipR := New(Options{Sender: &fakeSender{statusCode: "200"}, Flip: true})
	if !flipR.Run(testCtx(), dsl.NewContext(), nil).OK {
		t.Fatal("expected empty sequence to be OK in flip mode too")
	}
}

func TestRunnerReportsToAllReporters(t *testing.T) {
	sequence := []*dsl.Interaction{
		{Request: dsl.Request{ID: "a"}, Response: &dsl.Response{StatusCode: "200"}},
	}
	rep := &recordingReporter{}
	r := New(Options{Sender: &fakeSender{statusCode: "200"}, Reporters: []Reporter{rep}})

	r.Run(testCtx(), dsl.NewContext(), sequence)

	if rep.started != 1 || rep.reported != 1 || rep.ended != 1 {
		t.Fatalf("expected one start/report/end, got %+v", rep)
	}
}
