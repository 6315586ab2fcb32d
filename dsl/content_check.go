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

import "time"

// Sender abstracts "turn a prepared Request into a Response", so the
// engine never depends on how a request actually gets sent (live HTTP,
// replayed examples, ...). Concrete implementations live outside this
// package, in package sender, whose Build picks one from its options.
type Sender interface {
	Send(ctx *Ctx, req Request) (*Response, error)
}

const contentCheckKind = "content"

// RunContentCheck executes the Content Check for one interaction:
// resolve params, run vars_command, render templates, send,
// extract vars, save state, and match the wire response against the
// recorded expectation.
//
// Only interactions carrying a Response participate; others yield
// InvalidResult, the same gate the Rust original applies before doing
// any work (original_source/src/content.rs). A send error is always a
// plain transport error — it's never matched against Invalid, since
// there is no wire response to match.
//
// An interaction with an Invalid record is read as "this request is
// expected to fail or be rejected": once a wire response comes back,
// it's matched against Invalid first, and an empty violation set there
// (the invalid shape matched) short-circuits with a "matched invalid
// response" error instead of proceeding to the ordinary Response match.
func RunContentCheck(ctx *Ctx, sender Sender, inter *Interaction, cctx *Context) CheckResult {
	if inter.Response == nil {
		return InvalidResult(contentCheckKind, inter)
	}

	req := inter.Request

	if missing := MissingParams(req.Params, cctx); len(missing) > 0 {
		return CheckResult{
			Kind:    contentCheckKind,
			Request: req,
			Error:   MissingParamsError(missing).Error(),
		}
	}

	start := time.Now()

	cmdVars := RunVarsCommand(ctx, req.VarsCmd, req, cctx.Responses)
	vars := mergedVars(cmdVars, cctx.Vars)
	prepared := Prepare(req, vars, cctx.varBraces())

	var wire *Response
	var sendErr error
	if es, ok := sender.(interface {
		SendFor(*Ctx, *Interaction, Request) (*Response, error)
	}); ok {
		wire, sendErr = es.SendFor(ctx, inter, prepared)
	} else {
		wire, sendErr = sender.Send(ctx, prepared)
	}
	if sendErr != nil {
		return CheckResult{
			Kind:     contentCheckKind,
			Request:  prepared,
			Duration: time.Since(start),
			Error:    sendErr.Error(),
		}
	}

	extracted, err := Extract(wire, req.Vars)
	if err != nil {
		if broken, is := IsBroken(err); is {
			ctx.Logf("content check %s: broken extraction: %s", req.GetID(), broken)
		}
		return CheckResult{
			Kind:     contentCheckKind,
			Request:  prepared,
			Response: wire,
			Duration: time.Since(start),
			Error:    err.Error(),
		}
	}

	saved := *wire
	saved.Vars = extracted
	if saved.RequestID == "" {
		saved.RequestID = req.GetID()
	}
	saved.SaveVars(cctx)
	saved.SaveResponse(cctx)

	if inter.Invalid != nil {
		if len(NewRegexMatcher(contentCheckKind).IsMatch(&saved, inter.Invalid)) == 0 {
			return CheckResult{
				Kind:     contentCheckKind,
				Request:  prepared,
				Response: &saved,
				Duration: time.Since(start),
				Error:    "matched invalid response",
			}
		}
	}

	violations := NewRegexMatcher(contentCheckKind).IsMatch(&saved, inter.Response)
	return CheckResult{
		Kind:       contentCheckKind,
		Request:    prepared,
		Response:   &saved,
		Duration:   time.Since(start),
		Violations: violations,
	}
}
