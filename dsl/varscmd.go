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
	"bytes"
	"encoding/json"
	"os/exec"
)

// varsCmdMessage is the JSON object written to a vars_command's stdin.
type varsCmdMessage struct {
	Request   Request              `json:"request"`
	Responses map[string]*Response `json:"responses"`
}

// RunVarsCommand spawns cmd as a single shell argument, feeds it the
// request and the current response bag as JSON on stdin, and parses
// its stdout as a JSON object of string bindings.
//
// Failures are never fatal: an error here just means no extra
// bindings are contributed, mirroring
// cmd/plaxrun/dsl/test_param.go's "log and move on" treatment of
// binding-command failures.
func RunVarsCommand(ctx *Ctx, cmd string, req Request, responses map[string]*Response) map[string]string {
	if cmd == "" {
		return map[string]string{}
	}

	msg := varsCmdMessage{Request: req, Responses: responses}
	stdin, err := json.Marshal(&msg)
	if err != nil {
		ctx.Logdf("vars_command: failed to marshal request: %s", err)
		return map[string]string{}
	}

	c := exec.Command("sh", "-c", cmd)
	c.Stdin = bytes.NewReader(stdin)

	var stdout bytes.Buffer
	c.Stdout = &stdout

	if err := c.Run(); err != nil {
		ctx.Logdf("vars_command %q failed: %s", cmd, err)
		return map[string]string{}
	}

	var vars map[string]string
	if err := json.Unmarshal(stdout.Bytes(), &vars); err != nil {
		ctx.Logdf("vars_command %q produced invalid JSON: %s", cmd, err)
		return map[string]string{}
	}

	return vars
}
