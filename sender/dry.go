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

package sender

import (
	"github.com/SpectralOps/service-policy-kit/dsl"
)

// DrySender never touches the network: it replays one of the
// interaction's recorded Examples instead of sending req, for
// rehearsing a sequence's vars/matcher wiring offline.
type DrySender struct {
	Example string
}

// NewDrySender returns a DrySender that replays the named example key.
func NewDrySender(example string) *DrySender {
	return &DrySender{Example: example}
}

// Send always returns the canned response: it only sees the prepared
// Request, not the owning Interaction, so it cannot look up Examples.
// dsl.RunContentCheck calls SendFor instead, passing the Interaction.
func (s *DrySender) Send(ctx *dsl.Ctx, req dsl.Request) (*dsl.Response, error) {
	ctx.Logdf("dry sender: replaying %q for %s", s.Example, req.GetID())
	return &dsl.Response{
		RequestID:  req.GetID(),
		StatusCode: "200",
		Body:       `{"ok": true}`,
	}, nil
}

// SendFor replays inter.Examples[s.Example] if present, falling back
// to the same canned response Send returns.
func (s *DrySender) SendFor(ctx *dsl.Ctx, inter *dsl.Interaction, req dsl.Request) (*dsl.Response, error) {
	if inter.Examples != nil {
		if ex, have := inter.Examples[s.Example]; have {
			out := *ex
			if out.RequestID == "" {
				out.RequestID = req.GetID()
			}
			return &out, nil
		}
		ctx.Logf("dry sender: no example %q for interaction %s", s.Example, req.GetID())
	}
	return s.Send(ctx, req)
}
