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

// Package sender provides the concrete dsl.Sender implementations: a
// live HTTP sender and a dry sender that replays an interaction's
// recorded examples instead of talking to the network.
package sender

import (
	"fmt"

	"github.com/SpectralOps/service-policy-kit/dsl"
)

// UserAgent identifies this tool to servers it talks to.
const UserAgent = "service-policy-kit/1"

// Options configures which Sender Build returns.
type Options struct {
	// DryRunExample, if non-empty, selects DrySender and names the
	// examples key each interaction should be replayed from.
	DryRunExample string
}

// Build returns the Sender selected by opts, the way plax's chans
// registry resolves a channel implementation by kind.
func Build(opts Options) dsl.Sender {
	if opts.DryRunExample != "" {
		return NewDrySender(opts.DryRunExample)
	}
	return NewLiveSender()
}

func fmtStatus(code int) string {
	return fmt.Sprintf("%d", code)
}
