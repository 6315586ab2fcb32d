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
	"regexp"
	"strings"
)

// RegexMatcher compares a wire Response against a recorded Response
// field by field, entirely via regular expressions. kind tags
// every emitted Violation (e.g. "content").
type RegexMatcher struct {
	Kind string
}

// NewRegexMatcher returns a matcher that tags violations with kind.
func NewRegexMatcher(kind string) *RegexMatcher {
	return &RegexMatcher{Kind: kind}
}

// IsMatch returns the violations found comparing wire against
// recorded. A nil recorded produces a single RecordedMissing
// violation. Violations are emitted in the order [body, status,
// headers, vars], at most one per field.
func (m *RegexMatcher) IsMatch(wire *Response, recorded *Response) []Violation {
	if recorded == nil {
		return []Violation{{
			Kind:     m.Kind,
			Cause:    CauseRecordedMissing,
			Subject:  "response",
			Recorded: fmt.Sprintf("%+v", wire),
		}}
	}

	var out []Violation
	if v := m.matchField("body", wire.Body, recorded.Body, recorded.Body != ""); v != nil {
		out = append(out, *v)
	}
	if v := m.matchField("status_code", wire.StatusCode, recorded.StatusCode, recorded.StatusCode != ""); v != nil {
		out = append(out, *v)
	}
	if v := m.matchHeaders(wire.Headers, recorded.Headers); v != nil {
		out = append(out, *v)
	}
	if v := m.matchVars(wire.Vars, recorded.Vars); v != nil {
		out = append(out, *v)
	}
	return out
}

func (m *RegexMatcher) matchField(name, wireValue, recordedValue string, recordedPresent bool) *Violation {
	if !recordedPresent {
		return nil
	}
	if wireValue == "" {
		return &Violation{
			Kind:     m.Kind,
			Cause:    CauseWireMissing,
			Subject:  name,
			On:       name,
			Recorded: recordedValue,
		}
	}

	re, err := regexp.Compile(recordedValue)
	if err != nil {
		return &Violation{
			Kind:     m.Kind,
			Cause:    CauseError,
			Subject:  name,
			On:       name,
			Wire:     wireValue,
			Recorded: fmt.Sprintf("invalid pattern: %s", err),
		}
	}
	if !re.MatchString(wireValue) {
		return &Violation{
			Kind:     m.Kind,
			Cause:    CauseMismatch,
			Subject:  name,
			On:       name,
			Wire:     wireValue,
			Recorded: recordedValue,
		}
	}
	return nil
}

func (m *RegexMatcher) matchHeaders(wire, recorded map[string]HeaderList) *Violation {
	if recorded == nil {
		return nil
	}
	if wire == nil {
		return &Violation{
			Kind:     m.Kind,
			Cause:    CauseWireMissing,
			Subject:  "headers",
			On:       "all headers",
			Recorded: fmt.Sprintf("%v", recorded),
		}
	}

	lowerWire := lowerKeyedHeaders(wire)

	for key, patterns := range recorded {
		lkey := strings.ToLower(key)
		wireValues, have := lowerWire[lkey]
		if !have {
			return &Violation{
				Kind:     m.Kind,
				Cause:    CauseMismatch,
				Subject:  "headers",
				On:       lkey,
				Wire:     fmt.Sprintf("%v", []string{}),
				Recorded: fmt.Sprintf("%v", patterns),
			}
		}
		if !anyPatternMatchesAnyValue(patterns, wireValues) {
			return &Violation{
				Kind:     m.Kind,
				Cause:    CauseMismatch,
				Subject:  "headers",
				On:       lkey,
				Wire:     fmt.Sprintf("%v", wireValues),
				Recorded: fmt.Sprintf("%v", patterns),
			}
		}
	}
	return nil
}

func (m *RegexMatcher) matchVars(wire, recorded map[string]string) *Violation {
	if recorded == nil {
		return nil
	}
	if wire == nil {
		return &Violation{
			Kind:     m.Kind,
			Cause:    CauseWireMissing,
			Subject:  "vars",
			On:       "all vars",
			Recorded: fmt.Sprintf("%v", recorded),
		}
	}

	lowerWire := make(map[string]string, len(wire))
	for k, v := range wire {
		lowerWire[strings.ToLower(k)] = v
	}

	for key, pattern := range recorded {
		lkey := strings.ToLower(key)
		wireValue, have := lowerWire[lkey]
		if !have {
			return &Violation{
				Kind:     m.Kind,
				Cause:    CauseMismatch,
				Subject:  "vars",
				On:       lkey,
				Wire:     "",
				Recorded: pattern,
			}
		}
		re, err := regexp.Compile(pattern)
		if err != nil || !re.MatchString(wireValue) {
			return &Violation{
				Kind:     m.Kind,
				Cause:    CauseMismatch,
				Subject:  "vars",
				On:       lkey,
				Wire:     wireValue,
				Recorded: pattern,
			}
		}
	}
	return nil
}

func lowerKeyedHeaders(h map[string]HeaderList) map[string]HeaderList {
	out := make(map[string]HeaderList, len(h))
	for k, v := range h {
		out[strings.ToLower(k)] = v
	}
	return out
}

func anyPatternMatchesAnyValue(patterns, values HeaderList) bool {
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		for _, v := range values {
			if re.MatchString(v) {
				return true
			}
		}
	}
	return false
}
