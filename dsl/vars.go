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
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/xeipuuv/gojsonpointer"
)

// Extract pulls one named variable out of response for each entry in
// infos.
func Extract(response *Response, infos map[string]VarInfo) (map[string]string, error) {
	logical, err := logicalValue(response)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(infos))
	for name, info := range infos {
		v, err := extractVar(logical, info)
		if err != nil {
			return nil, fmt.Errorf("extracting var %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

// logicalValue builds the {body, headers, status} object that
// info.From is resolved against. A Response's fields are always
// JSON-marshalable plain strings and string-slice maps, so a failure
// here means the shape was broken before it ever reached this
// function, not a bad recorded pattern or a bad response body.
func logicalValue(response *Response) (interface{}, error) {
	js, err := json.Marshal(map[string]interface{}{
		"body":    response.Body,
		"headers": response.Headers,
		"status":  response.StatusCode,
	})
	if err != nil {
		return nil, Brokenf("marshaling logical response value: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(js, &v); err != nil {
		return nil, Brokenf("unmarshaling logical response value: %w", err)
	}
	return v, nil
}

func extractVar(logical interface{}, info VarInfo) (string, error) {
	v := logical

	if info.Kind == "json" {
		m, is := logical.(map[string]interface{})
		if !is {
			return "", fmt.Errorf("logical response value is not an object")
		}
		bodyRaw, have := m["body"]
		if !have {
			return "", fmt.Errorf("body key not found")
		}
		headers, have := m["headers"]
		if !have {
			return "", fmt.Errorf("headers key not found")
		}
		status, have := m["status"]
		if !have {
			return "", fmt.Errorf("status key not found")
		}

		var body interface{} = map[string]interface{}{}
		if bodyStr, is := bodyRaw.(string); is && bodyStr != "" {
			var parsed interface{}
			if err := json.Unmarshal([]byte(bodyStr), &parsed); err == nil {
				body = parsed
			}
		}

		v = map[string]interface{}{
			"body":    body,
			"headers": headers,
			"status":  status,
		}
	}

	resolved, str := resolvePointer(v, info.From)
	if !resolved {
		if info.Default != "" {
			str = info.Default
		} else {
			str = ""
		}
	}

	if info.Expr != "" {
		re, err := regexp.Compile(info.Expr)
		if err != nil {
			return "", fmt.Errorf("compiling expr %q: %w", info.Expr, err)
		}
		m := re.FindStringSubmatch(str)
		if m == nil {
			return "", nil
		}
		if len(m) > 1 {
			return m[1], nil
		}
		return m[0], nil
	}

	return str, nil
}

// resolvePointer resolves a JSON pointer into v using
// xeipuuv/gojsonpointer and coerces the result to its canonical string
// form.
func resolvePointer(v interface{}, pointer string) (bool, string) {
	if pointer == "" {
		return false, ""
	}
	if pointer[0] != '/' {
		pointer = "/" + pointer
	}

	ptr, err := gojsonpointer.NewJsonPointer(pointer)
	if err != nil {
		return false, ""
	}

	result, _, err := ptr.Get(v)
	if err != nil {
		return false, ""
	}

	return true, coerceString(result)
}

func coerceString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		js, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprintf("%v", x)
		}
		return string(js)
	}
}
