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

// Package discovery generates a starter sequence document from an
// OpenAPI spec: one Interaction per path+verb, defaulted to a 200
// expectation against a {{host}} placeholder.
package discovery

import (
	"fmt"

	"github.com/pb33f/libopenapi"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"

	"github.com/SpectralOps/service-policy-kit/dsl"
)

// OpenAPI discovers interactions from an OpenAPI 3.x document.
type OpenAPI struct {
	// Opts holds free-form discovery configuration (reserved for
	// future filtering by tag, path prefix, etc).
	Opts map[string]string
}

// New builds an OpenAPI discoverer.
func New(opts map[string]string) *OpenAPI {
	return &OpenAPI{Opts: opts}
}

// Discover parses raw as an OpenAPI 3.x document and returns one
// Interaction per path operation it finds.
func (o *OpenAPI) Discover(raw []byte) ([]*dsl.Interaction, error) {
	doc, err := libopenapi.NewDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing OpenAPI document: %w", err)
	}

	model, errs := doc.BuildV3Model()
	if len(errs) > 0 {
		return nil, fmt.Errorf("building OpenAPI v3 model: %w", errs[0])
	}

	var interactions []*dsl.Interaction

	if model.Model.Paths == nil {
		return interactions, nil
	}

	for pair := model.Model.Paths.PathItems.First(); pair != nil; pair = pair.Next() {
		path := pair.Key()
		item := pair.Value()

		ops := map[string]*v3.Operation{
			"GET":    item.Get,
			"POST":   item.Post,
			"PUT":    item.Put,
			"DELETE": item.Delete,
			"PATCH":  item.Patch,
		}

		for method, op := range ops {
			if op == nil {
				continue
			}
			interactions = append(interactions, &dsl.Interaction{
				Request: dsl.Request{
					ID:     fmt.Sprintf("%s %s", method, path),
					Desc:   op.Summary,
					Method: method,
					URI:    "http://{{host}}" + path,
					Params: requiredParams(op),
				},
				Response: &dsl.Response{
					StatusCode: "200",
				},
			})
		}
	}

	return interactions, nil
}

// requiredParams turns an operation's required OpenAPI parameters into
// the interaction Param bindings a generated sequence must supply
// before the request can be prepared.
func requiredParams(op *v3.Operation) []dsl.Param {
	var params []dsl.Param
	for _, p := range op.Parameters {
		if p == nil || p.Required == nil || !*p.Required {
			continue
		}
		params = append(params, dsl.Param{
			Name: p.Name,
			Desc: fmt.Sprintf("%s parameter %q", p.In, p.Name),
		})
	}
	return params
}
