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
	"sort"
	"strings"
)

// DefaultVarBraces is the placeholder pattern used when
// Context.Config.VarBraces is unset. It must contain the literal token
// "var", which gets replaced by a binding's name to form the actual
// placeholder (e.g. "{{var}}" -> "{{host}}" for binding "host").
const DefaultVarBraces = "{{var}}"

// Config holds per-sequence runtime configuration for the Context.
type Config struct {
	VarBraces string
}

// Context is the mutable, per-sequence state: accumulated variable
// bindings and captured responses, threaded explicitly in and out of
// every check the way plax threads its Bindings map.
type Context struct {
	Vars      map[string]string
	Responses map[string]*Response
	Config    Config
}

// NewContext returns an empty Context ready to run a sequence.
func NewContext() *Context {
	return &Context{
		Vars:      make(map[string]string),
		Responses: make(map[string]*Response),
	}
}

// Copy makes a shallow copy of the context's mutable maps, leaving the
// original untouched. Useful for callers that want snapshot/restore
// semantics across sequences (the engine itself never does this).
func (c *Context) Copy() *Context {
	vars := make(map[string]string, len(c.Vars))
	for k, v := range c.Vars {
		vars[k] = v
	}
	responses := make(map[string]*Response, len(c.Responses))
	for k, v := range c.Responses {
		responses[k] = v
	}
	return &Context{Vars: vars, Responses: responses, Config: c.Config}
}

func (c *Context) varBraces() string {
	if c.Config.VarBraces != "" {
		return c.Config.VarBraces
	}
	return DefaultVarBraces
}

// Render substitutes every {{name}} placeholder (or whatever the
// configured brace pattern spells out) in text using the given
// bindings. Substitution is a single pass over text covering every
// binding at once; a value that is itself substituted is not re-scanned.
func Render(text string, vars map[string]string, braces string) string {
	if braces == "" {
		braces = DefaultVarBraces
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		placeholder := strings.Replace(braces, "var", name, 1)
		pairs = append(pairs, placeholder, vars[name])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// mergedVars builds the effective binding set for rendering one
// request: context.Vars always wins over vars produced by vars_command.
func mergedVars(cmdVars, contextVars map[string]string) map[string]string {
	out := make(map[string]string, len(cmdVars)+len(contextVars))
	for k, v := range cmdVars {
		out[k] = v
	}
	for k, v := range contextVars {
		out[k] = v
	}
	return out
}

// Prepare clones the interaction's request and renders every templated
// field from the given bindings. It does not execute
// vars_command or check request.params; callers that need those do so
// before calling Prepare (see content_check.go).
func Prepare(req Request, vars map[string]string, braces string) Request {
	out := req
	out.URI = Render(req.URI, vars, braces)

	if req.URIList != nil {
		list := make([]string, len(req.URIList))
		for i, u := range req.URIList {
			list[i] = Render(u, vars, braces)
		}
		out.URIList = list
	}

	if req.BasicAuth != nil {
		ba := *req.BasicAuth
		ba.User = Render(ba.User, vars, braces)
		ba.Password = Render(ba.Password, vars, braces)
		out.BasicAuth = &ba
	}

	if req.AWSAuth != nil {
		aa := *req.AWSAuth
		aa.Service = Render(aa.Service, vars, braces)
		aa.Key = Render(aa.Key, vars, braces)
		aa.Secret = Render(aa.Secret, vars, braces)
		aa.Region = Render(aa.Region, vars, braces)
		aa.Token = Render(aa.Token, vars, braces)
		aa.Endpoint = Render(aa.Endpoint, vars, braces)
		out.AWSAuth = &aa
	}

	if req.Headers != nil {
		headers := make(map[string]HeaderList, len(req.Headers))
		for name, values := range req.Headers {
			rendered := make(HeaderList, len(values))
			for i, v := range values {
				rendered[i] = Render(v, vars, braces)
			}
			headers[name] = rendered
		}
		out.Headers = headers
	}

	out.Body = Render(req.Body, vars, braces)

	return out
}

// MissingParamsError formats the aggregated error for
// missing request.params entries.
func MissingParamsError(missing []Param) error {
	var b strings.Builder
	for _, p := range missing {
		fmt.Fprintf(&b, "name: %s\ndesc: %s\n\n", p.Name, p.Desc)
	}
	return fmt.Errorf("Missing required params:\n%s", b.String())
}

// MissingParams returns the subset of params not present in ctx.Vars.
func MissingParams(params []Param, ctx *Context) []Param {
	var missing []Param
	for _, p := range params {
		if _, have := ctx.Vars[p.Name]; !have {
			missing = append(missing, p)
		}
	}
	return missing
}
