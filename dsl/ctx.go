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

// Package dsl is the interaction evaluation engine: the data model,
// template renderer, variable extractor, regex matcher, and the three
// checks (content, bench, cert) that operate on it.
package dsl

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// Ctx threads a context.Context plus logging verbosity through every
// call in the engine, the way plax threads *dsl.Ctx.
type Ctx struct {
	context.Context

	Verbose bool

	logger *log.Logger
}

// NewCtx wraps the given context.Context (or context.Background() if nil).
func NewCtx(parent context.Context) *Ctx {
	if parent == nil {
		parent = context.Background()
	}
	return &Ctx{
		Context: parent,
		logger:  log.Default(),
	}
}

// Logf logs at normal verbosity.
func (c *Ctx) Logf(format string, args ...interface{}) {
	c.logger.Printf(format, args...)
}

// Logdf logs only when c.Verbose is set.
func (c *Ctx) Logdf(format string, args ...interface{}) {
	if c.Verbose {
		c.logger.Printf(format, args...)
	}
}

// brokenError marks an error as a programming/internal error rather
// than an ordinary check failure, mirroring plax's Broken/IsBroken
// convention for "this should never happen" conditions.
type brokenError struct {
	err error
}

func (b *brokenError) Error() string { return b.err.Error() }
func (b *brokenError) Unwrap() error { return b.err }

// NewBroken wraps err as a broken error.
func NewBroken(err error) error {
	return &brokenError{err: err}
}

// Brokenf is a convenience constructor for NewBroken(fmt.Errorf(...)).
func Brokenf(format string, args ...interface{}) error {
	return NewBroken(fmt.Errorf(format, args...))
}

// IsBroken reports whether err (or something it wraps) is a broken error.
func IsBroken(err error) (error, bool) {
	var b *brokenError
	if errors.As(err, &b) {
		return b.err, true
	}
	return nil, false
}
