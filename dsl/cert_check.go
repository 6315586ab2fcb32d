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
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"time"
)

const certCheckKind = "cert"

// RunCertCheck executes the Cert Check for one interaction:
// dial the request's host over TLS, pull the leaf certificate from the
// handshake, and validate its expiry window, issuer and subject
// against the recorded CertificateDetail.
//
// Only interactions carrying a Cert participate; others yield
// InvalidResult. Dialing uses crypto/tls directly: no library in the
// retrieval pack wraps certificate inspection, and stdlib is the
// idiomatic tool for it (see DESIGN.md).
func RunCertCheck(ctx *Ctx, inter *Interaction, cctx *Context) CheckResult {
	if inter.Cert == nil {
		return InvalidResult(certCheckKind, inter)
	}

	req := inter.Request
	if missing := MissingParams(req.Params, cctx); len(missing) > 0 {
		return CheckResult{
			Kind:    certCheckKind,
			Request: req,
			Error:   MissingParamsError(missing).Error(),
		}
	}

	prepared := Prepare(req, cctx.Vars, cctx.varBraces())

	start := time.Now()
	host, err := hostForCertDial(prepared.URI)
	if err != nil {
		return CheckResult{
			Kind:     certCheckKind,
			Request:  prepared,
			Duration: time.Since(start),
			Error:    err.Error(),
		}
	}

	dialer := &net.Dialer{Timeout: prepared.GetTimeout()}
	conn, err := tls.DialWithDialer(dialer, "tcp", host, &tls.Config{
		// The cert check inspects whatever certificate the server
		// presents; it is not itself validating trust chains.
		InsecureSkipVerify: true, //nolint:gosec
	})
	if err != nil {
		return CheckResult{
			Kind:     certCheckKind,
			Request:  prepared,
			Duration: time.Since(start),
			Error:    fmt.Sprintf("TLS dial failed: %s", err),
		}
	}
	defer conn.Close()

	state := conn.ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return CheckResult{
			Kind:     certCheckKind,
			Request:  prepared,
			Duration: time.Since(start),
			Error:    "no peer certificates presented",
		}
	}
	leaf := state.PeerCertificates[0]

	var violations []Violation

	// Violation when the cert's notAfter falls before the max_days
	// horizon from now, i.e. it expires sooner than the required
	// runway rather than having already expired.
	remaining := time.Until(leaf.NotAfter)
	remainingDays := int64(remaining.Hours() / 24)
	horizon := time.Duration(inter.Cert.MaxDays) * 24 * time.Hour
	if remaining < horizon {
		violations = append(violations, Violation{
			Kind:     certCheckKind,
			Cause:    CauseMismatch,
			Subject:  "expiry",
			On:       "expiry",
			Wire:     fmt.Sprintf("%s (%d days left)", leaf.NotAfter.Format(time.RFC3339), remainingDays),
			Recorded: fmt.Sprintf("> %d days", inter.Cert.MaxDays),
		})
	}

	if inter.Cert.Issuer != "" {
		if v := matchCertField(certCheckKind, "issuer", leaf.Issuer.String(), inter.Cert.Issuer); v != nil {
			violations = append(violations, *v)
		}
	}
	if inter.Cert.Subject != "" {
		if v := matchCertField(certCheckKind, "subject", leaf.Subject.String(), inter.Cert.Subject); v != nil {
			violations = append(violations, *v)
		}
	}

	return CheckResult{
		Kind:       certCheckKind,
		Request:    prepared,
		Duration:   time.Since(start),
		Violations: violations,
	}
}

func matchCertField(kind, name, wireValue, pattern string) *Violation {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return &Violation{
			Kind:     kind,
			Cause:    CauseError,
			Subject:  "cert",
			On:       name,
			Wire:     wireValue,
			Recorded: fmt.Sprintf("invalid pattern: %s", err),
		}
	}
	if !re.MatchString(wireValue) {
		return &Violation{
			Kind:     kind,
			Cause:    CauseMismatch,
			Subject:  "cert",
			On:       name,
			Wire:     wireValue,
			Recorded: pattern,
		}
	}
	return nil
}

// hostForCertDial extracts a host:port suitable for tls.Dial from a
// request URI, defaulting to port 443.
func hostForCertDial(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parsing uri %q: %w", uri, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("uri %q has no host", uri)
	}
	if u.Port() != "" {
		return u.Host, nil
	}
	return net.JoinHostPort(u.Hostname(), "443"), nil
}
