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
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SpectralOps/service-policy-kit/dsl"
)

func testCtx() *dsl.Ctx {
	return dsl.NewCtx(context.Background())
}

func TestBuildSelectsDrySender(t *testing.T) {
	s := Build(Options{DryRunExample: "ok"})
	if _, is := s.(*DrySender); !is {
		t.Fatalf("expected a DrySender, got %T", s)
	}
}

func TestBuildSelectsLiveSenderByDefault(t *testing.T) {
	s := Build(Options{})
	if _, is := s.(*LiveSender); !is {
		t.Fatalf("expected a LiveSender, got %T", s)
	}
}

func TestLiveSenderSendsAndCapturesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != UserAgent {
			t.Errorf("unexpected user agent: %s", r.Header.Get("User-Agent"))
		}
		w.Header().Set("X-Test", "yes")
		w.WriteHeader(201)
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	s := NewLiveSender()
	resp, err := s.Send(testCtx(), dsl.Request{ID: "r1", URI: srv.URL, Method: "GET"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != "201" {
		t.Errorf("status = %s, want 201", resp.StatusCode)
	}
	if resp.Body != "hello" {
		t.Errorf("body = %q, want hello", resp.Body)
	}
	if len(resp.Headers["x-test"]) != 1 || resp.Headers["x-test"][0] != "yes" {
		t.Errorf("expected lower-cased x-test header, got %v", resp.Headers)
	}
}

func TestDrySenderReplaysExample(t *testing.T) {
	inter := &dsl.Interaction{
		Request: dsl.Request{ID: "r1"},
		Examples: map[string]*dsl.Response{
			"ok": {StatusCode: "201", Body: "canned"},
		},
	}
	s := NewDrySender("ok")
	resp, err := s.SendFor(testCtx(), inter, inter.Request)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != "201" || resp.Body != "canned" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestDrySenderFallsBackWhenExampleMissing(t *testing.T) {
	inter := &dsl.Interaction{
		Request:  dsl.Request{ID: "r1"},
		Examples: map[string]*dsl.Response{},
	}
	s := NewDrySender("missing")
	resp, err := s.SendFor(testCtx(), inter, inter.Request)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != "200" {
		t.Fatalf("expected fallback canned response, got %+v", resp)
	}
}
