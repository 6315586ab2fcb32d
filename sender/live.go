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
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws/credentials"
	v4 "github.com/aws/aws-sdk-go/aws/signer/v4"

	"github.com/SpectralOps/service-policy-kit/dsl"
)

// LiveSender issues the prepared request over the network with
// net/http, the way chans.HTTPClient wraps a plain http.Client,
// generalized from a pub/sub channel into a request/response Sender.
type LiveSender struct {
	client *http.Client
}

// NewLiveSender builds a LiveSender with a fresh http.Client.
func NewLiveSender() *LiveSender {
	return &LiveSender{client: &http.Client{}}
}

// Send issues req and returns the observed Response.
func (s *LiveSender) Send(ctx *dsl.Ctx, req dsl.Request) (*dsl.Response, error) {
	ctx.Logdf("live sender: %s %s", req.GetMethod(), req.URI)

	var bodyReader io.Reader
	body := req.Body

	if len(req.Form) > 0 {
		values := url.Values{}
		for k, v := range req.Form {
			values.Set(k, v)
		}
		body = values.Encode()
	}
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.GetMethod(), req.URI, bodyReader)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("User-Agent", UserAgent)

	if req.BasicAuth != nil {
		httpReq.SetBasicAuth(req.BasicAuth.User, req.BasicAuth.Password)
	}

	if len(req.Form) > 0 {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	for name, values := range req.Headers {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}

	if req.AWSAuth != nil {
		if err := signAWS(httpReq, []byte(body), *req.AWSAuth); err != nil {
			return nil, err
		}
	}

	client := s.client
	if req.GetTimeout() > 0 {
		c := *s.client
		c.Timeout = req.GetTimeout()
		client = &c
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]dsl.HeaderList, len(httpResp.Header))
	for k, v := range httpResp.Header {
		headers[strings.ToLower(k)] = append(dsl.HeaderList{}, v...)
	}

	return &dsl.Response{
		RequestID:  req.GetID(),
		Headers:    headers,
		StatusCode: fmtStatus(httpResp.StatusCode),
		Body:       string(respBody),
	}, nil
}

// signAWS signs httpReq with SigV4 using aws-sdk-go's signer, the Go
// equivalent of sender.rs's rusoto SignedRequest usage. The signature
// covers service-level access only, not a full request path: a copy of
// the request addressed at "/" and carrying only Content-Type is signed,
// and its signature headers are copied onto httpReq.
func signAWS(httpReq *http.Request, body []byte, auth dsl.AWSAuth) error {
	region := auth.Region
	if region == "" {
		region = "us-east-1"
	}

	creds := credentials.NewStaticCredentials(auth.Key, auth.Secret, auth.Token)
	signer := v4.NewSigner(creds)

	scoped, err := http.NewRequest(httpReq.Method, httpReq.URL.Scheme+"://"+httpReq.URL.Host+"/", nil)
	if err != nil {
		return err
	}
	if ct := httpReq.Header.Get("Content-Type"); ct != "" {
		scoped.Header.Set("Content-Type", ct)
	}
	if _, err := signer.Sign(scoped, bytes.NewReader(body), auth.Service, region, time.Now()); err != nil {
		return err
	}
	for _, name := range []string{"X-Amz-Content-Sha256", "X-Amz-Date", "Authorization", "Content-Type"} {
		if v := scoped.Header.Get(name); v != "" {
			httpReq.Header.Set(name, v)
		}
	}

	if auth.Token != "" {
		httpReq.Header.Set("X-Amz-Security-Token", auth.Token)
	}
	return nil
}
