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

package report

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/SpectralOps/service-policy-kit/dsl"
)

// JUnit writes one JUnit XML testsuite, one testcase per CheckResult,
// to <folder>/junit.xml when the run ends. Violations are embedded as
// a YAML-serialized failure message, the way the original embeds
// serde_yaml output in the failure body.
type JUnit struct {
	Folder string
}

// NewJUnit builds a JUnit reporter from its config bag.
func NewJUnit(cfg Config) *JUnit {
	folder := cfg["folder"]
	if folder == "" {
		folder = "junit-out"
	}
	return &JUnit{Folder: folder}
}

func (j *JUnit) Start(inter *dsl.Interaction) {}

func (j *JUnit) Report(inter *dsl.Interaction, res dsl.CheckResult) {}

type junitTestSuites struct {
	XMLName xml.Name        `xml:"testsuites"`
	Suites  []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	TestCases []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	TimeS     float64       `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Body    string `xml:",chardata"`
}

func (j *JUnit) End(sequence []*dsl.Interaction, results []dsl.CheckResult) {
	suite := junitTestSuite{Name: "Violation Checks"}

	for _, res := range results {
		name := fmt.Sprintf("[%s] %s", res.Kind, res.Request.GetID())
		tc := junitTestCase{Name: name, TimeS: res.Duration.Seconds()}

		if len(res.Violations) > 0 {
			suite.Failures++
			body, err := yaml.Marshal(res.Violations)
			if err != nil {
				body = []byte(err.Error())
			}
			tc.Failure = &junitFailure{Message: "ERROR", Body: string(body)}
		}
		suite.Tests++
		suite.TestCases = append(suite.TestCases, tc)
	}

	doc := junitTestSuites{Suites: []junitTestSuite{suite}}
	out, err := xml.MarshalIndent(&doc, "", "  ")
	if err != nil {
		fmt.Printf("junit: failed to marshal report: %s\n", err)
		return
	}

	if err := os.MkdirAll(j.Folder, 0o755); err != nil {
		fmt.Printf("junit: failed to create folder %s: %s\n", j.Folder, err)
		return
	}

	path := filepath.Join(j.Folder, "junit.xml")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		fmt.Printf("junit: failed to write %s: %s\n", path, err)
		return
	}
	fmt.Printf("wrote: %s\n", path)
}
