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

package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutAndList(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := s.Put(Run{
			ID:           "run" + string(rune('a'+i)),
			SequenceFile: "seq.yaml",
			OK:           i%2 == 0,
			Total:        1,
			RanAt:        base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if !runs[0].RanAt.Before(runs[1].RanAt) {
		t.Error("expected runs to be sorted oldest-first")
	}
}

func TestLastReturnsMostRecentForSequence(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = s.Put(Run{ID: "1", SequenceFile: "a.yaml", RanAt: base})
	_ = s.Put(Run{ID: "2", SequenceFile: "b.yaml", RanAt: base.Add(time.Hour)})
	_ = s.Put(Run{ID: "3", SequenceFile: "a.yaml", RanAt: base.Add(2 * time.Hour)})

	last, found, err := s.Last("a.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected a run to be found")
	}
	if last.ID != "3" {
		t.Errorf("expected most recent a.yaml run (id=3), got %s", last.ID)
	}
}

func TestLastReturnsNotFoundForUnknownSequence(t *testing.T) {
	s := openTestStore(t)
	_, found, err := s.Last("never-ran.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("expected not found")
	}
}
