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

// Package history is a thin bbolt wrapper persisting sequence run
// outcomes across invocations, so a later run can be compared against
// the last one.
//
// The store is an intentional outcome log, not a transparent cache:
// it is written once per run by the CLI, and read by the "history"
// subcommand. No TTL, no auto-invalidation.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketRuns = []byte("runs")

// Store wraps a bbolt database of run outcomes.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the bbolt database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening history db %s: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRuns)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating runs bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Run is one recorded sequence run outcome.
type Run struct {
	ID          string    `json:"id"`
	SequenceFile string   `json:"sequence_file"`
	OK          bool      `json:"ok"`
	Total       int       `json:"total"`
	Violations  int       `json:"violations"`
	Errors      int       `json:"errors"`
	DurationMS  int64     `json:"duration_ms"`
	RanAt       time.Time `json:"ran_at"`
}

// Put records run, keyed by a zero-padded "<ranAt-unix-nano>:<id>" so
// keys sort chronologically; List also sorts the runs by RanAt.
func (s *Store) Put(run Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encoding run: %w", err)
	}
	key := fmt.Sprintf("%020d:%s", run.RanAt.UnixNano(), run.ID)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRuns).Put([]byte(key), data)
	})
}

// List returns every recorded run, oldest first.
func (s *Store) List() ([]Run, error) {
	var runs []Run
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRuns).ForEach(func(k, v []byte) error {
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				return err
			}
			runs = append(runs, run)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].RanAt.Before(runs[j].RanAt) })
	return runs, nil
}

// Last returns the most recently recorded run for sequenceFile, if any.
func (s *Store) Last(sequenceFile string) (Run, bool, error) {
	runs, err := s.List()
	if err != nil {
		return Run{}, false, err
	}
	for i := len(runs) - 1; i >= 0; i-- {
		if runs[i].SequenceFile == sequenceFile {
			return runs[i], true, nil
		}
	}
	return Run{}, false, nil
}
