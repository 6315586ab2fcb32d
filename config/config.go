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

// Package config resolves service-policy-kit's runtime configuration.
// Resolution order (highest priority first): CLI flag, environment
// variable (SPK_ prefix), spk.yaml in the working directory, built-in
// default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment variable lookup, so
	// e.g. the "var_braces" key is read from SPK_VAR_BRACES.
	EnvPrefix = "SPK"

	// DefaultConfigName/DefaultConfigType name spk.yaml in the working
	// directory.
	DefaultConfigName = "spk"
	DefaultConfigType = "yaml"

	DefaultVarBraces = "{{var}}"
	DefaultSenderKind = "live"
	DefaultReporter   = "console"
	DefaultTimeout    = 10 * time.Second
)

// Config is the fully-resolved runtime configuration every subcommand
// reads from.
type Config struct {
	VarBraces  string
	SenderKind string
	Reporter   string
	Timeout    time.Duration
	HistoryDB  string
	Verbose    bool
}

// Load resolves configuration from every source above. flagOverrides
// carries values already parsed from CLI flags by cobra (empty/zero
// fields mean "not set").
func Load(flagOverrides Config) (*Config, error) {
	v := viper.New()
	v.SetConfigName(DefaultConfigName)
	v.SetConfigType(DefaultConfigType)
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("var_braces", DefaultVarBraces)
	v.SetDefault("sender_kind", DefaultSenderKind)
	v.SetDefault("reporter", DefaultReporter)
	v.SetDefault("timeout_ms", DefaultTimeout.Milliseconds())
	v.SetDefault("history_db", defaultHistoryDB())

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("reading spk.yaml: %w", err)
		}
	}

	cfg := &Config{
		VarBraces:  v.GetString("var_braces"),
		SenderKind: v.GetString("sender_kind"),
		Reporter:   v.GetString("reporter"),
		Timeout:    time.Duration(v.GetInt64("timeout_ms")) * time.Millisecond,
		HistoryDB:  v.GetString("history_db"),
		Verbose:    v.GetBool("verbose"),
	}

	if flagOverrides.VarBraces != "" {
		cfg.VarBraces = flagOverrides.VarBraces
	}
	if flagOverrides.SenderKind != "" {
		cfg.SenderKind = flagOverrides.SenderKind
	}
	if flagOverrides.Reporter != "" {
		cfg.Reporter = flagOverrides.Reporter
	}
	if flagOverrides.Timeout != 0 {
		cfg.Timeout = flagOverrides.Timeout
	}
	if flagOverrides.HistoryDB != "" {
		cfg.HistoryDB = flagOverrides.HistoryDB
	}
	if flagOverrides.Verbose {
		cfg.Verbose = true
	}

	return cfg, nil
}

func defaultHistoryDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".spk/history.db"
	}
	return filepath.Join(home, ".spk", "history.db")
}
