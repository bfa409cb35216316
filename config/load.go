/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"errors"
	"io/fs"
	"os"
	"slices"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"dirpx.dev/legacy/apis"
)

var (
	// envBindings maps configuration keys to the environment variables that
	// can provide them. The first variable set wins.
	envBindings = map[string][]string{
		"base_packages":    {"LEGACY_BASE_PACKAGES"},
		"order":            {"LEGACY_ORDER"},
		"naming":           {"LEGACY_NAMING"},
		"disable_defaults": {"LEGACY_DISABLE_DEFAULTS"},
	}
)

// Load loads the config from the file path, falling back to env vars if the
// file does not exist. Env vars that are set override values from the file.
// The given .env files are loaded first; missing .env files are ignored.
func Load(filePath string, envFiles ...string) (apis.Config, error) {
	loadDotEnv(envFiles)

	v := viper.New()
	v.SetConfigFile(filePath)

	if err := bindEnvs(v); err != nil {
		return apis.Config{}, err
	}

	// If the config file exists, we continue to read it, otherwise we fallback to using
	// environment variables
	if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
		if err := v.ReadInConfig(); err != nil {
			return apis.Config{}, err
		}
	}

	return unmarshal(v)
}

// LoadEnv loads the config from the environment variables only.
func LoadEnv(envFiles ...string) (apis.Config, error) {
	loadDotEnv(envFiles)

	v := viper.New()
	if err := bindEnvs(v); err != nil {
		return apis.Config{}, err
	}
	return unmarshal(v)
}

// LoadFile loads the config from a file, ignoring the environment.
func LoadFile(filePath string) (apis.Config, error) {
	v := viper.New()
	v.SetConfigFile(filePath)

	if err := v.ReadInConfig(); err != nil {
		return apis.Config{}, err
	}
	return unmarshal(v)
}

// unmarshal decodes v over the defaults.
func unmarshal(v *viper.Viper) (apis.Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return apis.Config{}, err
	}
	if cfg.Naming == "" {
		cfg.Naming = DefaultNaming
	}
	return cfg, nil
}

// loadDotEnv loads .env files without overriding variables already set.
func loadDotEnv(files []string) {
	for _, f := range files {
		// Non-fatal: .env files are optional
		_ = godotenv.Load(f)
	}
}

// bindEnvs binds the environment variables to the viper instance.
func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		// Prepend the env key to the start of the arguments
		inputs := slices.Insert(slices.Clone(envs), 0, key)

		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}
	return nil
}
