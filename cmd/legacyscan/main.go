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

// Command legacyscan reports how legacy singletons and factories in a Go
// module would be bound by the legacy bean scanner.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"

	"dirpx.dev/legacy/internal/cli"
	"dirpx.dev/legacy/logger"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	level := zapcore.WarnLevel
	if s := os.Getenv("LEGACY_LOG_LEVEL"); s != "" {
		l, err := zapcore.ParseLevel(s)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 2
		}
		level = l
	}
	cfg := logger.Config{Level: level}
	lggr, err := cfg.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	defer func() { _ = lggr.Sync() }()

	root := cli.NewCommands(lggr).NewRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
