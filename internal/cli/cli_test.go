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

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"dirpx.dev/legacy/apis"
	"dirpx.dev/legacy/config"
	"dirpx.dev/legacy/logger"
)

func findCmd(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func TestNewRootCmd_BasicStructure(t *testing.T) {
	t.Parallel()
	root := NewCommands(nil).NewRootCmd()
	if root.Use != "legacyscan" {
		t.Errorf("expected root.Use == \"legacyscan\", got %q", root.Use)
	}
	for _, name := range []string{"config", "env-file", "dir", "module"} {
		if f := root.PersistentFlags().Lookup(name); f == nil {
			t.Errorf("persistent flag %q not found", name)
		}
	}
	for _, name := range []string{"report", "rules", "validate"} {
		if findCmd(root, name) == nil {
			t.Errorf("subcommand %q not present", name)
		}
	}

	report := findCmd(root, "report")
	if report == nil {
		t.Fatal("report missing")
	}
	f := report.Flags().Lookup("output")
	if f == nil {
		t.Fatal("flag \"output\" not found")
	}
	if f.Value.String() != outputTable {
		t.Errorf("expected default output %q, got %q", outputTable, f.Value.String())
	}
}

// writeModule lays out a small module and returns its directory.
func writeModule(t *testing.T, cfg string) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	files := map[string]string{
		"go.mod": "module example.com/app\n\ngo 1.22\n",
		"shop/service.go": `package shop

type Service struct{}

var INSTANCE = &Service{}

func GetService() *Service { return INSTANCE }

type Clock struct{}

func NewClock() *Clock { return &Clock{} }
`,
		"shop/sub/thing.go": `package sub

type Thing struct{}

var DEFAULT = new(Thing)
`,
		"legacy.yaml": cfg,
	}
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return dir, filepath.Join(dir, "legacy.yaml")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewCommands(logger.Test(t)).NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestReport_YAML(t *testing.T) {
	dir, cfg := writeModule(t, "base_packages:\n  - example.com/app/shop\nnaming: short\n")

	out, err := execute(t, "report", "--config", cfg, "--dir", dir, "-o", "yaml")
	require.NoError(t, err)

	var rows []Row
	require.NoError(t, yaml.Unmarshal([]byte(out), &rows))
	assert.Equal(t, []Row{
		{
			Name:    "shop.Service",
			Type:    "example.com/app/shop.Service",
			Binding: apis.MethodFactory.String(),
			Member:  "GetService",
			Scope:   "singleton",
		},
		{
			Name:    "sub.Thing",
			Type:    "example.com/app/shop/sub.Thing",
			Binding: apis.FieldSingleton.String(),
			Member:  "DEFAULT",
			Scope:   "singleton",
		},
	}, rows)
}

func TestReport_Table(t *testing.T) {
	dir, cfg := writeModule(t, "base_packages:\n  - example.com/app\nrules:\n  - strategy: method\n    scope: prototype\n    prefix: New\n")

	out, err := execute(t, "report", "-c", cfg, "--dir", dir, "--module", "example.com/app")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "NewClock")
	assert.Contains(t, out, "prototype")
	assert.NotContains(t, out, "GetService")
}

func TestReport_Errors(t *testing.T) {
	dir, cfg := writeModule(t, "base_packages:\n  - example.com/app\n")

	_, err := execute(t, "report", "-c", cfg, "--dir", dir, "-o", "json")
	assert.ErrorIs(t, err, ErrUnknownOutput)

	require.NoError(t, os.Remove(filepath.Join(dir, "go.mod")))
	_, err = execute(t, "report", "-c", cfg, "--dir", dir)
	assert.ErrorIs(t, err, ErrNoModule)

	empty, emptyCfg := writeModule(t, "naming: short\n")
	_, err = execute(t, "report", "-c", emptyCfg, "--dir", empty)
	assert.ErrorIs(t, err, config.ErrNoBasePackages)
}

func TestRules(t *testing.T) {
	tests := []struct {
		name string
		cfg  string
		want []apis.Rule
	}{
		{
			name: "defaults spelled out",
			cfg:  "base_packages:\n  - example.com/app\n",
			want: Effective(apis.Config{}).Rules,
		},
		{
			name: "defaults disabled",
			cfg:  "base_packages:\n  - example.com/app\ndisable_defaults: true\n",
		},
		{
			name: "configured rules kept",
			cfg:  "base_packages:\n  - example.com/app\nrules:\n  - strategy: field\n    names: [SHARED]\n",
			want: []apis.Rule{{Strategy: "field", Names: []string{"SHARED"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cfg := writeModule(t, tt.cfg)
			out, err := execute(t, "rules", "-c", cfg)
			require.NoError(t, err)

			var got apis.Config
			require.NoError(t, yaml.Unmarshal([]byte(out), &got))
			if len(tt.want) == 0 {
				assert.Empty(t, got.Rules)
			} else {
				assert.Equal(t, tt.want, got.Rules)
			}
			assert.Equal(t, []string{"example.com/app"}, got.BasePackages)
		})
	}
}

func TestEffective(t *testing.T) {
	rules := Effective(apis.Config{}).Rules
	require.Len(t, rules, 2)
	assert.Equal(t, "method", rules[0].Strategy)
	assert.True(t, rules[0].Getter)
	assert.Equal(t, "field", rules[1].Strategy)
	assert.True(t, rules[1].Constant)

	assert.Empty(t, Effective(apis.Config{DisableDefaults: true}).Rules)
}

func TestValidate(t *testing.T) {
	_, cfg := writeModule(t, "base_packages:\n  - example.com/app\n")
	out, err := execute(t, "validate", "-c", cfg)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "configuration is valid"), out)

	_, bad := writeModule(t, "base_packages:\n  - example.com/app\nrules:\n  - strategy: teleport\n")
	_, err = execute(t, "validate", "-c", bad)
	assert.ErrorContains(t, err, "teleport")
}
