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

// Package cli implements the legacyscan command line: it loads a scan
// configuration, classifies the types found in Go source and reports the
// bindings a container would receive.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"

	"dirpx.dev/legacy/apis"
	"dirpx.dev/legacy/builder"
	"dirpx.dev/legacy/config"
	"dirpx.dev/legacy/logger"
	"dirpx.dev/legacy/meta/gosrc"
)

var (
	// ErrUnknownOutput is returned for an unsupported --output value.
	ErrUnknownOutput = errors.New("legacy(cli): unknown output format")
	// ErrNoModule is returned when the module path can neither be read from
	// go.mod nor taken from --module.
	ErrNoModule = errors.New("legacy(cli): cannot determine module path")
)

const (
	outputTable = "table"
	outputYAML  = "yaml"
)

// Commands holds the dependencies shared by all commands.
type Commands struct {
	lggr logger.Logger
}

// NewCommands creates Commands logging to lggr.
func NewCommands(lggr logger.Logger) Commands {
	return Commands{lggr: logger.OrNop(lggr)}
}

// options are the persistent flags of the root command.
type options struct {
	configPath string
	envFiles   []string
	dir        string
	module     string
}

// NewRootCmd creates the legacyscan root command.
func (c Commands) NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "legacyscan",
		Short:         "Classify legacy singletons and factories in Go source",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Scan configuration file (YAML)")
	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "Optional .env files loaded before the configuration")
	root.PersistentFlags().StringVar(&opts.dir, "dir", ".", "Module root directory")
	root.PersistentFlags().StringVar(&opts.module, "module", "", "Module path (defaults to the one in go.mod)")

	root.AddCommand(
		c.newReportCmd(opts),
		c.newRulesCmd(opts),
		c.newValidateCmd(opts),
	)
	return root
}

func (opts *options) load() (apis.Config, error) {
	if opts.configPath == "" {
		return config.LoadEnv(opts.envFiles...)
	}
	return config.Load(opts.configPath, opts.envFiles...)
}

// modulePath returns --module, or the module path declared in go.mod.
func (opts *options) modulePath() (string, error) {
	if opts.module != "" {
		return opts.module, nil
	}
	data, err := os.ReadFile(filepath.Join(opts.dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoModule, err)
	}
	mod := modfile.ModulePath(data)
	if mod == "" {
		return "", ErrNoModule
	}
	return mod, nil
}

var (
	reportLong = `
Scans the configured base packages of the module in --dir and prints, for
every type an access filter classifies, the bean name, the winning filter
and the member used to obtain instances.`

	reportExample = `
  # Report with the default getter and constant rules
  legacyscan report --config legacy.yaml

  # Emit YAML instead of a table
  legacyscan report -c legacy.yaml -o yaml`
)

// Row is one reported binding.
type Row struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Binding string `yaml:"binding"`
	Member  string `yaml:"member"`
	Factory string `yaml:"factory,omitempty"`
	Scope   string `yaml:"scope"`
}

func (c Commands) newReportCmd(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "report",
		Short:   "Report the bindings found in Go source",
		Long:    strings.TrimSpace(reportLong),
		Example: strings.TrimPrefix(reportExample, "\n"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputTable && output != outputYAML {
				return fmt.Errorf("%w: %q", ErrUnknownOutput, output)
			}
			rows, err := c.report(opts)
			if err != nil {
				return err
			}
			if output == outputYAML {
				return writeYAML(cmd.OutOrStdout(), rows)
			}
			writeTable(cmd.OutOrStdout(), rows)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table or yaml")
	return cmd
}

// report runs a scan against a recording bean registry.
func (c Commands) report(opts *options) ([]Row, error) {
	cfg, err := opts.load()
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	mod, err := opts.modulePath()
	if err != nil {
		return nil, err
	}
	src, err := gosrc.New(opts.dir, mod, c.lggr)
	if err != nil {
		return nil, err
	}
	proc, err := builder.FromConfig(cfg, src).Logger(c.lggr).Build()
	if err != nil {
		return nil, err
	}

	rec := &recorder{names: make(map[string]*apis.Registration), types: make(map[string]bool)}
	if err := proc.PostProcess(rec); err != nil {
		return nil, err
	}
	return rec.rows(), nil
}

// recorder is a bean registry that only keeps registrations.
type recorder struct {
	names map[string]*apis.Registration
	types map[string]bool
}

func (r *recorder) RegisterBinding(reg *apis.Registration) error {
	if _, ok := r.names[reg.Name]; ok {
		return fmt.Errorf("legacy(cli): duplicate bean %q", reg.Name)
	}
	r.names[reg.Name] = reg
	r.types[reg.TypeName] = true
	return nil
}

func (r *recorder) Contains(name string) bool { return r.names[name] != nil }

func (r *recorder) ContainsType(typeName string) bool { return r.types[typeName] }

func (r *recorder) rows() []Row {
	out := make([]Row, 0, len(r.names))
	for _, reg := range r.names {
		row := Row{Name: reg.Name, Type: reg.TypeName, Scope: reg.Scope.String()}
		if b := reg.Binding; b != nil {
			row.Binding = b.Kind.String()
			row.Member = b.Member.Name
			if b.Factory != nil {
				row.Factory = b.Factory.Name
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func writeTable(w io.Writer, rows []Row) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Type", "Binding", "Member", "Factory", "Scope"})
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: false, Right: false, Top: true, Bottom: true})
	for _, r := range rows {
		table.Append([]string{r.Name, r.Type, r.Binding, r.Member, r.Factory, r.Scope})
	}
	table.Render()
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (c Commands) newRulesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the effective configuration and rules as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), Effective(cfg))
		},
	}
}

// Effective returns cfg with the default rules spelled out when they apply.
func Effective(cfg apis.Config) apis.Config {
	if len(cfg.Rules) > 0 || cfg.DisableDefaults {
		return cfg
	}
	cfg.Rules = []apis.Rule{
		{Strategy: builder.StrategyMethod, Scope: apis.Singleton.String(), Getter: true},
		{Strategy: builder.StrategyField, Scope: apis.Singleton.String(), Constant: true},
	}
	return cfg
}

func (c Commands) newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the scan configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			c.lggr.Infow("configuration valid", "packages", cfg.BasePackages, "rules", len(Effective(cfg).Rules))
			cmd.Println("configuration is valid")
			return nil
		},
	}
}
