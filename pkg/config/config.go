// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// DefaultFileNames are the rule files looked up when none is given
var DefaultFileNames = []string{".patchrc.yaml", ".patchrc.yml", ".patchrc.json", ".patchrc.hcl"}

// 🔌 Parser is the interface for rule file parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 Rule is one replacement rule as written in a rule file
type Rule struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
	Regex   string `json:"regex,omitempty" yaml:"regex,omitempty"`
	Replace string `json:"replace" yaml:"replace"`
	SkipIf  string `json:"skip_if,omitempty" yaml:"skip_if,omitempty"`
	Files   string `json:"files,omitempty" yaml:"files,omitempty"`
}

// 📚 Config is a rule file: a default target and the rules to apply to it
type Config struct {
	File  string `json:"file,omitempty" yaml:"file,omitempty"`
	Rules []Rule `json:"rules" yaml:"rules"`

	location string
}

// 🎯 Load loads and validates a rule file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading rule file")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("config", cfg.String()).Msg("loaded rule file")

	return cfg, nil
}

// 🔍 Discover returns the first default rule file present in dir, or ""
func Discover(dir string) string {
	for _, name := range DefaultFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if len(cfg.Rules) == 0 {
		return errors.Errorf("at least one rule is required")
	}

	if err := text.NewSimpleTextReplacer().ValidateRules(cfg.ReplacementRules()); err != nil {
		return err
	}

	return nil
}

// 🔄 ReplacementRules converts the file's rules into text rules
func (cfg *Config) ReplacementRules() []text.ReplacementRule {
	rules := make([]text.ReplacementRule, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		rules = append(rules, text.ReplacementRule{
			Name:           r.Name,
			FromText:       r.Literal,
			FromPattern:    r.Regex,
			ToText:         r.Replace,
			SkipIf:         r.SkipIf,
			FileFilterGlob: r.Files,
		})
	}
	return rules
}

// 🎯 Target returns the default document path, resolved against the rule file's directory
func (cfg *Config) Target() string {
	if cfg.File == "" || filepath.IsAbs(cfg.File) || cfg.location == "" {
		return cfg.File
	}
	return filepath.Join(filepath.Dir(cfg.location), cfg.File)
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	target := cfg.Target()
	if target == "" {
		target = "<unset>"
	}
	return fmt.Sprintf("%d rules -> %s", len(cfg.Rules), target)
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}
