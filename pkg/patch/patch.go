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

package patch

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/document"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📊 Outcome is the binary result of one patch attempt
type Outcome int

const (
	Unchanged Outcome = iota // Matcher absent, document untouched
	Changed                  // Matcher found, document rewritten
)

// String returns the human readable outcome
func (o Outcome) String() string {
	if o == Changed {
		return "updated"
	}
	return "pattern not found"
}

// 📄 Report describes one rule applied to one document
type Report struct {
	Path         string
	Rule         text.ReplacementRule
	Outcome      Outcome
	Replacements int
	SkipReason   text.SkipReason
	DryRun       bool
}

// Status returns the line printed for the report
func (r *Report) Status() string {
	switch {
	case r.Outcome == Changed && r.DryRun:
		return "would update"
	case r.Outcome == Changed:
		return r.Outcome.String()
	case r.SkipReason == text.SkipFileFilter:
		return "skipped (file filter)"
	case r.SkipReason != text.SkipNone:
		return r.Outcome.String() + " (" + string(r.SkipReason) + ")"
	default:
		return r.Outcome.String()
	}
}

// 🔧 Options configures a Patcher
type Options struct {
	// Documents reads and writes files. Defaults to document.NewManager().
	Documents document.FileManager
	// Logger prints the outcome lines. Defaults to stdout.
	Logger *log.Logger
	// Atomic writes through a temp file and rename instead of in place
	Atomic bool
	// Backup copies the original to <path>.bak before the first overwrite
	Backup bool
}

// 🩹 Patcher applies guarded replacement rules to documents
type Patcher struct {
	docs     document.FileManager
	logger   *log.Logger
	atomic   bool
	backup   bool
	backedUp map[string]bool
}

// 🏭 New creates a new patcher with the given options
func New(opts Options) *Patcher {
	if opts.Documents == nil {
		opts.Documents = document.NewManager()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, zerolog.GlobalLevel())
	}
	return &Patcher{
		docs:     opts.Documents,
		logger:   opts.Logger,
		atomic:   opts.Atomic,
		backup:   opts.Backup,
		backedUp: make(map[string]bool),
	}
}

// 🎯 Apply runs one rule against the document at path. The document is
// overwritten only when the rule's matcher is found at least once.
func (p *Patcher) Apply(ctx context.Context, path string, rule text.ReplacementRule) (*Report, error) {
	if err := rule.Validate(); err != nil {
		return nil, errors.Errorf("validating rule %s: %w", rule, err)
	}

	report := &Report{Path: path, Rule: rule, Outcome: Unchanged}

	if !rule.AppliesTo(path) {
		report.SkipReason = text.SkipFileFilter
		p.logReport(ctx, report)
		return report, nil
	}

	doc, err := p.docs.Read(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading %s: %w", path, err)
	}

	result, err := text.Apply(doc.Content, rule)
	if err != nil {
		return nil, errors.Errorf("applying rule %s: %w", rule, err)
	}

	report.SkipReason = result.SkipReason

	if result.WasModified {
		if err := p.write(ctx, doc, result.ModifiedContent); err != nil {
			return nil, errors.Errorf("saving %s: %w", path, err)
		}
		report.Outcome = Changed
		report.Replacements = result.ReplacementCount
	}

	p.logReport(ctx, report)
	return report, nil
}

// 📋 ApplyAll applies rules one after another to the same path. Every rule
// is validated before the first one runs; each is an independent guarded
// patch that re-reads the document.
func (p *Patcher) ApplyAll(ctx context.Context, path string, rules []text.ReplacementRule) ([]*Report, error) {
	if err := text.NewSimpleTextReplacer().ValidateRules(rules); err != nil {
		return nil, errors.Errorf("validating rules: %w", err)
	}

	reports := make([]*Report, 0, len(rules))
	for _, rule := range rules {
		report, err := p.Apply(ctx, path, rule)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// 🔍 Check evaluates rules in memory without writing. Each rule sees the
// text produced by the rules before it, as ApplyAll would leave it, and
// prints a dry-run line.
func (p *Patcher) Check(ctx context.Context, path string, rules []text.ReplacementRule) ([]*Report, error) {
	if err := text.NewSimpleTextReplacer().ValidateRules(rules); err != nil {
		return nil, errors.Errorf("validating rules: %w", err)
	}

	doc, err := p.docs.Read(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading %s: %w", path, err)
	}

	current := doc.Content
	reports := make([]*Report, 0, len(rules))
	for _, rule := range rules {
		report := &Report{Path: path, Rule: rule, Outcome: Unchanged, DryRun: true}

		if !rule.AppliesTo(path) {
			report.SkipReason = text.SkipFileFilter
		} else {
			result, err := text.Apply(current, rule)
			if err != nil {
				return reports, errors.Errorf("applying rule %s: %w", rule, err)
			}
			report.SkipReason = result.SkipReason
			if result.WasModified {
				report.Outcome = Changed
				report.Replacements = result.ReplacementCount
				current = result.ModifiedContent
			}
		}

		p.logReport(ctx, report)
		reports = append(reports, report)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("rules", len(rules)).
		Msg("checked rules")

	return reports, nil
}

// 💾 write persists the new content, backing up the original first if asked
func (p *Patcher) write(ctx context.Context, doc *document.Document, content []byte) error {
	if p.backup && !p.backedUp[doc.Path] {
		if err := p.docs.Backup(ctx, doc.Path); err != nil {
			return err
		}
		p.backedUp[doc.Path] = true
	}

	before := doc.Checksum()

	write := p.docs.Write
	if p.atomic {
		write = p.docs.WriteAtomic
	}
	if err := write(ctx, doc, content); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", doc.Path).
		Str("before", before).
		Str("after", doc.Checksum()).
		Bool("atomic", p.atomic).
		Msg("document written")
	return nil
}

func (p *Patcher) logReport(ctx context.Context, report *Report) {
	zerolog.Ctx(ctx).Debug().
		Str("path", report.Path).
		Str("rule", report.Rule.String()).
		Str("outcome", report.Outcome.String()).
		Int("replacements", report.Replacements).
		Bool("dry_run", report.DryRun).
		Msg("patch evaluated")

	p.logger.LogPatch(ctx, log.PatchOperation{
		Path:         report.Path,
		Rule:         report.Rule.String(),
		Status:       report.Status(),
		IsChanged:    report.Outcome == Changed,
		IsDryRun:     report.DryRun,
		Replacements: report.Replacements,
	})
}
