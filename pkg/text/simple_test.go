package text

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wrapRegex = `(<section id="x">)(.*?)(</section>)`

const wrapTemplate = "$1\n  <div class=\"wrapper\">$2\n  </div>\n$3"

func TestApply(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		rule         ReplacementRule
		want         string
		wantCount    int
		wantModified bool
		wantSkip     SkipReason
	}{
		{
			name:         "literal_versioned_href",
			content:      `<link rel="stylesheet" href="a.css">` + "\n<p>keep</p>\n",
			rule:         ReplacementRule{FromText: `href="a.css"`, ToText: `href="a.css?v=2"`},
			want:         `<link rel="stylesheet" href="a.css?v=2">` + "\n<p>keep</p>\n",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:         "literal_all_occurrences",
			content:      "a.css a.css a.css",
			rule:         ReplacementRule{FromText: "a.css", ToText: "b.css"},
			want:         "b.css b.css b.css",
			wantCount:    3,
			wantModified: true,
		},
		{
			name:    "literal_absent",
			content: "<p>nothing here</p>",
			rule:    ReplacementRule{FromText: `href="a.css"`, ToText: `href="a.css?v=2"`},
			want:    "<p>nothing here</p>",
		},
		{
			name:         "literal_dollar_not_expanded",
			content:      "price: X",
			rule:         ReplacementRule{FromText: "X", ToText: "$1"},
			want:         "price: $1",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:         "regex_wrap_multiline_body",
			content:      "<section id=\"x\">\n<h1>Title</h1>\n<p>Body</p>\n</section>",
			rule:         ReplacementRule{FromPattern: wrapRegex, ToText: wrapTemplate},
			want:         "<section id=\"x\">\n  <div class=\"wrapper\">\n<h1>Title</h1>\n<p>Body</p>\n\n  </div>\n</section>",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:         "regex_named_group",
			content:      "v=1 v=22",
			rule:         ReplacementRule{FromPattern: `v=(?P<num>\d+)`, ToText: "version=${num}"},
			want:         "version=1 version=22",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:    "regex_absent",
			content: "<section id=\"y\">body</section>",
			rule:    ReplacementRule{FromPattern: wrapRegex, ToText: wrapTemplate},
			want:    "<section id=\"y\">body</section>",
		},
		{
			name:    "skip_if_present",
			content: "<section id=\"x\">\n  <div class=\"wrapper\">body\n  </div>\n</section>",
			rule: ReplacementRule{
				FromPattern: wrapRegex,
				ToText:      wrapTemplate,
				SkipIf:      `<div class="wrapper">`,
			},
			want:     "<section id=\"x\">\n  <div class=\"wrapper\">body\n  </div>\n</section>",
			wantSkip: SkipAlreadyApplied,
		},
		{
			name:    "regex_empty_match_only",
			content: "<p>body</p>",
			rule:    ReplacementRule{FromPattern: `z*`, ToText: ""},
			want:    "<p>body</p>",
		},
		{
			name:    "literal_replaced_by_itself",
			content: "a.css",
			rule:    ReplacementRule{FromText: "a.css", ToText: "a.css"},
			want:    "a.css",
		},
		{
			name:         "regex_braced_group_before_text",
			content:      "<b>x</b>",
			rule:         ReplacementRule{FromPattern: `<b>(.*?)</b>`, ToText: "${1}x"},
			want:         "xx",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:         "regex_literal_dollar",
			content:      "cost 5",
			rule:         ReplacementRule{FromPattern: `cost (\d+)`, ToText: "cost $$$1"},
			want:         "cost $5",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "empty_content",
			content: "",
			rule:    ReplacementRule{FromText: "World", ToText: "Universe"},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Apply([]byte(tt.content), tt.rule)
			require.NoError(t, err)
			require.NotNil(t, result)

			assert.Equal(t, tt.content, string(result.OriginalContent))
			assert.Equal(t, tt.want, string(result.ModifiedContent))
			assert.Equal(t, tt.wantCount, result.ReplacementCount)
			assert.Equal(t, tt.wantModified, result.WasModified)
			assert.Equal(t, tt.wantSkip, result.SkipReason)
		})
	}
}

func TestApply_WrapMatchesSpecShape(t *testing.T) {
	body := "\n  <h2>Menu</h2>\n  <ul>\n    <li>one</li>\n  </ul>\n"
	content := `<section id="x">` + body + `</section>`

	result, err := Apply([]byte(content), ReplacementRule{FromPattern: wrapRegex, ToText: wrapTemplate})
	require.NoError(t, err)

	want := "<section id=\"x\">\n  <div class=\"wrapper\">" + body + "\n  </div>\n</section>"
	assert.Equal(t, want, string(result.ModifiedContent))
}

func TestApply_Idempotent(t *testing.T) {
	rules := []ReplacementRule{
		{FromText: `href="a.css"`, ToText: `href="a.css?v=2"`},
		{FromPattern: wrapRegex, ToText: wrapTemplate, SkipIf: `<div class="wrapper">`},
	}

	for _, rule := range rules {
		t.Run(rule.String(), func(t *testing.T) {
			content := []byte("<head><link href=\"a.css\"></head>\n<section id=\"x\">\nbody\n</section>\n")

			first, err := Apply(content, rule)
			require.NoError(t, err)
			require.True(t, first.WasModified, "first run should modify")

			second, err := Apply(first.ModifiedContent, rule)
			require.NoError(t, err)
			assert.False(t, second.WasModified, "second run should not modify")
			assert.Equal(t, string(first.ModifiedContent), string(second.ModifiedContent))
		})
	}
}

func TestApply_InvalidRule(t *testing.T) {
	_, err := Apply([]byte("x"), ReplacementRule{FromPattern: "(unclosed"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestApply_UnknownGroupKeepsContent(t *testing.T) {
	content := []byte("<b>x</b>")
	_, err := Apply(content, ReplacementRule{FromPattern: `<b>(.*?)</b>`, ToText: "$1x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRule)
	assert.Equal(t, "<b>x</b>", string(content))
}

func TestSimpleTextReplacer_ReplaceText(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		rules        []ReplacementRule
		want         string
		wantCount    int
		wantError    string
		wantModified bool
	}{
		{
			name:    "simple_replacement",
			content: "Hello World",
			rules: []ReplacementRule{
				{FromText: "World", ToText: "Universe"},
			},
			want:         "Hello Universe",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "multiple_rules_chain",
			content: "Hello World",
			rules: []ReplacementRule{
				{FromText: "Hello", ToText: "Hi"},
				{FromPattern: `Hi (\w+)`, ToText: "Hi, $1!"},
			},
			want:         "Hi, World!",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:    "no_match",
			content: "Hello World",
			rules: []ReplacementRule{
				{FromText: "Goodbye", ToText: "Hi"},
			},
			want: "Hello World",
		},
		{
			name:    "empty_rules",
			content: "Hello World",
			rules:   []ReplacementRule{},
			want:    "Hello World",
		},
		{
			name:    "invalid_rule",
			content: "Hello World",
			rules: []ReplacementRule{
				{FromText: "Hello", ToText: "Hi"},
				{ToText: "nothing to match"},
			},
			wantError: "rule 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replacer := NewSimpleTextReplacer()
			result, err := replacer.ReplaceText(
				context.Background(),
				strings.NewReader(tt.content),
				tt.rules,
			)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.content, string(result.OriginalContent))
			assert.Equal(t, tt.want, string(result.ModifiedContent))
			assert.Equal(t, tt.wantCount, result.ReplacementCount)
			assert.Equal(t, tt.wantModified, result.WasModified)
		})
	}
}

func TestSimpleTextReplacer_ValidateRules(t *testing.T) {
	tests := []struct {
		name      string
		rules     []ReplacementRule
		wantError string
	}{
		{
			name: "valid_rules",
			rules: []ReplacementRule{
				{FromText: "foo", ToText: "bar", FileFilterGlob: "*.html"},
				{FromPattern: `fo+`, ToText: "bar"},
			},
		},
		{
			name:      "missing_matcher",
			rules:     []ReplacementRule{{ToText: "bar"}},
			wantError: "from_text or from_pattern is required",
		},
		{
			name:      "both_matchers",
			rules:     []ReplacementRule{{FromText: "foo", FromPattern: "foo", ToText: "bar"}},
			wantError: "mutually exclusive",
		},
		{
			name:      "bad_regex",
			rules:     []ReplacementRule{{FromPattern: "[a-", ToText: "bar"}},
			wantError: "compiling from_pattern",
		},
		{
			name:      "bad_glob",
			rules:     []ReplacementRule{{FromText: "foo", FileFilterGlob: "[*.html"}},
			wantError: "bad file_filter_glob",
		},
		{
			name:      "unknown_group_reference",
			rules:     []ReplacementRule{{FromPattern: `<b>(.*?)</b>`, ToText: "$1x"}},
			wantError: "unknown group ${1x}",
		},
		{
			name:      "group_index_out_of_range",
			rules:     []ReplacementRule{{FromPattern: `(a)(b)`, ToText: "$3"}},
			wantError: "references group $3",
		},
		{
			name:      "unknown_named_group",
			rules:     []ReplacementRule{{FromPattern: `v=(?P<num>\d+)`, ToText: "${version}"}},
			wantError: "unknown group ${version}",
		},
		{
			name: "known_group_references",
			rules: []ReplacementRule{
				{FromPattern: `v=(?P<num>\d+)`, ToText: "$num ${num} $1 ${0} $$ ${"},
				{FromText: "x", ToText: "$1x"},
			},
		},
		{
			name:  "empty_rules",
			rules: []ReplacementRule{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replacer := NewSimpleTextReplacer()
			err := replacer.ValidateRules(tt.rules)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRule)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestReplacementRule_AppliesTo(t *testing.T) {
	tests := []struct {
		name string
		glob string
		path string
		want bool
	}{
		{name: "empty_glob", glob: "", path: "/srv/site/index.html", want: true},
		{name: "base_name_match", glob: "*.html", path: "/srv/site/index.html", want: true},
		{name: "relative_doublestar", glob: "site/**/*.html", path: "site/menu/index.html", want: true},
		{name: "extension_mismatch", glob: "*.html", path: "/srv/site/style.css", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := ReplacementRule{FromText: "x", FileFilterGlob: tt.glob}
			assert.Equal(t, tt.want, rule.AppliesTo(tt.path))
		})
	}
}

func TestReplacementRule_String(t *testing.T) {
	assert.Equal(t, "css-version", ReplacementRule{Name: "css-version", FromText: "a"}.String())
	assert.Equal(t, `literal "a.css"`, ReplacementRule{FromText: "a.css"}.String())
	assert.Equal(t, "regex /v=\\d+/", ReplacementRule{FromPattern: `v=\d+`}.String())
}
