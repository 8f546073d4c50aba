// Package quirks holds the platform specific knowledge needed to parse and
// render C++ type names: aliases, inline namespaces, lambda encodings,
// calling conventions, builtin type words and default template arguments.
//
// The tables are plain configuration data. A default set is embedded and
// can be extended by a user supplied YAML, TOML or JSON file.
package quirks

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultConfig []byte

// Errors
var (
	ErrReadConfig   = errors.New("quirks: cannot read config")
	ErrDecodeConfig = errors.New("quirks: cannot decode config")
	ErrInvalidRule  = errors.New("quirks: invalid rule")
)

// RuleError describes a single malformed table entry.
type RuleError struct {
	Section string // Table the entry belongs to
	Index   int    // Position within the table
	Value   string // Offending value
	Err     error  // Underlying error, if any
}

func (e *RuleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("quirks: invalid entry %d in %s (%q): %v", e.Index, e.Section, e.Value, e.Err)
	}
	return fmt.Sprintf("quirks: invalid entry %d in %s (%q)", e.Index, e.Section, e.Value)
}

func (e *RuleError) Unwrap() error { return ErrInvalidRule }

// tracer traces with key 'cxxtype.quirks'.
func tracer() tracing.Trace {
	return tracing.Select("cxxtype.quirks")
}

// Alias replaces an identifier by another text.
type Alias struct {
	From string `mapstructure:"from" yaml:"from"`
	To   string `mapstructure:"to" yaml:"to"`
}

// LambdaRule rewrites compiler specific lambda names. Replace may refer to
// capture groups of Pattern ($1, $2, ...).
type LambdaRule struct {
	Pattern string `mapstructure:"pattern" yaml:"pattern"`
	Replace string `mapstructure:"replace" yaml:"replace"`
}

// DefaultArgs lists the default arguments of a template, indexed by
// parameter position. An empty entry means the parameter has no default.
// $N is substituted by the N-th actual argument.
type DefaultArgs struct {
	Template string   `mapstructure:"template" yaml:"template"`
	Defaults []string `mapstructure:"defaults" yaml:"defaults"`
}

// Rules is the raw, decoded form of a quirk table.
type Rules struct {
	Aliases              []Alias       `mapstructure:"aliases" yaml:"aliases"`
	IgnoredScopes        []string      `mapstructure:"ignored_scopes" yaml:"ignored_scopes"`
	IgnoredScopePatterns []string      `mapstructure:"ignored_scope_patterns" yaml:"ignored_scope_patterns"`
	Lambdas              []LambdaRule  `mapstructure:"lambdas" yaml:"lambdas"`
	CallingConventions   []string      `mapstructure:"calling_conventions" yaml:"calling_conventions"`
	BuiltinModifiers     []string      `mapstructure:"builtin_modifiers" yaml:"builtin_modifiers"`
	BuiltinTypes         []string      `mapstructure:"builtin_types" yaml:"builtin_types"`
	IgnoredWords         []string      `mapstructure:"ignored_words" yaml:"ignored_words"`
	DefaultArgs          []DefaultArgs `mapstructure:"default_args" yaml:"default_args"`
}

// Extend appends every list of other to r. Default arguments of a template
// which is already known are replaced.
func (r *Rules) Extend(other Rules) {
	r.Aliases = append(r.Aliases, other.Aliases...)
	r.IgnoredScopes = append(r.IgnoredScopes, other.IgnoredScopes...)
	r.IgnoredScopePatterns = append(r.IgnoredScopePatterns, other.IgnoredScopePatterns...)
	r.Lambdas = append(r.Lambdas, other.Lambdas...)
	r.CallingConventions = append(r.CallingConventions, other.CallingConventions...)
	r.BuiltinModifiers = append(r.BuiltinModifiers, other.BuiltinModifiers...)
	r.BuiltinTypes = append(r.BuiltinTypes, other.BuiltinTypes...)
	r.IgnoredWords = append(r.IgnoredWords, other.IgnoredWords...)

	for _, d := range other.DefaultArgs {
		replaced := false
		for i := range r.DefaultArgs {
			if r.DefaultArgs[i].Template == d.Template {
				r.DefaultArgs[i] = d
				replaced = true
				break
			}
		}
		if !replaced {
			r.DefaultArgs = append(r.DefaultArgs, d)
		}
	}
}

type lambdaRule struct {
	re      *regexp.Regexp
	replace string
}

// Table is a compiled, immutable quirk table. It is safe for concurrent use.
type Table struct {
	rules Rules

	aliases            map[string]string
	ignoredScopes      map[string]struct{}
	scopePatterns      []*regexp.Regexp
	lambdas            []lambdaRule
	callingConventions map[string]struct{}
	builtinModifiers   map[string]struct{}
	builtinTypes       map[string]struct{}
	ignoredWords       map[string]struct{}
	defaultArgs        map[string][]string
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table built from the embedded defaults.
func Default() *Table {
	defaultOnce.Do(func() {
		rules, err := decode(bytes.NewReader(defaultConfig), "yaml")
		if err != nil {
			panic(err)
		}
		t, err := Compile(rules)
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

// DefaultRules returns a copy of the embedded default rules.
func DefaultRules() Rules {
	rules, err := decode(bytes.NewReader(defaultConfig), "yaml")
	if err != nil {
		panic(err)
	}
	return rules
}

// Load builds a table from the embedded defaults, extended by the config
// file at path. An empty path yields the defaults.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrReadConfig, path, err)
	}

	overlay, err := unmarshal(v)
	if err != nil {
		return nil, err
	}

	rules := DefaultRules()
	rules.Extend(overlay)
	tracer().Debugf("quirks: extended defaults with %s", path)

	return Compile(rules)
}

// LoadReader is like Load, but reads the overlay from r. The format is one
// of the config types supported by viper ("yaml", "toml", "json", ...).
func LoadReader(r io.Reader, format string) (*Table, error) {
	overlay, err := decode(r, format)
	if err != nil {
		return nil, err
	}

	rules := DefaultRules()
	rules.Extend(overlay)
	return Compile(rules)
}

func decode(r io.Reader, format string) (Rules, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return Rules{}, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (Rules, error) {
	var rules Rules
	sections := []struct {
		key    string
		target any
	}{
		{"aliases", &rules.Aliases},
		{"ignored_scopes", &rules.IgnoredScopes},
		{"ignored_scope_patterns", &rules.IgnoredScopePatterns},
		{"lambdas", &rules.Lambdas},
		{"calling_conventions", &rules.CallingConventions},
		{"builtin_modifiers", &rules.BuiltinModifiers},
		{"builtin_types", &rules.BuiltinTypes},
		{"ignored_words", &rules.IgnoredWords},
		{"default_args", &rules.DefaultArgs},
	}

	for _, s := range sections {
		if !v.IsSet(s.key) {
			continue
		}
		if err := v.UnmarshalKey(s.key, s.target); err != nil {
			return Rules{}, fmt.Errorf("%w: %s: %v", ErrDecodeConfig, s.key, err)
		}
	}
	return rules, nil
}

// Compile validates rules and builds the lookup structures.
func Compile(rules Rules) (*Table, error) {
	t := &Table{
		rules:              rules,
		aliases:            make(map[string]string, len(rules.Aliases)),
		ignoredScopes:      makeSet(rules.IgnoredScopes),
		callingConventions: makeSet(rules.CallingConventions),
		builtinModifiers:   makeSet(rules.BuiltinModifiers),
		builtinTypes:       makeSet(rules.BuiltinTypes),
		ignoredWords:       makeSet(rules.IgnoredWords),
		defaultArgs:        make(map[string][]string, len(rules.DefaultArgs)),
	}

	for i, a := range rules.Aliases {
		if a.From == "" {
			return nil, &RuleError{Section: "aliases", Index: i, Value: a.From}
		}
		t.aliases[a.From] = a.To
	}

	for i, p := range rules.IgnoredScopePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, &RuleError{Section: "ignored_scope_patterns", Index: i, Value: p, Err: err}
		}
		t.scopePatterns = append(t.scopePatterns, re)
	}

	for i, l := range rules.Lambdas {
		re, err := regexp.Compile(l.Pattern)
		if err != nil {
			return nil, &RuleError{Section: "lambdas", Index: i, Value: l.Pattern, Err: err}
		}
		t.lambdas = append(t.lambdas, lambdaRule{re: re, replace: l.Replace})
	}

	for i, d := range rules.DefaultArgs {
		if d.Template == "" || strings.ContainsAny(d.Template, "<> ") {
			return nil, &RuleError{Section: "default_args", Index: i, Value: d.Template}
		}
		t.defaultArgs[d.Template] = d.Defaults
	}

	tracer().Debugf("quirks: compiled %d aliases, %d lambda rules, %d default-arg rules",
		len(t.aliases), len(t.lambdas), len(t.defaultArgs))

	return t, nil
}

func makeSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Rules returns the rules the table was compiled from.
func (t *Table) Rules() Rules {
	return t.rules
}

// IsCallingConvention reports whether word is a calling convention token.
func (t *Table) IsCallingConvention(word string) bool {
	_, ok := t.callingConventions[word]
	return ok
}

// IsBuiltinModifier reports whether word modifies a builtin type (unsigned, long, ...).
func (t *Table) IsBuiltinModifier(word string) bool {
	_, ok := t.builtinModifiers[word]
	return ok
}

// IsBuiltinType reports whether word names a builtin type.
func (t *Table) IsBuiltinType(word string) bool {
	_, ok := t.builtinTypes[word]
	return ok
}

// IsIgnoredWord reports whether word carries no meaning for a type name.
func (t *Table) IsIgnoredWord(word string) bool {
	_, ok := t.ignoredWords[word]
	return ok
}

// IsIgnoredScope reports whether a scope with the given name is dropped
// from the output.
func (t *Table) IsIgnoredScope(name string) bool {
	if _, ok := t.ignoredScopes[name]; ok {
		return true
	}
	for _, re := range t.scopePatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Rewrite maps an identifier to its normalized form. Identifiers without a
// matching alias or lambda rule are returned unchanged.
func (t *Table) Rewrite(name string) string {
	if to, ok := t.aliases[name]; ok {
		return to
	}
	for _, l := range t.lambdas {
		if m := l.re.FindStringSubmatchIndex(name); m != nil {
			return string(l.re.ExpandString(nil, l.replace, name, m))
		}
	}
	return name
}

// DefaultArgs returns the default arguments of the fully qualified template
// name, if known.
func (t *Table) DefaultArgs(template string) ([]string, bool) {
	defaults, ok := t.defaultArgs[template]
	return defaults, ok
}

// WriteYAML writes the rules of the table as a YAML document.
func (t *Table) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t.rules); err != nil {
		return fmt.Errorf("quirks: encode rules: %w", err)
	}
	return enc.Close()
}
