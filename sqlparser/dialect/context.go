package dialect

import (
	"slices"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

const (
	DefaultDelimiter = ";"
	// MaxDelimiterLength is the longest delimiter the DELIMITER directive
	// accepts, in bytes.
	MaxDelimiterLength = 15
)

// Context is the dialect configuration one lexing and parsing session runs
// against. Load it once and do not modify it while a pass is in progress;
// every session owns its own Context.
type Context struct {
	spec      Spec
	tables    *tables
	mode      Mode
	delimiter string
}

// Load builds a Context for spec.
func Load(spec Spec) (*Context, error) {
	t, err := buildTables(spec)
	if err != nil {
		return nil, err
	}
	return &Context{spec: spec, tables: t, delimiter: DefaultDelimiter}, nil
}

// LoadString is ParseSpec followed by Load.
func LoadString(s string) (*Context, error) {
	spec, err := ParseSpec(s)
	if err != nil {
		return nil, err
	}
	return Load(spec)
}

// Default returns a Context for the latest MySQL version.
func Default() *Context {
	ctx, err := Load(Latest(MySQL))
	if err != nil {
		// the embedded tables are covered by tests
		panic(err)
	}
	return ctx
}

// Reload replaces all tables with those of spec. On error the Context is
// left unchanged. Mode and delimiter are kept.
func (c *Context) Reload(spec Spec) error {
	t, err := buildTables(spec)
	if err != nil {
		return err
	}
	c.spec = spec
	c.tables = t
	return nil
}

func (c *Context) Spec() Spec {
	return c.spec
}

func (c *Context) Mode() Mode {
	return c.mode
}

func (c *Context) SetMode(m Mode) {
	c.mode = m
}

func (c *Context) HasMode(m Mode) bool {
	return c.mode.Has(m)
}

// Delimiter returns the statement delimiter lexing starts with.
func (c *Context) Delimiter() string {
	return c.delimiter
}

func (c *Context) SetDelimiter(d string) error {
	if err := ValidateDelimiter(d); err != nil {
		return err
	}
	c.delimiter = d
	return nil
}

// ValidateDelimiter checks d is usable as a statement delimiter.
func ValidateDelimiter(d string) error {
	if d == "" {
		return errors.New("empty delimiter")
	}
	if len(d) > MaxDelimiterLength {
		return errors.Errorf("delimiter %q longer than %d bytes", d, MaxDelimiterLength)
	}
	if strings.IndexFunc(d, unicode.IsSpace) >= 0 {
		return errors.Errorf("delimiter %q contains whitespace", d)
	}
	return nil
}

// Keyword looks up a keyword phrase. The phrase is matched case
// insensitively with whitespace between words collapsed.
func (c *Context) Keyword(phrase string) (sqldocument.Flags, bool) {
	f, ok := c.tables.keywords[NormalizePhrase(phrase)]
	return f, ok
}

func (c *Context) IsKeyword(phrase string) bool {
	_, ok := c.Keyword(phrase)
	return ok
}

func (c *Context) IsReserved(phrase string) bool {
	f, _ := c.Keyword(phrase)
	return f.Has(sqldocument.FlagReserved)
}

func (c *Context) IsFunction(phrase string) bool {
	f, _ := c.Keyword(phrase)
	return f.Has(sqldocument.FlagFunction)
}

func (c *Context) IsDataType(phrase string) bool {
	f, _ := c.Keyword(phrase)
	return f.Has(sqldocument.FlagDataType)
}

// MaxPhraseWords is the number of words in the longest keyword phrase.
func (c *Context) MaxPhraseWords() int {
	return c.tables.maxPhraseWords
}

// MatchOperator returns the longest operator that text starts with.
func (c *Context) MatchOperator(text string) (string, sqldocument.Flags, bool) {
	for _, n := range c.tables.operatorLens {
		if n > len(text) {
			continue
		}
		if f, ok := c.tables.operators[text[:n]]; ok {
			return text[:n], f, true
		}
	}
	return "", 0, false
}

// Operators lists all operators, sorted.
func (c *Context) Operators() []string {
	ops := make([]string, 0, len(c.tables.operators))
	for op := range c.tables.operators {
		ops = append(ops, op)
	}
	slices.Sort(ops)
	return ops
}

// Keywords lists all keyword phrases, sorted.
func (c *Context) Keywords() []string {
	kws := make([]string, 0, len(c.tables.keywords))
	for kw := range c.tables.keywords {
		kws = append(kws, kw)
	}
	slices.Sort(kws)
	return kws
}

// Engines lists the known engines.
func Engines() []Engine {
	return []Engine{MySQL, MariaDB}
}

// Supported lists the versions with published tables, oldest first per
// engine.
func Supported() []Spec {
	defs, err := loadDefinitions()
	if err != nil {
		return nil
	}
	var specs []Spec
	for _, e := range Engines() {
		if tf, ok := defs.engines[e]; ok {
			for _, v := range tf.Supported {
				specs = append(specs, Spec{Engine: e, Version: v})
			}
		}
	}
	return specs
}

// Latest returns the newest supported version of e.
func Latest(e Engine) Spec {
	spec := Spec{Engine: e}
	for _, s := range Supported() {
		if s.Engine == e && s.Version > spec.Version {
			spec = s
		}
	}
	return spec
}
