package dialect

import (
	"embed"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// tableFile is the schema of the files under data/. base.yaml holds the
// words and operators common to the whole family; every engine file adds
// its own, optionally gated on a version range.
type tableFile struct {
	Engine     Engine          `yaml:"engine"`
	MinVersion int             `yaml:"minVersion"`
	Supported  []int           `yaml:"supported"`
	Keywords   []keywordGroup  `yaml:"keywords"`
	Operators  []operatorGroup `yaml:"operators"`
}

type versionRange struct {
	// Since is the first version the entry applies to.
	Since int `yaml:"since"`
	// Until is the first version the entry no longer applies to; 0 means
	// no upper bound.
	Until int `yaml:"until"`
}

func (r versionRange) contains(v int) bool {
	return v >= r.Since && (r.Until == 0 || v < r.Until)
}

type keywordGroup struct {
	versionRange `yaml:",inline"`
	Flags        []string `yaml:"flags"`
	Words        []string `yaml:"words"`
}

type operatorGroup struct {
	versionRange `yaml:",inline"`
	Flags        []string `yaml:"flags"`
	Ops          []string `yaml:"ops"`
}

type definitions struct {
	base    *tableFile
	engines map[Engine]*tableFile
}

var (
	loadDefinitions = sync.OnceValues(decodeDefinitions)
)

func decodeDefinitions() (*definitions, error) {
	entries, err := dataFS.ReadDir("data")
	if err != nil {
		return nil, errors.Wrap(err, "reading embedded dialect tables")
	}
	defs := &definitions{engines: make(map[Engine]*tableFile)}
	for _, entry := range entries {
		name := path.Join("data", entry.Name())
		buf, err := dataFS.ReadFile(name)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", name)
		}
		var tf tableFile
		if err := yaml.Unmarshal(buf, &tf); err != nil {
			return nil, errors.Wrapf(err, "decoding %s", name)
		}
		if err := tf.validate(); err != nil {
			return nil, errors.Wrapf(err, "validating %s", name)
		}
		if tf.Engine == "" {
			defs.base = &tf
		} else {
			defs.engines[tf.Engine] = &tf
		}
	}
	if defs.base == nil {
		return nil, errors.New("no base dialect table")
	}
	return defs, nil
}

func (tf *tableFile) validate() error {
	for _, g := range tf.Keywords {
		if _, err := parseFlags(g.Flags); err != nil {
			return err
		}
	}
	for _, g := range tf.Operators {
		if _, err := parseFlags(g.Flags); err != nil {
			return err
		}
	}
	return nil
}

func parseFlags(names []string) (sqldocument.Flags, error) {
	var flags sqldocument.Flags
	for _, n := range names {
		f, ok := sqldocument.ParseFlag(n)
		if !ok {
			return 0, errors.Errorf("unknown flag %q", n)
		}
		flags |= f
	}
	return flags, nil
}

// tables is the fully merged lookup data for one Spec.
type tables struct {
	keywords       map[string]sqldocument.Flags
	operators      map[string]sqldocument.Flags
	operatorLens   []int // distinct operator lengths, longest first
	maxPhraseWords int
}

func buildTables(spec Spec) (*tables, error) {
	defs, err := loadDefinitions()
	if err != nil {
		return nil, err
	}
	ef, ok := defs.engines[spec.Engine]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownDialect, "engine %q", spec.Engine)
	}
	if spec.Version < ef.MinVersion {
		return nil, errors.Wrapf(ErrUnknownDialect, "%s %s is older than %s",
			spec.Engine, spec.VersionString(), FormatVersion(ef.MinVersion))
	}

	t := &tables{
		keywords:       make(map[string]sqldocument.Flags),
		operators:      make(map[string]sqldocument.Flags),
		maxPhraseWords: 1,
	}
	for _, tf := range []*tableFile{defs.base, ef} {
		for _, g := range tf.Keywords {
			if !g.contains(spec.Version) {
				continue
			}
			flags, _ := parseFlags(g.Flags)
			for _, w := range g.Words {
				phrase := NormalizePhrase(w)
				words := strings.Count(phrase, " ") + 1
				f := flags
				if words > 1 {
					f |= sqldocument.FlagComposed
				}
				t.keywords[phrase] |= f
				t.maxPhraseWords = max(t.maxPhraseWords, words)
			}
		}
		for _, g := range tf.Operators {
			if !g.contains(spec.Version) {
				continue
			}
			flags, _ := parseFlags(g.Flags)
			for _, op := range g.Ops {
				t.operators[op] |= flags
				if !slices.Contains(t.operatorLens, len(op)) {
					t.operatorLens = append(t.operatorLens, len(op))
				}
			}
		}
	}
	slices.Sort(t.operatorLens)
	slices.Reverse(t.operatorLens)
	return t, nil
}

// NormalizePhrase upper-cases a keyword phrase and collapses the
// whitespace between its words to single spaces.
func NormalizePhrase(phrase string) string {
	return strings.ToUpper(strings.Join(strings.Fields(phrase), " "))
}
