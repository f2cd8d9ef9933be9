package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownDialect is returned (wrapped) for engines and versions no
// table is defined for.
var ErrUnknownDialect = errors.New("unknown dialect")

type Engine string

const (
	MySQL   Engine = "mysql"
	MariaDB Engine = "mariadb"
)

// Spec selects a dialect: an engine and a version encoded as MMmmpp,
// e.g. 80000 for MySQL 8.0.0 or 100600 for MariaDB 10.6.0.
type Spec struct {
	Engine  Engine
	Version int
}

// String returns the compact form accepted by ParseSpec, e.g. "MySql80000".
func (s Spec) String() string {
	switch s.Engine {
	case MySQL:
		return fmt.Sprintf("MySql%d", s.Version)
	case MariaDB:
		return fmt.Sprintf("MariaDb%d", s.Version)
	}
	return fmt.Sprintf("%s%d", s.Engine, s.Version)
}

// VersionString returns the dotted version, e.g. "10.6.0".
func (s Spec) VersionString() string {
	return FormatVersion(s.Version)
}

func FormatVersion(v int) string {
	return fmt.Sprintf("%d.%d.%d", v/10000, v/100%100, v%100)
}

// ParseSpec parses a dialect selector. Accepted forms:
//
//	MySql80000  MariaDb100600   compact, as printed by Spec.String
//	mysql-8.0   mariadb:10.6.2  engine and dotted version
//	mysql                       latest supported version of the engine
func ParseSpec(s string) (Spec, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	for _, e := range Engines() {
		rest, ok := strings.CutPrefix(in, string(e))
		if !ok {
			continue
		}
		if rest == "" {
			return Latest(e), nil
		}
		if rest[0] == '-' || rest[0] == ':' || rest[0] == ' ' {
			v, err := parseDotted(rest[1:])
			if err != nil {
				return Spec{}, errors.Wrapf(err, "dialect %q", s)
			}
			return Spec{Engine: e, Version: v}, nil
		}
		v, err := strconv.Atoi(rest)
		if err != nil || v <= 0 {
			return Spec{}, errors.Wrapf(ErrUnknownDialect, "dialect %q: bad version", s)
		}
		return Spec{Engine: e, Version: v}, nil
	}
	return Spec{}, errors.Wrapf(ErrUnknownDialect, "dialect %q", s)
}

func parseDotted(s string) (int, error) {
	parts := strings.Split(s, ".")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, errors.Wrapf(ErrUnknownDialect, "bad version %q", s)
	}
	v := 0
	for i, mul := 0, 10000; i < 3; i, mul = i+1, mul/100 {
		if i >= len(parts) {
			break
		}
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 || (i > 0 && n > 99) {
			return 0, errors.Wrapf(ErrUnknownDialect, "bad version %q", s)
		}
		v += n * mul
	}
	return v, nil
}

func (s *Spec) UnmarshalText(text []byte) error {
	parsed, err := ParseSpec(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Spec) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
