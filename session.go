// Package sqlsyntax analyses MySQL and MariaDB source text: it lexes and
// parses it into tokens and typed statements, collecting diagnostics
// instead of stopping at the first problem.
//
// Each Session owns its dialect Context, so sessions for different
// dialects can be used side by side.
package sqlsyntax

import (
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vippsas/sqlsyntax/sqlparser/dialect"
	"github.com/vippsas/sqlsyntax/sqlparser/mysql"
	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

// Options that affect lexing and parsing; pass an empty struct to get
// default options.
type Options struct {
	// Dialect selects engine and version, e.g. "mysql-5.7" or "mariadb".
	// Empty means the latest MySQL version.
	Dialect string

	// SQLMode is a comma separated sql_mode value; only ANSI_QUOTES (or
	// ANSI) and NO_BACKSLASH_ESCAPES change the result.
	SQLMode string

	// Delimiter is the statement delimiter in effect at the start of each
	// text. Empty means ";".
	Delimiter string

	IncludeTags []string

	// if this is set, diagnostics are returned in the Result instead of
	// as a ParseErrors, and it's up to the caller to inspect them.
	PartialParseResults bool

	// Logger defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

// Session lexes and parses texts against one dialect configuration.
// A Session must not be used from several goroutines at once.
type Session struct {
	ID   uuid.UUID
	opts Options
	ctx  *dialect.Context
	log  logrus.FieldLogger
}

func NewSession(opts Options) (*Session, error) {
	var ctx *dialect.Context
	if opts.Dialect == "" {
		ctx = dialect.Default()
	} else {
		var err error
		ctx, err = dialect.LoadString(opts.Dialect)
		if err != nil {
			return nil, err
		}
	}

	mode, err := dialect.ParseMode(opts.SQLMode)
	if err != nil {
		return nil, err
	}
	ctx.SetMode(mode)

	if opts.Delimiter != "" {
		if err := ctx.SetDelimiter(opts.Delimiter); err != nil {
			return nil, errors.Wrap(err, "initial delimiter")
		}
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, errors.Wrap(err, "session id")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Session{
		ID:   id,
		opts: opts,
		ctx:  ctx,
		log:  logger.WithField("session", id.String()),
	}, nil
}

func MustNewSession(opts Options) *Session {
	s, err := NewSession(opts)
	if err != nil {
		panic(err)
	}
	return s
}

// Context returns the dialect configuration of the session.
func (s *Session) Context() *dialect.Context {
	return s.ctx
}

// Lex tokenizes text.
func (s *Session) Lex(text string) (*sqldocument.TokenStream, []sqldocument.Diagnostic) {
	return mysql.Tokenize(text, s.ctx)
}

// Parse parses a token stream produced by Lex.
func (s *Session) Parse(stream *sqldocument.TokenStream) ([]sqldocument.Statement, []sqldocument.Diagnostic) {
	return mysql.Parse(stream, s.ctx)
}

// Result is what Analyze and AnalyzeFS found.
type Result struct {
	Session     uuid.UUID
	Dialect     dialect.Spec
	Files       []string
	Document    *sqldocument.Document
	Fingerprint string
}

// Analyze lexes and parses text. Diagnostics are reported as ParseErrors
// unless Options.PartialParseResults is set; the Result is returned
// either way.
func (s *Session) Analyze(file sqldocument.FileRef, text string) (*Result, error) {
	doc := mysql.ParseDocument(file, text, s.ctx)
	return s.finish([]string{string(file)}, doc)
}

func (s *Session) finish(files []string, doc *sqldocument.Document) (*Result, error) {
	result := &Result{
		Session:     s.ID,
		Dialect:     s.ctx.Spec(),
		Files:       files,
		Document:    doc,
		Fingerprint: Fingerprint(doc),
	}
	s.log.WithFields(logrus.Fields{
		"files":       len(files),
		"statements":  len(doc.Statements),
		"diagnostics": len(doc.Diagnostics),
	}).Debug("analyzed")

	if len(doc.Diagnostics) > 0 && !s.opts.PartialParseResults {
		return result, ParseErrors{Diagnostics: doc.Diagnostics}
	}
	return result, nil
}
