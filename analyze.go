package sqlsyntax

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"

	"github.com/vippsas/sqlsyntax/sqlparser"
	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

// AnalyzeFS analyses all `*.sql` files of the given filesystems, typically
// trees included with the `embed` go feature. Hidden directories are
// skipped and two files with identical contents are an error, as are
// files failing the IncludeTags of the session's Options.
func (s *Session) AnalyzeFS(fsys ...fs.FS) (*Result, error) {
	files, doc, err := sqlparser.ParseFilesystems(fsys, s.opts.IncludeTags, s.ctx)
	if err != nil {
		return nil, err
	}
	return s.finish(files, doc)
}

// AnalyzeFS is a shorthand for a one-off Session.
func AnalyzeFS(opts Options, fsys ...fs.FS) (*Result, error) {
	s, err := NewSession(opts)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeFS(fsys...)
}

func MustAnalyzeFS(opts Options, fsys ...fs.FS) *Result {
	result, err := AnalyzeFS(opts, fsys...)
	if err != nil {
		panic(err)
	}
	return result
}

// Fingerprint hashes the significant tokens of doc, so that two documents
// differing only in whitespace and comments share a fingerprint.
func Fingerprint(doc *sqldocument.Document) string {
	hasher := sha256.New()
	if doc.Tokens != nil {
		for _, tok := range doc.Tokens.Tokens() {
			if tok.IsIgnorable() {
				continue
			}
			hasher.Write([]byte(tok.Raw + "\n"))
		}
	}
	for _, d := range doc.Diagnostics {
		hasher.Write([]byte(d.Kind.String() + "\n"))
	}
	// 6 bytes = 48 bits is plenty to tell versions of a code base apart
	return hex.EncodeToString(hasher.Sum(nil)[:6])
}
