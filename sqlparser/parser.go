// Package sqlparser holds the entry points that combine lexing and parsing
// of MySQL family source: single strings, and whole trees of *.sql files.
// The lexer and parser themselves live in the mysql subpackage.
package sqlparser

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"strings"

	"github.com/pkg/errors"
	"github.com/vippsas/sqlsyntax/sqlparser/dialect"
	"github.com/vippsas/sqlsyntax/sqlparser/internal/utils"
	"github.com/vippsas/sqlsyntax/sqlparser/mysql"
)

// ParseFilesystems iterates through a list of filesystems, parses all files
// matching `*.sql` against ctx and returns the combination of all of them.
// Files whose `-- sqlsyntax:include-if` pragma names a tag missing from
// includeTags are left out.
//
// err will only return errors related to filesystems, reading and
// pragmas. Lexical and syntax problems are in result.Diagnostics.
func ParseFilesystems(fslst []fs.FS, includeTags []string, ctx *dialect.Context) (filenames []string, result *Document, err error) {
	if ctx == nil {
		ctx = dialect.Default()
	}
	result = &Document{}

	// It may be easy to pass in the same directory twice but that should
	// not be encouraged, so if we get the same hash from two files, return
	// an error.
	hashes := make(map[[32]byte]string)

	for fidx, fsys := range fslst {
		// WalkDir is in lexical order according to docs, so output should be stable
		err = fs.WalkDir(fsys, ".",
			func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				// Skip over any hidden directories; in particular .git
				if strings.HasPrefix(path, ".") && path != "." || strings.Contains(path, "/.") {
					if d.IsDir() {
						return fs.SkipDir
					}
					return nil
				}
				if d.IsDir() || !strings.HasSuffix(path, ".sql") {
					return nil
				}

				buf, err := fs.ReadFile(fsys, path)
				if err != nil {
					return errors.Wrapf(err, "reading %s", path)
				}

				pathDesc := fmt.Sprintf("fs[%d]:%s", fidx, path)
				hash := sha256.Sum256(buf)
				if existingPathDesc, hashExists := hashes[hash]; hashExists {
					return errors.Errorf("file %s has exact same contents as %s (possibly in different filesystems)",
						pathDesc, existingPathDesc)
				}
				hashes[hash] = pathDesc

				fdoc := mysql.ParseDocument(FileRef(path), string(buf), ctx)
				var pragma Pragma
				if err := pragma.ParsePragmas(fdoc.Tokens); err != nil {
					return errors.Wrap(err, path)
				}
				if !matchesIncludeTags(pragma.PragmaIncludeIf(), includeTags) {
					utils.DPrint("skipping %s: include-if %v\n", path, pragma.PragmaIncludeIf())
					return nil
				}
				filenames = append(filenames, pathDesc)
				result.Include(fdoc)
				return nil
			})
		if err != nil {
			return
		}
	}
	return
}
