package sqlparser

import (
	"github.com/vippsas/sqlsyntax/sqlparser/dialect"
	"github.com/vippsas/sqlsyntax/sqlparser/mysql"
	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

type (
	Document   = sqldocument.Document
	Diagnostic = sqldocument.Diagnostic
	FileRef    = sqldocument.FileRef
)

// Helper function to lex and parse a SQL document from a string input.
// A nil ctx means the latest MySQL release with default settings.
func ParseString(filename FileRef, input string, ctx *dialect.Context) *Document {
	if ctx == nil {
		ctx = dialect.Default()
	}
	return mysql.ParseDocument(filename, input, ctx)
}
