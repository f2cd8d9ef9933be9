package example

import (
	"embed"

	"github.com/vippsas/sqlsyntax"
)

//go:embed *.sql
//go:embed */*.sql
var sqlfs embed.FS

var SQL = sqlsyntax.MustAnalyzeFS(sqlsyntax.Options{Dialect: "mysql-8.0"}, sqlfs)
