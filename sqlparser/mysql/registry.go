package mysql

import (
	"sort"

	"github.com/vippsas/sqlsyntax/sqlparser/sqldocument"
)

// maxCommandTokens is the longest command phrase, in keyword tokens.
// Multi-word keywords such as START TRANSACTION count as one token.
const maxCommandTokens = 3

type commandFunc func(p *Parser, base sqldocument.StatementBase) sqldocument.Statement

// commands maps each statement-starting phrase to its handler. It is
// filled in init, as handlers for nested statements refer back to it.
var commands map[string]commandFunc

func init() {
	commands = map[string]commandFunc{
		"PURGE":             parsePurge,
		"SELECT":            parseSelect,
		"INSERT":            parseInsert,
		"REPLACE":           parseInsert,
		"UPDATE":            parseUpdate,
		"DELETE":            parseDelete,
		"TRUNCATE":          parseTruncate,
		"DROP":              parseDrop,
		"RENAME":            parseRename,
		"SET":               parseSet,
		"KILL":              parseKill,
		"USE":               parseUse,
		"CALL":              parseCall,
		"SHOW":              parseShow,
		"START TRANSACTION": parseTransaction,
		"BEGIN":             parseTransaction,
		"COMMIT":            parseTransaction,
		"ROLLBACK":          parseTransaction,
		"SAVEPOINT":         parseTransaction,
		"RELEASE SAVEPOINT": parseTransaction,
		"LOCK TABLES":       parseLock,
		"LOCK TABLE":        parseLock,
		"UNLOCK TABLES":     parseLock,
		"UNLOCK TABLE":      parseLock,
		"ANALYZE":           parseMaintenance,
		"CHECK":             parseMaintenance,
		"CHECKSUM":          parseMaintenance,
		"OPTIMIZE":          parseMaintenance,
		"REPAIR":            parseMaintenance,
		"EXPLAIN":           parseExplain,
		"DESCRIBE":          parseExplain,
		"DESC":              parseExplain,
	}
}

// Commands lists the statement-starting phrases the parser recognizes.
func Commands() []string {
	var result []string
	for phrase := range commands {
		result = append(result, phrase)
	}
	sort.Strings(result)
	return result
}

// StatementType names the variant of s, e.g. "Select" for a
// *SelectStatement. It returns "" for statements of other packages.
func StatementType(s sqldocument.Statement) string {
	switch s.(type) {
	case *PurgeStatement:
		return "Purge"
	case *SelectStatement:
		return "Select"
	case *InsertStatement:
		return "Insert"
	case *UpdateStatement:
		return "Update"
	case *DeleteStatement:
		return "Delete"
	case *TruncateStatement:
		return "Truncate"
	case *DropStatement:
		return "Drop"
	case *RenameStatement:
		return "Rename"
	case *SetStatement:
		return "Set"
	case *KillStatement:
		return "Kill"
	case *UseStatement:
		return "Use"
	case *CallStatement:
		return "Call"
	case *ShowStatement:
		return "Show"
	case *TransactionStatement:
		return "Transaction"
	case *LockStatement:
		return "Lock"
	case *MaintenanceStatement:
		return "Maintenance"
	case *ExplainStatement:
		return "Explain"
	}
	return ""
}
