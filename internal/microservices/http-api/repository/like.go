package repository

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere in
// the column. Backslash is the default escape character in PostgreSQL.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
