// Package sqlstore implements the repository contracts on database/sql.
// Queries use $N placeholders and ON CONFLICT, which both the pgx and the
// SQLite drivers accept, so one implementation serves both databases.
package sqlstore

import (
	"strings"
	"time"
)

// clock is overridden in tests.
type clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-insensitive LIKE pattern matching s anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
