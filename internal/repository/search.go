package repository

import "strings"

// likeEscape is the escape character used in LIKE patterns. A backslash is
// avoided because MySQL and Postgres disagree on its meaning in literals.
const likeEscape = "!"

var likeReplacer = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// containsPattern builds a case-folded LIKE pattern matching query literally
// anywhere in a column.
func containsPattern(query string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(query)) + "%"
}

// nameOrEmailMatches is the shared WHERE clause for name/email search. Names
// match search_name, which is folded in Go on save; SQLite's LOWER folds
// ASCII only.
const nameOrEmailMatches = "search_name LIKE ? ESCAPE '" + likeEscape + "' OR LOWER(email) LIKE ? ESCAPE '" + likeEscape + "'"
