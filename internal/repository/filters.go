package repository

import "strings"

// Page is an offset window over an id-ordered result set.
type Page struct {
	Offset int
	Limit  int
}

// UserFilter narrows user listings.
type UserFilter struct {
	Search    string
	IsPartner *bool
	Page
}

// CategoryFilter narrows category listings.
type CategoryFilter struct {
	Search string
	Page
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID *uint
	Search     string
	Page
}

// likeEscape is the LIKE escape character.
const likeEscape = "!"

var likeReplacer = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// likePattern builds a lower-cased substring pattern with LIKE wildcards escaped.
func likePattern(search string) string {
	return "%" + strings.ToLower(likeReplacer.Replace(strings.TrimSpace(search))) + "%"
}

// containsClause matches column case-insensitively against a likePattern argument.
func containsClause(column string) string {
	return "LOWER(" + column + ") LIKE ? ESCAPE '" + likeEscape + "'"
}
