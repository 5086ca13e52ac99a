package domain

import (
	"regexp"
	"time"
)

// Known page types
const (
	PageLanding   = "landing"
	PageAbout     = "about"
	PageProducts  = "products"
	PageLocations = "locations"
	PageContact   = "contact"
)

var pageTypePattern = regexp.MustCompile(`^[a-z0-9_-]{1,50}$`)

// ValidPageType reports whether s can be used as a visit counter key.
func ValidPageType(s string) bool {
	return pageTypePattern.MatchString(s)
}

// VisitCount is the number of visits recorded for a page type
type VisitCount struct {
	PageType   string    `json:"page_type" db:"page_type"`
	VisitCount int64     `json:"visit_count" db:"visit_count"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
