package repository

import (
	"gorm.io/gorm"
)

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Filter returns the named filter value, or "" when unset.
func (q *ListQuery) Filter(name string) string {
	if q.Filters == nil {
		return ""
	}
	return q.Filters[name]
}

// apply adds ordering and pagination. Only whitelisted columns are sortable;
// anything else falls back to newest first.
func (q *ListQuery) apply(db *gorm.DB, sortable map[string]bool) *gorm.DB {
	if q.SortBy != "" && sortable[q.SortBy] {
		order := q.SortBy
		if q.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("created_at DESC")
	}
	// Tie-break so pages are stable.
	db = db.Order("id DESC")

	if q.PerPage > 0 {
		page := q.Page
		if page < 1 {
			page = 1
		}
		db = db.Offset((page - 1) * q.PerPage).Limit(q.PerPage)
	}
	return db
}
