package model

import "strings"

// PageRequest represents common pagination and ordering parameters.
// Offset semantics are page*size.
type PageRequest struct {
	Page    int    `json:"page" form:"page"`
	Size    int    `json:"size" form:"size"`
	SortBy  string `json:"sort_by" form:"sort_by"`
	SortDir string `json:"sort_dir" form:"sort_dir"`
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize fills defaults and clamps the page size. The default ordering
// is appointment_date ascending.
func (p *PageRequest) Normalize() {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	if p.SortBy == "" {
		p.SortBy = "appointment_date"
	}
	if !strings.EqualFold(p.SortDir, "DESC") {
		p.SortDir = "ASC"
	} else {
		p.SortDir = "DESC"
	}
}

// Offset returns the row offset for the current page.
func (p *PageRequest) Offset() int {
	return p.Page * p.Size
}
