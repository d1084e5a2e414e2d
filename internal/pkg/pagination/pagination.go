package pagination

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// DefaultSize is the default number of items per page
const DefaultSize = 10

// MaxSize is the maximum number of items per page
const MaxSize = 100

// Sort describes the ordering of a page query
type Sort struct {
	Column string
	Desc   bool
}

// OrderBy renders the sort as an ORDER BY expression
func (s Sort) OrderBy() string {
	if s.Desc {
		return s.Column + " DESC"
	}
	return s.Column + " ASC"
}

// Params represents pagination parameters. Page is zero based.
type Params struct {
	Page   int
	Size   int
	Offset int
	Sort   Sort
}

// Sortable maps API sort field names to database columns
type Sortable map[string]string

// GetParams extracts pagination parameters from request.
// sort is "field" or "field,asc|desc"; unknown fields fall back to def.
func GetParams(c *fiber.Ctx, sortable Sortable, def Sort) Params {
	page, _ := strconv.Atoi(c.Query("page", "0"))
	size, _ := strconv.Atoi(c.Query("size", strconv.Itoa(DefaultSize)))

	return NewParams(page, size, parseSort(c.Query("sort"), sortable, def))
}

// NewParams normalizes page and size
func NewParams(page, size int, sort Sort) Params {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}

	return Params{
		Page:   page,
		Size:   size,
		Offset: page * size,
		Sort:   sort,
	}
}

func parseSort(raw string, sortable Sortable, def Sort) Sort {
	if raw == "" {
		return def
	}

	field, dir, _ := strings.Cut(raw, ",")
	column, ok := sortable[strings.TrimSpace(field)]
	if !ok {
		return def
	}

	desc := false
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "desc":
		desc = true
	case "", "asc":
	default:
		return def
	}
	return Sort{Column: column, Desc: desc}
}

// Page is the envelope for one page of results
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"page_number"`
	PageSize      int   `json:"page_size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

// NewPage builds a page envelope from the query result
func NewPage[T any](content []T, params Params, total int64) *Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := int(total) / params.Size
	if int(total)%params.Size > 0 {
		totalPages++
	}

	return &Page[T]{
		Content:       content,
		PageNumber:    params.Page,
		PageSize:      params.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}
