package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Params holds resolved offset-based paging parameters.
type Params struct {
	Page     int
	PageSize int
}

// Meta is the pagination block returned alongside every paginated list.
type Meta struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	PageSize    int   `json:"pageSize"`
	Pages       int   `json:"pages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// Resolve reads page/page_size query parameters, falling back to defaults on
// garbage input and clamping page to >= 1 and page_size to [1, MaxPageSize].
func Resolve(c *fiber.Ctx) Params {
	page, err := strconv.Atoi(c.Query("page", ""))
	if err != nil {
		page = DefaultPage
	}
	pageSize, err := strconv.Atoi(c.Query("page_size", ""))
	if err != nil {
		pageSize = DefaultPageSize
	}
	return Clamp(page, pageSize)
}

// Clamp normalizes raw page/page_size values.
func Clamp(page, pageSize int) Params {
	if page < 1 {
		page = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if pageSize < 1 {
		pageSize = 1
	}
	return Params{Page: page, PageSize: pageSize}
}

// Offset returns the row offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// BuildMeta computes the meta block for a total row count. Pages is
// ceil(total/page_size); next/prev indicators derive from the page position.
func BuildMeta(p Params, total int64) Meta {
	pages := int(total) / p.PageSize
	if int(total)%p.PageSize > 0 {
		pages++
	}

	return Meta{
		Total:       total,
		Page:        p.Page,
		PageSize:    p.PageSize,
		Pages:       pages,
		HasNextPage: p.Page < pages,
		HasPrevPage: p.Page > 1 && pages > 0,
	}
}
