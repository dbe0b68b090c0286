package dto

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

type Filter struct {
	Limit      int    `query:"limit"`
	Page       int    `query:"page"`
	SearchTerm string `query:"search_term"`
}

// ParseFilter reads pagination params off the query string. A missing limit
// defaults to 10; an explicit limit=0 is kept as-is and means no slicing.
func ParseFilter(c echo.Context) Filter {
	filter := Filter{
		Page:       1,
		Limit:      10,
		SearchTerm: c.QueryParam("search_term"),
	}

	if raw := c.QueryParam("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			filter.Page = page
		}
	}

	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit >= 0 {
			filter.Limit = limit
		}
	}

	return filter
}

// Offset returns the row offset for the current page.
func (f Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}
