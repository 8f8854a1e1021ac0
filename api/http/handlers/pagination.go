package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Page bounds list queries. Size applies when the request names no limit;
// a limit above Max is clamped to Max.
type Page struct {
	Size int
	Max  int
}

var DefaultPage = Page{Size: 50, Max: 200}

func (p Page) orDefault() Page {
	if p.Max <= 0 {
		p.Max = DefaultPage.Max
	}
	if p.Size <= 0 {
		p.Size = DefaultPage.Size
	}
	if p.Size > p.Max {
		p.Size = p.Max
	}
	return p
}

// limitOffset reads ?limit and ?offset. Non-numeric or negative values are
// rejected so the caller can answer 400.
func (p Page) limitOffset(c *fiber.Ctx) (limit, offset int, err error) {
	p = p.orDefault()
	limit = p.Size
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, fmt.Errorf("limit must be a positive integer, got %q", v)
		}
		limit = min(n, p.Max)
	}
	if v := strings.TrimSpace(c.Query("offset")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, fmt.Errorf("offset must be a non-negative integer, got %q", v)
		}
		offset = n
	}
	return limit, offset, nil
}
