package params

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var ErrInvalid = errors.New("invalid query parameter")

// Pagination holds the requested page and, after ComputeMeta, the totals
// returned alongside a listing.
//
//	GET /v1/payments?page=2&limit=30 -> Pagination{Limit: 30, Page: 2, Offset: 30}
type Pagination struct {
	Limit      int  `json:"limit"`
	Offset     int  `json:"-"`
	Page       int  `json:"page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// ParsePagination reads ?page= and ?limit=. Missing values take defaults
// and a limit above MaxLimit is capped; non-numeric or non-positive values
// are rejected.
func ParsePagination(q url.Values) (Pagination, error) {
	p := Pagination{Limit: DefaultLimit, Page: 1}

	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return Pagination{}, fmt.Errorf("%w: limit must be a positive integer", ErrInvalid)
		}
		p.Limit = min(limit, MaxLimit)
	}

	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page <= 0 {
			return Pagination{}, fmt.Errorf("%w: page must be a positive integer", ErrInvalid)
		}
		p.Page = page
	}

	p.Offset = (p.Page - 1) * p.Limit
	return p, nil
}

func (p *Pagination) ComputeMeta(total int) {
	p.Total = total
	if p.Limit > 0 {
		p.TotalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	p.HasPrev = p.Page > 1
	p.HasNext = p.Page*p.Limit < total
}
