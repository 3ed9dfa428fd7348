package queries

import (
	"fmt"
	"strings"

	"shop-checkout/internal/pkg/errs"
	"shop-checkout/internal/usecase/shared"
)

var ErrInvalidQuery = errs.New("invalid order query")

// ParseSort reads a comma separated list of `field:asc|desc` terms. The
// direction defaults to desc, matching newest-first listings.
func ParseSort(raw string) ([]shared.OrderSort, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	terms := strings.Split(raw, ",")
	sorts := make([]shared.OrderSort, 0, len(terms))
	seen := make(map[shared.OrderSortField]struct{}, len(terms))
	for _, term := range terms {
		field, dir, _ := strings.Cut(strings.TrimSpace(term), ":")
		f := shared.OrderSortField(strings.ToLower(field))
		if !f.IsValid() {
			return nil, errs.Mark(fmt.Errorf("unknown sort field %q", field), ErrInvalidQuery)
		}
		if _, dup := seen[f]; dup {
			return nil, errs.Mark(fmt.Errorf("duplicate sort field %q", field), ErrInvalidQuery)
		}
		seen[f] = struct{}{}

		switch strings.ToLower(dir) {
		case "asc":
			sorts = append(sorts, shared.OrderSort{Field: f})
		case "", "desc":
			sorts = append(sorts, shared.OrderSort{Field: f, Desc: true})
		default:
			return nil, errs.Mark(fmt.Errorf("unknown sort direction %q", dir), ErrInvalidQuery)
		}
	}
	return sorts, nil
}

// pageWindow turns a 0-based page into offset/limit. One extra row is fetched
// to detect whether a next page exists.
func pageWindow(page int) (offset, limit int, err error) {
	if page < 0 {
		return 0, 0, errs.Mark(fmt.Errorf("page must be >= 0, got %d", page), ErrInvalidQuery)
	}
	return page * shared.OrderPageSize, shared.OrderPageSize + 1, nil
}

func nextPage(page, fetched int) *int {
	if fetched <= shared.OrderPageSize {
		return nil
	}
	next := page + 1
	return &next
}
