// Package catalog derives the displayed product list from the cached snapshot.
// Everything here is pure and deterministic.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mrops-br/inventario-console/internal/domain"
)

// PriceBucket is a named price range used for categorical filtering.
type PriceBucket string

const (
	BucketAll     PriceBucket = "all"
	BucketUpTo50  PriceBucket = "0-50"
	Bucket50To100 PriceBucket = "50-100"
	BucketOver100 PriceBucket = "100+"
)

// Buckets lists the buckets in display order.
var Buckets = []PriceBucket{BucketAll, BucketUpTo50, Bucket50To100, BucketOver100}

// ParseBucket maps a label to a bucket. The empty string means BucketAll.
func ParseBucket(s string) (PriceBucket, error) {
	switch b := PriceBucket(strings.TrimSpace(s)); b {
	case "":
		return BucketAll, nil
	case BucketAll, BucketUpTo50, Bucket50To100, BucketOver100:
		return b, nil
	default:
		return BucketAll, fmt.Errorf("unknown price bucket %q", s)
	}
}

// Contains reports whether price falls in the bucket.
func (b PriceBucket) Contains(price float64) bool {
	switch b {
	case BucketUpTo50:
		return price >= 0 && price <= 50
	case Bucket50To100:
		return price > 50 && price <= 100
	case BucketOver100:
		return price > 100
	default:
		return true
	}
}

// SortDirection orders results by numeric price.
type SortDirection string

const (
	SortNone SortDirection = "none"
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortDirections lists the directions in display order.
var SortDirections = []SortDirection{SortNone, SortAsc, SortDesc}

// ParseSortDirection maps a label to a direction. The empty string means SortNone.
func ParseSortDirection(s string) (SortDirection, error) {
	switch d := SortDirection(strings.TrimSpace(s)); d {
	case "":
		return SortNone, nil
	case SortNone, SortAsc, SortDesc:
		return d, nil
	default:
		return SortNone, fmt.Errorf("unknown sort direction %q", s)
	}
}

// Criteria is the committed filter state.
type Criteria struct {
	SearchText string
	Bucket     PriceBucket
	Sort       SortDirection
}

// Apply runs search, bucket and sort over products and returns a new slice.
// The input slice is never reordered.
func Apply(products []domain.Product, c Criteria) []domain.Product {
	type priced struct {
		product domain.Product
		price   float64
	}

	query := strings.ToLower(c.SearchText)
	matches := make([]priced, 0, len(products))
	for _, p := range products {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		price, ok := p.PriceValue()
		if !ok || !c.Bucket.Contains(price) {
			continue
		}
		matches = append(matches, priced{product: p, price: price})
	}

	switch c.Sort {
	case SortAsc:
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].price < matches[j].price
		})
	case SortDesc:
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].price > matches[j].price
		})
	}

	out := make([]domain.Product, len(matches))
	for i, m := range matches {
		out[i] = m.product
	}
	return out
}
