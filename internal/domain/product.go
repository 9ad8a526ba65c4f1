package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyName        = errors.New("product name is required")
	ErrNonPositivePrice = errors.New("product price must be greater than zero")
)

// Product is a record as held by the remote inventory service.
// Price keeps the textual form received on the wire; use PriceValue to read it as a number.
type Product struct {
	ID          string
	Name        string
	Price       string
	Description string
}

// Draft is the unsaved form representation of a product.
type Draft struct {
	Name        string
	Price       string
	Description string
}

// NewProduct creates a product from a validated draft and assigns it a fresh id.
func NewProduct(draft Draft) (*Product, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	price, _ := ParsePrice(draft.Price)

	return &Product{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(draft.Name),
		Price:       FormatPrice(price),
		Description: draft.Description,
	}, nil
}

// PriceValue parses the product price. ok is false when the price is not a finite number.
func (p Product) PriceValue() (float64, bool) {
	return ParsePrice(p.Price)
}

// Draft copies the editable fields of the product.
func (p Product) Draft() Draft {
	return Draft{
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
	}
}

// Validate checks the two client-side rules: a non-blank name and a price above zero.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Field: "name", Err: ErrEmptyName}
	}
	price, ok := ParsePrice(d.Price)
	if !ok || price <= 0 {
		return &ValidationError{Field: "price", Err: ErrNonPositivePrice}
	}
	return nil
}

// IsZero reports whether every field of the draft is empty.
func (d Draft) IsZero() bool {
	return d == Draft{}
}

// ParsePrice reads a decimal price, rejecting blanks, NaN and infinities.
func ParsePrice(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatPrice renders a price with the shortest exact representation.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
