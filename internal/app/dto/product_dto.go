package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mrops-br/inventario-console/internal/domain"
)

// ProductPayload is the body sent on create and update
type ProductPayload struct {
	Nombre      string `json:"nombre"`
	Precio      Price  `json:"precio"`
	Descripcion string `json:"descripcion,omitempty"`
}

// ProductResponse is a product as returned by the productos API
type ProductResponse struct {
	ID          FlexString `json:"id"`
	Nombre      string     `json:"nombre"`
	Precio      Price      `json:"precio"`
	Descripcion string     `json:"descripcion,omitempty"`
}

// FlexString decodes a JSON string or number into its textual form and encodes as a string.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	text, err := scalarText(data)
	if err != nil {
		return err
	}
	*s = FlexString(text)
	return nil
}

// Price decodes a JSON string or number into its textual form.
// It encodes as a JSON number when the text parses, and as a string otherwise.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	text, err := scalarText(data)
	if err != nil {
		return err
	}
	*p = Price(text)
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if v, ok := domain.ParsePrice(string(p)); ok {
		return []byte(domain.FormatPrice(v)), nil
	}
	return json.Marshal(string(p))
}

func scalarText(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	switch c := data[0]; {
	case c == '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return "", err
		}
		return text, nil
	case c == '-' || (c >= '0' && c <= '9'):
		return string(data), nil
	default:
		return "", fmt.Errorf("expected string or number, got %s", data)
	}
}

// NewProductPayload converts a draft to the wire body
func NewProductPayload(d domain.Draft) *ProductPayload {
	return &ProductPayload{
		Nombre:      strings.TrimSpace(d.Name),
		Precio:      Price(strings.TrimSpace(d.Price)),
		Descripcion: d.Description,
	}
}

// ToDraft converts a wire body back into a draft
func (p *ProductPayload) ToDraft() domain.Draft {
	return domain.Draft{
		Name:        p.Nombre,
		Price:       string(p.Precio),
		Description: p.Descripcion,
	}
}

// ToProduct converts a wire record to the domain Product
func (r *ProductResponse) ToProduct() domain.Product {
	return domain.Product{
		ID:          string(r.ID),
		Name:        r.Nombre,
		Price:       string(r.Precio),
		Description: r.Descripcion,
	}
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:          FlexString(p.ID),
		Nombre:      p.Name,
		Precio:      Price(p.Price),
		Descripcion: p.Description,
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []*domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}

// ToProducts converts a decoded list response to domain products, preserving order
func ToProducts(responses []ProductResponse) []domain.Product {
	products := make([]domain.Product, len(responses))
	for i := range responses {
		products[i] = responses[i].ToProduct()
	}
	return products
}
