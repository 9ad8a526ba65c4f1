// Package contract embeds the productos OpenAPI document and validates payloads against it.
package contract

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed productos.yaml
var document []byte

const payloadSchema = "ProductoPayload"

// Document returns the raw OpenAPI document.
func Document() []byte {
	return document
}

// Validator checks request bodies against the ProductoPayload schema.
type Validator struct {
	doc     *openapi3.T
	payload *openapi3.Schema
}

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*Validator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	ref, ok := doc.Components.Schemas[payloadSchema]
	if !ok || ref.Value == nil {
		return nil, fmt.Errorf("openapi document has no %s schema", payloadSchema)
	}

	return &Validator{doc: doc, payload: ref.Value}, nil
}

// ValidatePayload checks a decoded JSON value (maps, float64, strings) against the payload schema.
func (v *Validator) ValidatePayload(value any) error {
	if err := v.payload.VisitJSON(value); err != nil {
		return fmt.Errorf("payload does not match contract: %w", err)
	}
	return nil
}

// Title returns the API title declared by the document.
func (v *Validator) Title() string {
	if v.doc.Info == nil {
		return ""
	}
	return v.doc.Info.Title
}
