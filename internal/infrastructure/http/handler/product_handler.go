package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/inventario-console/internal/app/dto"
	"github.com/mrops-br/inventario-console/internal/app/service"
	"github.com/mrops-br/inventario-console/internal/domain"
	"github.com/mrops-br/inventario-console/internal/infrastructure/http/contract"
	"github.com/mrops-br/inventario-console/internal/infrastructure/http/response"
)

const maxBodyBytes = 1 << 20

var errBadPayload = errors.New("invalid request body")

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service   *service.ProductService
	validator *contract.Validator
	logger    *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, validator *contract.Validator, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:   service,
		validator: validator,
		logger:    logger,
	}
}

// decodePayload reads the body, checks it against the contract and decodes it
func (h *ProductHandler) decodePayload(w http.ResponseWriter, r *http.Request) (*dto.ProductPayload, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadPayload, err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadPayload, err)
	}
	if err := h.validator.ValidatePayload(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadPayload, err)
	}

	var req dto.ProductPayload
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return &req, nil
}

// writeError maps service errors to status codes
func (h *ProductHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, errBadPayload), errors.As(err, &verr):
		h.logger.WarnContext(r.Context(), "Rejected request payload",
			slog.String("error", err.Error()),
		)
		field := ""
		if verr != nil {
			field = verr.Field
		}
		response.Error(w, r, http.StatusBadRequest, field, err)
	case errors.Is(err, domain.ErrProductNotFound):
		response.Error(w, r, http.StatusNotFound, "", err)
	default:
		response.Error(w, r, http.StatusInternalServerError, "", err)
	}
}

// CreateProduct handles POST /api/productos
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodePayload(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, product)
}

// GetProduct handles GET /api/productos/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// ListProducts handles GET /api/productos
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// UpdateProduct handles PUT /api/productos/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, err := h.decodePayload(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/productos/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
