// Package service implements the productos API use cases served by the stub server.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mrops-br/inventario-console/internal/app/dto"
	"github.com/mrops-br/inventario-console/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ProductService handles product use cases
type ProductService struct {
	repo                  domain.ProductRepository
	tracer                trace.Tracer
	logger                *slog.Logger
	productCreatedCounter metric.Int64Counter
	productOperations     metric.Int64Counter
}

// NewProductService creates a new product service
func NewProductService(
	repo domain.ProductRepository,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ProductService {
	// Initialize metrics
	productCreatedCounter, _ := meter.Int64Counter(
		"products.created.total",
		metric.WithDescription("Total number of products created"),
	)

	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	return &ProductService{
		repo:                  repo,
		tracer:                tracer,
		logger:                logger,
		productCreatedCounter: productCreatedCounter,
		productOperations:     productOperations,
	}
}

func (s *ProductService) count(ctx context.Context, operation, result string) {
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

// fail records err on the span and counts the operation.
// Not-found is reported as such; anything else as a failure.
func (s *ProductService) fail(ctx context.Context, span trace.Span, operation, msg string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)

	result := "failure"
	if errors.Is(err, domain.ErrProductNotFound) {
		result = "not_found"
		s.logger.WarnContext(ctx, msg, slog.String("error", err.Error()))
	} else {
		s.logger.ErrorContext(ctx, msg, slog.String("error", err.Error()))
	}
	s.count(ctx, operation, result)
	return err
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, req *dto.ProductPayload) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.CreateProduct")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.name", req.Nombre),
		attribute.String("product.price", string(req.Precio)),
	)

	s.logger.InfoContext(ctx, "Creating product",
		slog.String("name", req.Nombre),
		slog.String("price", string(req.Precio)),
	)

	// Create domain entity
	product, err := domain.NewProduct(req.ToDraft())
	if err != nil {
		return nil, s.fail(ctx, span, "create", "Validation failed", err)
	}

	span.SetAttributes(attribute.String("product.id", product.ID))

	// Store in repository
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, s.fail(ctx, span, "create", "Failed to store product", err)
	}

	// Record metrics
	s.productCreatedCounter.Add(ctx, 1)
	s.count(ctx, "create", "success")

	s.logger.InfoContext(ctx, "Product created successfully",
		slog.String("product_id", product.ID),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return dto.ToProductResponse(product), nil
}

// GetProductByID retrieves a product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProductByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "read", "Product not found", err)
	}

	s.count(ctx, "read", "success")
	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return dto.ToProductResponse(product), nil
}

// ListProducts retrieves all products
func (s *ProductService) ListProducts(ctx context.Context) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ListProducts")
	defer span.End()

	s.logger.InfoContext(ctx, "Listing all products")

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "list", "Failed to retrieve products", err)
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.count(ctx, "list", "success")

	s.logger.InfoContext(ctx, "Products listed successfully",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products listed successfully")
	return dto.ToProductResponseList(products), nil
}

// UpdateProduct replaces the editable fields of an existing product
func (s *ProductService) UpdateProduct(ctx context.Context, id string, req *dto.ProductPayload) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.UpdateProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	draft := req.ToDraft()
	if err := draft.Validate(); err != nil {
		return nil, s.fail(ctx, span, "update", "Validation failed", err)
	}

	price, _ := domain.ParsePrice(draft.Price)
	product := &domain.Product{
		ID:          id,
		Name:        strings.TrimSpace(draft.Name),
		Price:       domain.FormatPrice(price),
		Description: draft.Description,
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, s.fail(ctx, span, "update", "Failed to update product", err)
	}

	s.count(ctx, "update", "success")
	s.logger.InfoContext(ctx, "Product updated successfully",
		slog.String("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product updated successfully")
	return dto.ToProductResponse(product), nil
}

// DeleteProduct removes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.DeleteProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, span, "delete", "Failed to delete product", err)
	}

	s.count(ctx, "delete", "success")
	s.logger.InfoContext(ctx, "Product deleted successfully",
		slog.String("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product deleted successfully")
	return nil
}
