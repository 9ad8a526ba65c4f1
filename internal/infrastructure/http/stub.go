package http

import (
	"context"

	"github.com/mrops-br/inventario-console/internal/app/service"
	"github.com/mrops-br/inventario-console/internal/infrastructure/config"
	"github.com/mrops-br/inventario-console/internal/infrastructure/http/contract"
	"github.com/mrops-br/inventario-console/internal/infrastructure/http/handler"
	"github.com/mrops-br/inventario-console/internal/infrastructure/repository/memory"
	"github.com/mrops-br/inventario-console/internal/infrastructure/telemetry"
)

// NewStubServer wires the in-memory productos API: repository, service, contract validation and routes.
func NewStubServer(ctx context.Context, cfg *config.ServerConfig, telem *telemetry.Telemetry) (*Server, error) {
	tracer := telem.TracerProvider.Tracer("productos-stub")
	meter := telem.MeterProvider.Meter("productos-stub")
	logger := telem.Logger

	validator, err := contract.Load(ctx)
	if err != nil {
		return nil, err
	}

	// Initialize repository (dependency injection)
	repo := memory.NewProductRepository(tracer, logger)

	productService := service.NewProductService(repo, tracer, meter, logger)
	productHandler := handler.NewProductHandler(productService, validator, logger)

	return NewServer(cfg, productHandler, logger, telem), nil
}
