// Package client talks to the remote productos API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/mrops-br/inventario-console/internal/app/dto"
	"github.com/mrops-br/inventario-console/internal/domain"
	"github.com/mrops-br/inventario-console/internal/infrastructure/config"
	"github.com/mrops-br/inventario-console/internal/infrastructure/http/response"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const maxErrorBody = 4 << 10

// ProductosClient implements domain.ProductGateway over HTTP. It holds no state
// besides its configuration and never retries.
type ProductosClient struct {
	baseURL  string
	http     *http.Client
	tracer   trace.Tracer
	logger   *slog.Logger
	requests metric.Int64Counter
}

var _ domain.ProductGateway = (*ProductosClient)(nil)

// NewProductosClient creates a client for the collection at cfg.BaseURL
func NewProductosClient(
	cfg *config.ClientConfig,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) (*ProductosClient, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid productos base url %q", cfg.BaseURL)
	}

	requests, _ := meter.Int64Counter(
		"inventory.client.requests",
		metric.WithDescription("Total number of requests sent to the productos API"),
	)

	return &ProductosClient{
		baseURL: strings.TrimRight(u.String(), "/"),
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tracer:   tracer,
		logger:   logger,
		requests: requests,
	}, nil
}

// ListAll handles GET /
func (c *ProductosClient) ListAll(ctx context.Context) ([]domain.Product, error) {
	var out []dto.ProductResponse
	if err := c.do(ctx, "list", http.MethodGet, c.baseURL, nil, &out); err != nil {
		return nil, err
	}
	return dto.ToProducts(out), nil
}

// Create handles POST /
func (c *ProductosClient) Create(ctx context.Context, draft domain.Draft) (domain.Product, error) {
	var out dto.ProductResponse
	if err := c.do(ctx, "create", http.MethodPost, c.baseURL, dto.NewProductPayload(draft), &out); err != nil {
		return domain.Product{}, err
	}
	return out.ToProduct(), nil
}

// Update handles PUT /{id}
func (c *ProductosClient) Update(ctx context.Context, id string, draft domain.Draft) (domain.Product, error) {
	var out dto.ProductResponse
	if err := c.do(ctx, "update", http.MethodPut, c.itemURL(id), dto.NewProductPayload(draft), &out); err != nil {
		return domain.Product{}, err
	}
	return out.ToProduct(), nil
}

// Remove handles DELETE /{id}
func (c *ProductosClient) Remove(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *ProductosClient) itemURL(id string) string {
	return c.baseURL + "/" + url.PathEscape(id)
}

// do performs one request. Every failure comes back as *domain.TransportError.
func (c *ProductosClient) do(ctx context.Context, op, method, target string, body, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "ProductosClient."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	requestID := uuid.NewString()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.full", target),
		attribute.String("request.id", requestID),
	)

	status := 0
	defer func() {
		result := "success"
		if err != nil {
			result = "failure"
			span.RecordError(err)
			span.SetStatus(codes.Error, "Request to productos API failed")
			c.logger.ErrorContext(ctx, "Productos API request failed",
				slog.String("operation", op),
				slog.String("request_id", requestID),
				slog.Int("status", status),
				slog.String("error", err.Error()),
			)
		} else {
			span.SetStatus(codes.Ok, "Request completed")
		}
		c.requests.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("operation", op),
				attribute.String("result", result),
			),
		)
	}()

	var reader io.Reader
	if body != nil {
		data, mErr := json.Marshal(body)
		if mErr != nil {
			return &domain.TransportError{Op: op, Err: fmt.Errorf("failed to encode request: %w", mErr)}
		}
		reader = bytes.NewReader(data)
	}

	req, rErr := http.NewRequestWithContext(ctx, method, target, reader)
	if rErr != nil {
		return &domain.TransportError{Op: op, Err: rErr}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.DebugContext(ctx, "Sending request to productos API",
		slog.String("operation", op),
		slog.String("method", method),
		slog.String("url", target),
		slog.String("request_id", requestID),
	)

	resp, dErr := c.http.Do(req)
	if dErr != nil {
		return &domain.TransportError{Op: op, Err: dErr}
	}
	defer resp.Body.Close()

	status = resp.StatusCode
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	if status < 200 || status > 299 {
		return &domain.TransportError{Op: op, StatusCode: status, Err: readErrorBody(resp)}
	}

	// A 2xx without a body still counts as success; out is left zero-valued.
	if out == nil || status == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &domain.TransportError{Op: op, StatusCode: status, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func readErrorBody(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var eb response.ErrorBody
	if json.Unmarshal(data, &eb) == nil && eb.Message != "" {
		return errors.New(eb.Message)
	}
	if text := strings.TrimSpace(string(data)); text != "" {
		return errors.New(text)
	}
	return errors.New(http.StatusText(resp.StatusCode))
}
