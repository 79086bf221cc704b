package product

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"myapi/internal/pkg/errorsx"
	"myapi/internal/pkg/idempotency"
	"myapi/internal/pkg/server"
	"myapi/internal/service/auth"

	"github.com/labstack/echo/v4"
)

// HeaderIdempotentReplayed marks a response served from the idempotency store
const HeaderIdempotentReplayed = "Idempotent-Replayed"

// ProductHandler handles product HTTP requests
type ProductHandler struct {
	service     *ProductService
	idempotency *idempotency.Service
}

// NewProductHandler creates a new product handler; idem may be nil
func NewProductHandler(service *ProductService, idem *idempotency.Service) *ProductHandler {
	return &ProductHandler{
		service:     service,
		idempotency: idem,
	}
}

// List handles listing products, optionally filtered by ?q=
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.List(c.Request().Context(), ListFilter{Query: c.QueryParam("q")})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Get handles retrieving a product by ID
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	p, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Create handles product creation
func (h *ProductHandler) Create(c echo.Context) error {
	var dto CreateProductDTO
	if err := server.Bind(c, &dto); err != nil {
		return err
	}

	var createdBy *uint
	if identity, ok := auth.IdentityFrom(c.Request().Context()); ok {
		createdBy = &identity.UserID
	}

	ctx := c.Request().Context()
	key := c.Request().Header.Get(server.HeaderIdempotencyKey)
	if key == "" || h.idempotency == nil {
		p, err := h.service.Create(ctx, dto, createdBy)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, p)
	}

	fingerprint, err := idempotency.Fingerprint(dto)
	if err != nil {
		return err
	}
	req := idempotency.Request{
		Scope:       createScope(createdBy),
		Key:         key,
		Fingerprint: fingerprint,
	}

	p, replayed, err := idempotency.ExecuteTyped(ctx, h.idempotency, req, func(ctx context.Context) (*Product, error) {
		return h.service.Create(ctx, dto, createdBy)
	})
	if err != nil {
		return idempotencyError(err)
	}
	if replayed {
		c.Response().Header().Set(HeaderIdempotentReplayed, "true")
	}
	return c.JSON(http.StatusCreated, p)
}

// Update handles PUT and PATCH; both apply only the fields present
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	var dto UpdateProductDTO
	if err := server.Bind(c, &dto); err != nil {
		return err
	}
	if dto.Empty() {
		return errorsx.Validation("at least one field must be provided", nil)
	}

	p, err := h.service.Update(c.Request().Context(), id, dto)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles product deletion
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// productID parses the :id path parameter; ids that cannot exist are not found
func productID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errorsx.NotFound("product not found")
	}
	return uint(id), nil
}

func createScope(createdBy *uint) string {
	if createdBy == nil {
		return "products.create"
	}
	return "products.create:user:" + strconv.FormatUint(uint64(*createdBy), 10)
}

func idempotencyError(err error) error {
	switch {
	case errors.Is(err, idempotency.ErrAlreadyProcessing):
		return errorsx.Conflict("a request with this idempotency key is in progress", err)
	case errors.Is(err, idempotency.ErrKeyReused):
		return errorsx.Conflict("idempotency key was used with a different payload", err)
	default:
		return err
	}
}
