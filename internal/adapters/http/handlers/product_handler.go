package handlers

import (
	"errors"

	"quickpaisa-backend/internal/core/services"
	"quickpaisa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles loan product master endpoints
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing loan products
// @Summary List loan products
// @Description List loan products; pass active=true to filter
// @Tags Products
// @Produce json
// @Param active query bool false "Active only"
// @Success 200 {object} response.Response
// @Router /products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active", false)

	products, err := h.productService.List(c.Context(), activeOnly)
	if err != nil {
		return response.InternalServerError(c, "Failed to list products")
	}

	return response.Success(c, "Products retrieved successfully", products)
}

// Get handles getting one loan product
// @Summary Get loan product
// @Description Get a loan product by ID
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid product ID")
	}

	product, err := h.productService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return response.NotFound(c, "Product not found")
		}
		return response.InternalServerError(c, "Failed to get product")
	}

	return response.Success(c, "Product retrieved successfully", product)
}

// Create handles creating a loan product
// @Summary Create loan product
// @Description Create a new loan product (admin only)
// @Tags Products
// @Accept json
// @Produce json
// @Param body body services.ProductInput true "Product data"
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var input services.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Code == "" || input.Name == "" {
		return response.BadRequest(c, "Product code and name are required")
	}

	product, err := h.productService.Create(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductCodeTaken):
			return response.Conflict(c, "Product code already exists")
		case errors.Is(err, services.ErrInvalidProductTerm):
			return response.BadRequest(c, "Invalid product terms")
		default:
			return response.InternalServerError(c, "Failed to create product")
		}
	}

	return response.Created(c, "Product created successfully", product)
}

// Update handles updating a loan product
// @Summary Update loan product
// @Description Update a loan product (admin only)
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param body body services.ProductInput true "Product data"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid product ID")
	}

	var input services.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	product, err := h.productService.Update(c.Context(), id, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			return response.NotFound(c, "Product not found")
		case errors.Is(err, services.ErrInvalidProductTerm):
			return response.BadRequest(c, "Invalid product terms")
		default:
			return response.InternalServerError(c, "Failed to update product")
		}
	}

	return response.Success(c, "Product updated successfully", product)
}

// Delete handles deleting a loan product
// @Summary Delete loan product
// @Description Soft delete a loan product (admin only)
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid product ID")
	}

	if err := h.productService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return response.NotFound(c, "Product not found")
		}
		return response.InternalServerError(c, "Failed to delete product")
	}

	return response.Success(c, "Product deleted successfully", nil)
}
