package server

import (
	"quadside/internal/models"
	"quadside/internal/repository"
	"quadside/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateProduct handles POST /api/products
func (s *Server) CreateProduct(c *fiber.Ctx) error {
	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		PriceCents  int      `json:"price_cents"`
		Category    string   `json:"category"`
		Condition   string   `json:"condition"`
		Campus      string   `json:"campus"`
		PhotoURLs   []string `json:"photo_urls"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	product, err := s.productService.CreateProduct(c.Context(), service.CreateProductInput{
		UserID:      currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Category:    req.Category,
		Condition:   req.Condition,
		Campus:      req.Campus,
		PhotoURLs:   req.PhotoURLs,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// GetProducts handles GET /api/products with filter query parameters.
func (s *Server) GetProducts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	filter := repository.ProductFilter{
		Category:      c.Query("category"),
		Campus:        c.Query("campus"),
		MinPriceCents: c.QueryInt("min_price", 0),
		MaxPriceCents: c.QueryInt("max_price", 0),
		Query:         c.Query("q"),
		IncludeSold:   c.QueryBool("include_sold", false),
	}

	products, err := s.productService.ListProducts(c.Context(), filter, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"products": products})
}

// GetProduct handles GET /api/products/:id
func (s *Server) GetProduct(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	product, err := s.productService.GetProduct(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(product)
}

// UpdateProduct handles PUT /api/products/:id
func (s *Server) UpdateProduct(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		PriceCents  *int     `json:"price_cents"`
		Category    string   `json:"category"`
		Condition   string   `json:"condition"`
		PhotoURLs   []string `json:"photo_urls"`
		Sold        *bool    `json:"sold"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	product, err := s.productService.UpdateProduct(c.Context(), service.UpdateProductInput{
		UserID:      currentUserID(c),
		ProductID:   id,
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Category:    req.Category,
		Condition:   req.Condition,
		PhotoURLs:   req.PhotoURLs,
		Sold:        req.Sold,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(product)
}

// MarkProductSold handles POST /api/products/:id/sold
func (s *Server) MarkProductSold(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	product, err := s.productService.MarkSold(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"success": true, "product": product})
}

// DeleteProduct handles DELETE /api/products/:id
func (s *Server) DeleteProduct(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.productService.DeleteProduct(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"success": true})
}
