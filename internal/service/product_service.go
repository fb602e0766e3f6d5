package service

import (
	"context"
	"strings"

	"quadside/internal/models"
	"quadside/internal/observability"
	"quadside/internal/repository"
	"quadside/internal/validation"
)

// ProductService manages marketplace listings.
type ProductService struct {
	productRepo repository.ProductRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

// CreateProductInput is the payload for creating a listing.
type CreateProductInput struct {
	UserID      uint
	Title       string   `json:"title" validate:"required,max=140"`
	Description string   `json:"description" validate:"max=5000"`
	PriceCents  int      `json:"price_cents" validate:"required,gt=0"`
	Category    string   `json:"category" validate:"required,max=60"`
	Condition   string   `json:"condition" validate:"omitempty,oneof=new like_new good fair"`
	Campus      string   `json:"campus" validate:"required,max=100"`
	PhotoURLs   []string `json:"photo_urls" validate:"max=10,dive,url"`
}

// UpdateProductInput carries partial updates; empty fields are left alone.
type UpdateProductInput struct {
	UserID      uint
	ProductID   uint
	Title       string
	Description string
	PriceCents  *int
	Category    string
	Condition   string
	PhotoURLs   []string
	Sold        *bool
}

// NewProductService creates a ProductService. isAdmin may be nil.
func NewProductService(
	productRepo repository.ProductRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *ProductService {
	return &ProductService{productRepo: productRepo, isAdmin: isAdmin}
}

func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if err := validation.ValidatePayload(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	product := &models.Product{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		PriceCents:  in.PriceCents,
		Category:    in.Category,
		Condition:   in.Condition,
		Campus:      in.Campus,
		PhotoURLs:   in.PhotoURLs,
		UserID:      in.UserID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	observability.ListingsCreated.Inc()
	return s.productRepo.GetByID(ctx, product.ID)
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*models.Product, error) {
	if filter.MinPriceCents > 0 && filter.MaxPriceCents > 0 && filter.MinPriceCents > filter.MaxPriceCents {
		return nil, models.NewValidationError("min_price cannot exceed max_price")
	}
	return s.productRepo.List(ctx, filter, limit, offset)
}

func (s *ProductService) GetUserProducts(ctx context.Context, userID uint, limit, offset int) ([]*models.Product, error) {
	return s.productRepo.GetByUserID(ctx, userID, limit, offset)
}

func (s *ProductService) UpdateProduct(ctx context.Context, in UpdateProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own listings")
	}

	if in.Title != "" {
		if len(in.Title) > 140 {
			return nil, models.NewValidationError("title must be at most 140 characters")
		}
		product.Title = strings.TrimSpace(in.Title)
	}
	if in.Description != "" {
		product.Description = strings.TrimSpace(in.Description)
	}
	if in.PriceCents != nil {
		if *in.PriceCents <= 0 {
			return nil, models.NewValidationError("price_cents must be greater than 0")
		}
		product.PriceCents = *in.PriceCents
	}
	if in.Category != "" {
		product.Category = in.Category
	}
	if in.Condition != "" {
		product.Condition = in.Condition
	}
	if in.PhotoURLs != nil {
		product.PhotoURLs = in.PhotoURLs
	}
	if in.Sold != nil {
		product.Sold = *in.Sold
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// MarkSold flips a listing to sold. Kept separate from UpdateProduct because
// the mobile clients call it as a one-tap action.
func (s *ProductService) MarkSold(ctx context.Context, userID, productID uint) (*models.Product, error) {
	sold := true
	return s.UpdateProduct(ctx, UpdateProductInput{
		UserID:    userID,
		ProductID: productID,
		Sold:      &sold,
	})
}

func (s *ProductService) DeleteProduct(ctx context.Context, userID, productID uint) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	if product.UserID != userID {
		if s.isAdmin == nil {
			return models.NewUnauthorizedError("You can only delete your own listings")
		}
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own listings")
		}
	}

	return s.productRepo.Delete(ctx, productID)
}
