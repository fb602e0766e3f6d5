package repository

import (
	"context"
	"errors"

	"quadside/internal/cache"
	"quadside/internal/models"

	"gorm.io/gorm"
)

// ProductFilter narrows a listing query. Zero values mean "no filter".
type ProductFilter struct {
	Category      string
	Campus        string
	MinPriceCents int
	MaxPriceCents int
	Query         string
	IncludeSold   bool
}

// ProductRepository defines persistence operations for marketplace listings.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*models.Product, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository returns a new ProductRepository implementation.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.ProductsListKey)
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	key := cache.ProductKey(id)

	err := cache.Aside(ctx, key, &product, cache.ProductTTL, func() error {
		if err := r.db.WithContext(ctx).Preload("User").First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Product", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*models.Product, error) {
	var products []*models.Product
	q := r.db.WithContext(ctx).Preload("User")

	if !filter.IncludeSold {
		q = q.Where("sold = ?", false)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Campus != "" {
		q = q.Where("campus = ?", filter.Campus)
	}
	if filter.MinPriceCents > 0 {
		q = q.Where("price_cents >= ?", filter.MinPriceCents)
	}
	if filter.MaxPriceCents > 0 {
		q = q.Where("price_cents <= ?", filter.MaxPriceCents)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return products, nil
}

func (r *productRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Product, error) {
	var products []*models.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProduct(ctx, product.ID)
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Product{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProduct(ctx, id)
	return nil
}
