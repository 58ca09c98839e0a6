package repositories

import (
	"context"

	"quickpaisa-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// productRepository implements ProductRepository interface
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new loan product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create creates a new loan product
func (r *productRepository) Create(ctx context.Context, product *models.LoanProduct) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// GetByID gets a loan product by ID
func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.LoanProduct, error) {
	var product models.LoanProduct
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByCode gets a loan product by code
func (r *productRepository) GetByCode(ctx context.Context, code string) (*models.LoanProduct, error) {
	var product models.LoanProduct
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Update updates a loan product
func (r *productRepository) Update(ctx context.Context, product *models.LoanProduct) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete soft deletes a loan product
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.LoanProduct{}, id).Error
}

// List lists loan products
func (r *productRepository) List(ctx context.Context, activeOnly bool) ([]*models.LoanProduct, error) {
	var products []*models.LoanProduct
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("min_amount ASC").Find(&products).Error
	return products, err
}
