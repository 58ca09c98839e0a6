package services

import (
	"context"
	"errors"
	"log"

	"quickpaisa-backend/internal/adapters/persistence/models"
	"quickpaisa-backend/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Product errors
var (
	ErrProductCodeTaken   = errors.New("product code already exists")
	ErrInvalidProductTerm = errors.New("invalid product terms")
)

// ProductService manages the loan product master data
type ProductService struct {
	productRepo repositories.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repositories.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ProductInput represents loan product create/update input
type ProductInput struct {
	Code         string  `json:"code" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Description  string  `json:"description"`
	MinAmount    float64 `json:"min_amount" validate:"required,gt=0"`
	MaxAmount    float64 `json:"max_amount" validate:"required,gt=0"`
	InterestRate float64 `json:"interest_rate" validate:"required,gt=0"`
	TenureDays   int     `json:"tenure_days" validate:"required,gt=0"`
	Installments int     `json:"installments" validate:"required,gt=0"`
	IsActive     *bool   `json:"is_active"`
}

func validateProductTerms(input *ProductInput) error {
	if input.MinAmount <= 0 || input.MaxAmount < input.MinAmount {
		return ErrInvalidProductTerm
	}
	if input.TenureDays <= 0 || input.Installments <= 0 || input.Installments > input.TenureDays {
		return ErrInvalidProductTerm
	}
	if input.InterestRate < 0 {
		return ErrInvalidProductTerm
	}
	return nil
}

// Create creates a new loan product
func (s *ProductService) Create(ctx context.Context, input *ProductInput) (*models.LoanProduct, error) {
	if err := validateProductTerms(input); err != nil {
		return nil, err
	}

	if _, err := s.productRepo.GetByCode(ctx, input.Code); err == nil {
		return nil, ErrProductCodeTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	product := &models.LoanProduct{
		Code:         input.Code,
		Name:         input.Name,
		Description:  input.Description,
		MinAmount:    input.MinAmount,
		MaxAmount:    input.MaxAmount,
		InterestRate: input.InterestRate,
		TenureDays:   input.TenureDays,
		Installments: input.Installments,
		IsActive:     true,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	log.Printf("✅ Loan product created: %s (%s)", product.Name, product.Code)
	return product, nil
}

// GetByID gets a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uint) (*models.LoanProduct, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// Update updates a loan product
func (s *ProductService) Update(ctx context.Context, id uint, input *ProductInput) (*models.LoanProduct, error) {
	if err := validateProductTerms(input); err != nil {
		return nil, err
	}

	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.MinAmount = input.MinAmount
	product.MaxAmount = input.MaxAmount
	product.InterestRate = input.InterestRate
	product.TenureDays = input.TenureDays
	product.Installments = input.Installments
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete soft deletes a loan product
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// List lists loan products
func (s *ProductService) List(ctx context.Context, activeOnly bool) ([]*models.LoanProduct, error) {
	return s.productRepo.List(ctx, activeOnly)
}
