package repositories

import (
	"errors"

	"catalog/internal/models"
)

// ErrProductNotFound is returned (wrapped) by every repository implementation
// when no product exists for the given ID. Callers match it with errors.Is.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
