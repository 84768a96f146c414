package services

import (
	"fmt"
	"log"
	"mime/multipart"

	"catalog/internal/models"
	"catalog/internal/repositories"
)

// AssetStore abstracts where uploaded product images live.
type AssetStore interface {
	Save(file *multipart.FileHeader) (string, error)
	Remove(path string) error
}

// EventPublisher publishes product lifecycle events to the message broker.
type EventPublisher interface {
	PublishProductEvent(event string, payload map[string]interface{}) error
}

// CreateProductInput carries the fields accepted by CreateProduct. Required
// fields are validated at the handler boundary before the service is reached.
// A nil InStock means "unspecified" and defaults to true.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	InStock     *bool
	Image       string
}

// UpdateProductInput carries the fields accepted by UpdateProduct. Strings are
// applied when non-empty; pointer fields are applied when non-nil, so an
// explicit inStock=false still updates. Image, when set, is an uploaded file
// that supersedes the product's current image asset.
type UpdateProductInput struct {
	Name        string
	Description string
	Price       *float64
	Category    string
	InStock     *bool
	Image       *multipart.FileHeader
}

// ProductService handles business logic related to products: record
// persistence, image asset lifecycle, and event publishing.
type ProductService struct {
	repo   repositories.ProductRepository
	assets AssetStore
	events EventPublisher
}

// NewProductService creates a new ProductService. events may be nil, which
// disables event publishing.
func NewProductService(repo repositories.ProductRepository, assets AssetStore, events EventPublisher) *ProductService {
	return &ProductService{
		repo:   repo,
		assets: assets,
		events: events,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct persists a new product. No file upload is accepted here;
// input.Image, when present, is taken verbatim (expected to be a URL).
func (s *ProductService) CreateProduct(input CreateProductInput) (*models.Product, error) {
	inStock := true
	if input.InStock != nil {
		inStock = *input.InStock
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		InStock:     inStock,
		Image:       input.Image,
	}

	if err := s.repo.Create(product); err != nil {
		return nil, err
	}

	s.publishEvent("product.created", product)
	return product, nil
}

// UpdateProduct applies merge-if-present semantics to the stored product and
// persists the result. When a new image upload is present, the prior asset is
// removed before the new one is stored; a removal failure (including a prior
// Image value that is a URL rather than a local file) aborts the update.
func (s *ProductService) UpdateProduct(id string, input UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Category != "" {
		product.Category = input.Category
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}

	if input.Image != nil {
		if product.Image != "" {
			if err := s.assets.Remove(product.Image); err != nil {
				return nil, fmt.Errorf("failed to remove previous image for product %s: %w", id, err)
			}
		}
		path, err := s.assets.Save(input.Image)
		if err != nil {
			return nil, fmt.Errorf("failed to store uploaded image for product %s: %w", id, err)
		}
		product.Image = path
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}

	s.publishEvent("product.updated", product)
	return product, nil
}

// DeleteProduct removes the product record and, best effort, its image asset.
// An asset removal failure is logged and swallowed so the record deletion
// still goes through.
func (s *ProductService) DeleteProduct(id string) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if product.Image != "" {
		if err := s.assets.Remove(product.Image); err != nil {
			log.Printf("Failed to delete image for product %s: %v", id, err)
		}
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.publishEvent("product.deleted", product)
	return nil
}

// publishEvent sends a product lifecycle event to the broker, if one is
// configured. Publish failures are warnings, never request failures.
func (s *ProductService) publishEvent(event string, product *models.Product) {
	if s.events == nil {
		return
	}

	payload := map[string]interface{}{
		"productId": product.ID,
		"name":      product.Name,
		"category":  product.Category,
		"price":     product.Price,
		"inStock":   product.InStock,
	}
	if err := s.events.PublishProductEvent(event, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %s: %v", event, product.ID, err)
	}
}
