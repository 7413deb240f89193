package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/pestcrm/internal/client/client"
	"github.com/dmitrijs2005/pestcrm/internal/client/models"
)

var ErrEmptyID = errors.New("id is empty")

type ProductService interface {
	List(ctx context.Context, category string) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, p models.Product) (*models.Product, error)
	Update(ctx context.Context, id string, p models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, c models.Category) (*models.Category, error)
	Update(ctx context.Context, id string, c models.Category) (*models.Category, error)
	Delete(ctx context.Context, id string) error
}

// PublicService covers the unauthenticated storefront endpoints.
type PublicService interface {
	Catalog(ctx context.Context, category string) ([]models.Product, error)
	Categories(ctx context.Context) ([]models.Category, error)
	SubmitEnquiry(ctx context.Context, e models.Enquiry) error
}

func itemPath(base, id string) (string, error) {
	if id == "" {
		return "", ErrEmptyID
	}
	return base + "/" + url.PathEscape(id), nil
}

func categoryQuery(category string) []client.RequestOption {
	if category == "" {
		return nil
	}
	return []client.RequestOption{client.Query("category", category)}
}

type productService struct {
	client client.Client
}

func NewProductService(c client.Client) ProductService {
	return &productService{client: c}
}

func (s *productService) List(ctx context.Context, category string) ([]models.Product, error) {
	var out []models.Product
	opts := append(categoryQuery(category), client.Op("ListProducts"))
	if err := s.client.Do(ctx, http.MethodGet, "/products", nil, &out, opts...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (s *productService) Get(ctx context.Context, id string) (*models.Product, error) {
	path, err := itemPath("/products", id)
	if err != nil {
		return nil, err
	}
	var p models.Product
	if err := s.client.Do(ctx, http.MethodGet, path, nil, &p, client.Op("GetProduct")); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (s *productService) Create(ctx context.Context, p models.Product) (*models.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var out models.Product
	if err := s.client.Do(ctx, http.MethodPost, "/products", p, &out, client.Op("CreateProduct")); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &out, nil
}

func (s *productService) Update(ctx context.Context, id string, p models.Product) (*models.Product, error) {
	path, err := itemPath("/products", id)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var out models.Product
	if err := s.client.Do(ctx, http.MethodPut, path, p, &out, client.Op("UpdateProduct")); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &out, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	path, err := itemPath("/products", id)
	if err != nil {
		return err
	}
	if err := s.client.Do(ctx, http.MethodDelete, path, nil, nil, client.Op("DeleteProduct")); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

type categoryService struct {
	client client.Client
}

func NewCategoryService(c client.Client) CategoryService {
	return &categoryService{client: c}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := s.client.Do(ctx, http.MethodGet, "/categories", nil, &out, client.Op("ListCategories")); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (s *categoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	path, err := itemPath("/categories", id)
	if err != nil {
		return nil, err
	}
	var c models.Category
	if err := s.client.Do(ctx, http.MethodGet, path, nil, &c, client.Op("GetCategory")); err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (s *categoryService) Create(ctx context.Context, c models.Category) (*models.Category, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var out models.Category
	if err := s.client.Do(ctx, http.MethodPost, "/categories", c, &out, client.Op("CreateCategory")); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &out, nil
}

func (s *categoryService) Update(ctx context.Context, id string, c models.Category) (*models.Category, error) {
	path, err := itemPath("/categories", id)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var out models.Category
	if err := s.client.Do(ctx, http.MethodPut, path, c, &out, client.Op("UpdateCategory")); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return &out, nil
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	path, err := itemPath("/categories", id)
	if err != nil {
		return err
	}
	if err := s.client.Do(ctx, http.MethodDelete, path, nil, nil, client.Op("DeleteCategory")); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

type publicService struct {
	client client.Client
}

func NewPublicService(c client.Client) PublicService {
	return &publicService{client: c}
}

func (s *publicService) Catalog(ctx context.Context, category string) ([]models.Product, error) {
	var out []models.Product
	opts := append(categoryQuery(category), client.Anonymous(), client.Op("Catalog"))
	if err := s.client.Do(ctx, http.MethodGet, "/public/products", nil, &out, opts...); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return out, nil
}

func (s *publicService) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := s.client.Do(ctx, http.MethodGet, "/public/categories", nil, &out,
		client.Anonymous(), client.Op("PublicCategories"))
	if err != nil {
		return nil, fmt.Errorf("public categories: %w", err)
	}
	return out, nil
}

func (s *publicService) SubmitEnquiry(ctx context.Context, e models.Enquiry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	err := s.client.Do(ctx, http.MethodPost, "/public/enquiries", e, nil,
		client.Anonymous(), client.Op("SubmitEnquiry"))
	if err != nil {
		return fmt.Errorf("submit enquiry: %w", err)
	}
	return nil
}
