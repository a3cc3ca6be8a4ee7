package products

import (
	"context"
	"strings"
	"time"

	"vetadmin/internal/domain/catalog"
	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/collation"
	"vetadmin/internal/platform/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryLookup resuelve categorías de producto del catálogo.
type CategoryLookup interface {
	GetByID(ctx context.Context, kind catalog.Kind, id string) (catalog.Item, error)
}

type Service struct {
	repo       Repository
	categories CategoryLookup
	now        func() time.Time
}

func NewService(repo Repository, categories CategoryLookup) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		now:        time.Now,
	}
}

type CreateInput struct {
	Name       string
	Stock      int
	UnitPrice  decimal.Decimal
	Category   string
	CategoryID string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Product{}, apperr.Invalid("name is required")
	}
	if in.Stock < 0 {
		return Product{}, apperr.Invalid("stock must be >= 0")
	}
	if !money.Round(in.UnitPrice).IsPositive() {
		return Product{}, apperr.Invalid("unit_price must be > 0")
	}
	category, categoryID, err := s.resolveCategory(ctx, in.Category, in.CategoryID)
	if err != nil {
		return Product{}, err
	}

	now := s.now()
	p := Product{
		ID:         uuid.NewString(),
		Name:       name,
		Stock:      in.Stock,
		UnitPrice:  money.Round(in.UnitPrice),
		Category:   category,
		CategoryID: categoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

// UpdateInput no incluye stock: se mueve solo con ventas o Restock.
type UpdateInput struct {
	Name       *string
	UnitPrice  *decimal.Decimal
	Category   *string
	CategoryID *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Product, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Product{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Product{}, apperr.Invalid("name cannot be empty")
		}
		p.Name = name
	}
	if in.UnitPrice != nil {
		if !money.Round(*in.UnitPrice).IsPositive() {
			return Product{}, apperr.Invalid("unit_price must be > 0")
		}
		p.UnitPrice = money.Round(*in.UnitPrice)
	}
	if in.Category != nil || in.CategoryID != nil {
		catName, catID := p.Category, p.CategoryID
		if in.Category != nil {
			catName = *in.Category
		}
		if in.CategoryID != nil {
			catID = *in.CategoryID
		}
		p.Category, p.CategoryID, err = s.resolveCategory(ctx, catName, catID)
		if err != nil {
			return Product{}, err
		}
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

// resolveCategory: si viene CategoryID, el nombre se toma del catálogo.
func (s *Service) resolveCategory(ctx context.Context, name, id string) (string, string, error) {
	name, id = strings.TrimSpace(name), strings.TrimSpace(id)
	if id == "" {
		return name, "", nil
	}
	c, err := s.categories.GetByID(ctx, catalog.KindProductCategory, id)
	if err != nil {
		return "", "", err
	}
	return c.Name, c.ID, nil
}

// Restock suma qty unidades (reposición manual).
func (s *Service) Restock(ctx context.Context, id string, qty int) (Product, error) {
	if qty <= 0 {
		return Product{}, apperr.Invalid("quantity must be > 0")
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return Product{}, err
	}
	return s.repo.AdjustStock(ctx, strings.TrimSpace(id), qty, s.now())
}

// Decrement descuenta qty unidades; lo usa el registro de ventas.
func (s *Service) Decrement(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return apperr.Invalid("quantity must be > 0")
	}
	_, err := s.repo.AdjustStock(ctx, strings.TrimSpace(id), -qty, s.now())
	return err
}

func (s *Service) GetByID(ctx context.Context, id string) (Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Product{}, apperr.Invalid("product id is required")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	collation.SortBy(items, func(p Product) string { return p.Name })
	return items, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}
