package catalog

import (
	"context"
	"strings"
	"time"

	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/collation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type Input struct {
	Name             string
	Description      string
	Species          Species
	EstimatedMinutes int
	EstimatedCost    *decimal.Decimal
	Active           *bool
}

func (s *Service) Create(ctx context.Context, kind Kind, in Input) (Item, error) {
	if !kind.Valid() {
		return Item{}, apperr.Invalid("unknown catalog " + string(kind))
	}

	now := s.now()
	it := Item{
		ID:        uuid.NewString(),
		Kind:      kind,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := apply(&it, in); err != nil {
		return Item{}, err
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
}

// Update reemplaza los campos editables (PUT).
func (s *Service) Update(ctx context.Context, kind Kind, id string, in Input) (Item, error) {
	it, err := s.GetByID(ctx, kind, id)
	if err != nil {
		return Item{}, err
	}
	if err := apply(&it, in); err != nil {
		return Item{}, err
	}
	it.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
}

func apply(it *Item, in Input) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperr.Invalid("name is required")
	}
	if in.Species != "" && !in.Species.Valid() {
		return apperr.Invalid("unknown species " + string(in.Species))
	}
	if it.Kind == KindBreed && in.Species == "" {
		return apperr.Invalid("breed species is required")
	}
	if in.EstimatedMinutes < 0 {
		return apperr.Invalid("estimated minutes must be >= 0")
	}
	if in.EstimatedCost != nil && in.EstimatedCost.IsNegative() {
		return apperr.Invalid("estimated cost must be >= 0")
	}

	it.Name = name
	it.Description = strings.TrimSpace(in.Description)
	it.Species = in.Species
	it.EstimatedMinutes = in.EstimatedMinutes
	it.EstimatedCost = in.EstimatedCost
	if in.Active != nil {
		it.Active = *in.Active
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, kind Kind, id string) error {
	if !kind.Valid() {
		return apperr.Invalid("unknown catalog " + string(kind))
	}
	return s.repo.Delete(ctx, kind, strings.TrimSpace(id))
}

func (s *Service) GetByID(ctx context.Context, kind Kind, id string) (Item, error) {
	if !kind.Valid() {
		return Item{}, apperr.Invalid("unknown catalog " + string(kind))
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Item{}, apperr.Invalid("id is required")
	}
	return s.repo.GetByID(ctx, kind, id)
}

// List devuelve el catálogo ordenado alfabéticamente (collation española).
func (s *Service) List(ctx context.Context, kind Kind) ([]Item, error) {
	if !kind.Valid() {
		return nil, apperr.Invalid("unknown catalog " + string(kind))
	}
	items, err := s.repo.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	collation.SortBy(items, func(it Item) string { return it.Name })
	return items, nil
}

// Name devuelve el nombre de la entrada; se usa para componer descripciones.
func (s *Service) Name(ctx context.Context, kind Kind, id string) (string, error) {
	it, err := s.GetByID(ctx, kind, id)
	if err != nil {
		return "", err
	}
	return it.Name, nil
}
