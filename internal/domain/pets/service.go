package pets

import (
	"context"
	"strings"
	"time"

	"vetadmin/internal/domain/catalog"
	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/collation"

	"github.com/google/uuid"
)

// ClientChecker valida que el dueño exista.
type ClientChecker interface {
	Exists(ctx context.Context, clientID string) error
}

// BreedLookup resuelve razas del catálogo.
type BreedLookup interface {
	GetByID(ctx context.Context, kind catalog.Kind, id string) (catalog.Item, error)
}

type Service struct {
	repo    Repository
	clients ClientChecker
	breeds  BreedLookup
	now     func() time.Time
}

func NewService(repo Repository, clients ClientChecker, breeds BreedLookup) *Service {
	return &Service{
		repo:    repo,
		clients: clients,
		breeds:  breeds,
		now:     time.Now,
	}
}

type CreateInput struct {
	ClientID  string
	Name      string
	Species   catalog.Species
	BreedID   string
	Sex       Sex
	BirthDate *time.Time
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pet, error) {
	clientID := strings.TrimSpace(in.ClientID)
	if clientID == "" {
		return Pet{}, apperr.Invalid("client_id is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, apperr.Invalid("name is required")
	}
	if !in.Species.Valid() {
		return Pet{}, apperr.Invalid("species is not valid")
	}
	if in.Sex != "" && !in.Sex.Valid() {
		return Pet{}, apperr.Invalid("sex is not valid")
	}
	if err := s.clients.Exists(ctx, clientID); err != nil {
		return Pet{}, err
	}

	breedID := strings.TrimSpace(in.BreedID)
	if err := s.checkBreed(ctx, breedID, in.Species); err != nil {
		return Pet{}, err
	}
	if err := s.checkBirthDate(in.BirthDate); err != nil {
		return Pet{}, err
	}

	now := s.now()
	p := Pet{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Name:      strings.TrimSpace(in.Name),
		Species:   in.Species,
		BreedID:   breedID,
		Sex:       in.Sex,
		BirthDate: in.BirthDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// UpdateInput: nil = no tocar. BirthDate usa el wrapper Present para poder limpiarla.
type UpdateInput struct {
	ClientID  *string
	Name      *string
	Species   *catalog.Species
	BreedID   *string
	Sex       *Sex
	BirthDate PatchDate
}

type PatchDate struct {
	Present bool
	Value   *time.Time
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	if in.ClientID != nil {
		clientID := strings.TrimSpace(*in.ClientID)
		if err := s.clients.Exists(ctx, clientID); err != nil {
			return Pet{}, err
		}
		p.ClientID = clientID
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, apperr.Invalid("name cannot be empty")
		}
		p.Name = name
	}
	if in.Species != nil {
		if !in.Species.Valid() {
			return Pet{}, apperr.Invalid("species is not valid")
		}
		p.Species = *in.Species
	}
	if in.BreedID != nil {
		p.BreedID = strings.TrimSpace(*in.BreedID)
	}
	if in.Sex != nil {
		if *in.Sex != "" && !in.Sex.Valid() {
			return Pet{}, apperr.Invalid("sex is not valid")
		}
		p.Sex = *in.Sex
	}
	if in.BirthDate.Present {
		if err := s.checkBirthDate(in.BirthDate.Value); err != nil {
			return Pet{}, err
		}
		p.BirthDate = in.BirthDate.Value
	}

	// especie o raza pueden haber cambiado
	if err := s.checkBreed(ctx, p.BreedID, p.Species); err != nil {
		return Pet{}, err
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) checkBreed(ctx context.Context, breedID string, species catalog.Species) error {
	if breedID == "" {
		return nil
	}
	b, err := s.breeds.GetByID(ctx, catalog.KindBreed, breedID)
	if err != nil {
		return err
	}
	if b.Species != species {
		return apperr.Invalid("breed " + b.Name + " does not belong to species " + string(species))
	}
	return nil
}

func (s *Service) checkBirthDate(bd *time.Time) error {
	if bd != nil && bd.After(s.now()) {
		return apperr.Invalid("birth_date cannot be in the future")
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, apperr.Invalid("pet id is required")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Pet, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	collation.SortBy(items, func(p Pet) string { return p.Name })
	return items, nil
}

func (s *Service) ListByClient(ctx context.Context, clientID string) ([]Pet, error) {
	items, err := s.repo.ListByClient(ctx, strings.TrimSpace(clientID))
	if err != nil {
		return nil, err
	}
	collation.SortBy(items, func(p Pet) string { return p.Name })
	return items, nil
}

// Delete borra solo la ficha. La cascada la orquesta clinic.Store.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}
