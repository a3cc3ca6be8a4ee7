package events

import (
	"context"
	"strings"
	"time"

	"vetadmin/internal/domain/catalog"
	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/logger"

	"github.com/google/uuid"
)

const DefaultMaxAttachmentBytes = 5 << 20

// PetChecker valida que la mascota exista.
type PetChecker interface {
	Exists(ctx context.Context, petID string) error
}

// CatalogNames resuelve nombres de enfermedades y cirugías.
type CatalogNames interface {
	Name(ctx context.Context, kind catalog.Kind, id string) (string, error)
}

type Service struct {
	repo    Repository
	records RecordRepository
	pets    PetChecker
	names   CatalogNames

	maxAttachmentBytes int64
	log                logger.Logger
	now                func() time.Time
}

func NewService(repo Repository, records RecordRepository, pets PetChecker, names CatalogNames) *Service {
	return &Service{
		repo:               repo,
		records:            records,
		pets:               pets,
		names:              names,
		maxAttachmentBytes: DefaultMaxAttachmentBytes,
		log:                logger.Nop(),
		now:                time.Now,
	}
}

func (s *Service) SetLogger(l logger.Logger) { s.log = l.With(map[string]any{"module": "history"}) }

func (s *Service) SetMaxAttachmentBytes(n int64) {
	if n > 0 {
		s.maxAttachmentBytes = n
	}
}

type AttachmentInput struct {
	Name     string
	MimeType string
	Data     string
	Size     int64
}

type AddInput struct {
	PetID       string
	Type        EventType
	Description string
	ReferenceID string     // opcional
	At          *time.Time // opcional; default ahora
	Attachments []AttachmentInput
}

func (s *Service) AddEvent(ctx context.Context, in AddInput) (Event, error) {
	petID := strings.TrimSpace(in.PetID)
	if petID == "" {
		return Event{}, apperr.Invalid("pet_id is required")
	}
	if !in.Type.Valid() {
		return Event{}, apperr.Invalid("unknown event type " + string(in.Type))
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return Event{}, apperr.Invalid("description is required")
	}
	attachments, err := s.buildAttachments(in.Attachments)
	if err != nil {
		return Event{}, err
	}
	if err := s.pets.Exists(ctx, petID); err != nil {
		return Event{}, err
	}

	now := s.now()
	at := now
	if in.At != nil && !in.At.IsZero() {
		at = *in.At
	}

	e := Event{
		ID:          uuid.NewString(),
		PetID:       petID,
		Type:        in.Type,
		OccurredAt:  at,
		Description: desc,
		ReferenceID: optional(in.ReferenceID),
		Attachments: attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *Service) buildAttachments(in []AttachmentInput) ([]Attachment, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]Attachment, 0, len(in))
	for _, a := range in {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return nil, apperr.Invalid("attachment name is required")
		}
		// el tamaño es el del payload guardado; el declarado por el cliente se ignora
		size := int64(len(a.Data))
		if size > s.maxAttachmentBytes {
			return nil, apperr.Invalid("attachment " + name + " exceeds the size limit")
		}
		out = append(out, Attachment{
			ID:       uuid.NewString(),
			Name:     name,
			MimeType: strings.TrimSpace(a.MimeType),
			Data:     a.Data,
			Size:     size,
		})
	}
	return out, nil
}

// UpdateInput: nil = no tocar. Attachments no nil reemplaza la lista completa.
type UpdateInput struct {
	OccurredAt  *time.Time
	Description *string
	Attachments *[]AttachmentInput
}

func (s *Service) UpdateEvent(ctx context.Context, petID, id string, in UpdateInput) (Event, error) {
	e, err := s.getForPet(ctx, petID, id)
	if err != nil {
		return Event{}, err
	}

	if in.OccurredAt != nil {
		if in.OccurredAt.IsZero() {
			return Event{}, apperr.Invalid("occurred_at cannot be empty")
		}
		e.OccurredAt = *in.OccurredAt
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if desc == "" {
			return Event{}, apperr.Invalid("description cannot be empty")
		}
		e.Description = desc
	}
	if in.Attachments != nil {
		attachments, err := s.buildAttachments(*in.Attachments)
		if err != nil {
			return Event{}, err
		}
		e.Attachments = attachments
	}
	e.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *Service) DeleteEvent(ctx context.Context, petID, id string) error {
	e, err := s.getForPet(ctx, petID, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, e.ID)
}

// getForPet trata un evento de otra mascota como inexistente.
func (s *Service) getForPet(ctx context.Context, petID, id string) (Event, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if e.PetID != strings.TrimSpace(petID) {
		return Event{}, apperr.NotFound("history event", id)
	}
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, apperr.Invalid("event id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// ListByPet devuelve la historia del más reciente al más antiguo.
func (s *Service) ListByPet(ctx context.Context, petID string, filter ListFilter) ([]Event, error) {
	petID = strings.TrimSpace(petID)
	if err := s.pets.Exists(ctx, petID); err != nil {
		return nil, err
	}
	for _, t := range filter.Types {
		if !t.Valid() {
			return nil, apperr.Invalid("unknown event type " + string(t))
		}
	}
	return s.repo.ListByPet(ctx, petID, filter)
}

// DeleteByPet borra historia y registros de la mascota (cascada de borrado).
func (s *Service) DeleteByPet(ctx context.Context, petID string) error {
	if _, err := s.repo.DeleteByPet(ctx, petID); err != nil {
		return err
	}
	if _, err := s.records.DeleteDiseasesByPet(ctx, petID); err != nil {
		return err
	}
	_, err := s.records.DeleteSurgeriesByPet(ctx, petID)
	return err
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
