package clients

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/collation"

	"github.com/google/uuid"
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

type CreateInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Client, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Client{}, apperr.Invalid("name is required")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return Client{}, err
	}

	now := s.now()
	c := Client{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     strings.TrimSpace(in.Phone),
		Email:     email,
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

// UpdateInput: nil = no tocar.
type UpdateInput struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Client, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return Client{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Client{}, apperr.Invalid("name cannot be empty")
		}
		c.Name = name
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return Client{}, err
		}
		c.Email = email
	}
	if in.Address != nil {
		c.Address = strings.TrimSpace(*in.Address)
	}
	c.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

func normalizeEmail(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	addr, err := mail.ParseAddress(v)
	if err != nil {
		return "", apperr.Invalid("email is not valid")
	}
	return strings.ToLower(addr.Address), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Client, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Client{}, apperr.Invalid("client id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// List devuelve los clientes ordenados por nombre.
func (s *Service) List(ctx context.Context) ([]Client, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	collation.SortBy(items, func(c Client) string { return c.Name })
	return items, nil
}

// Delete borra solo el registro del cliente. La cascada (mascotas, turnos,
// ventas) la orquesta clinic.Store.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}
