package sales

import (
	"context"
	"errors"
	"strings"
	"time"

	"vetadmin/internal/domain/products"
	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/logger"
	"vetadmin/internal/platform/metrics"
	"vetadmin/internal/platform/money"
	"vetadmin/internal/platform/multistep"
	"vetadmin/internal/ports/notify"

	"github.com/google/uuid"
)

// ReferenceChecker valida que un cliente o mascota exista.
type ReferenceChecker interface {
	Exists(ctx context.Context, id string) error
}

// Inventory es lo que la venta necesita del módulo de productos.
type Inventory interface {
	GetByID(ctx context.Context, id string) (products.Product, error)
	Decrement(ctx context.Context, id string, qty int) error
}

type Service struct {
	repo      Repository
	payments  PaymentRepository
	clients   ReferenceChecker
	pets      ReferenceChecker
	inventory Inventory

	pub notify.Publisher
	log logger.Logger
	loc *time.Location
	now func() time.Time
}

func NewService(repo Repository, payments PaymentRepository, clients, pets ReferenceChecker, inventory Inventory) *Service {
	return &Service{
		repo:      repo,
		payments:  payments,
		clients:   clients,
		pets:      pets,
		inventory: inventory,
		pub:       notify.Noop{},
		log:       logger.Nop(),
		loc:       time.UTC,
		now:       time.Now,
	}
}

func (s *Service) SetPublisher(p notify.Publisher) { s.pub = p }
func (s *Service) SetLogger(l logger.Logger)       { s.log = l.With(map[string]any{"module": "sales"}) }

// SetLocation fija la zona horaria de la clínica para ListByDate.
func (s *Service) SetLocation(loc *time.Location) {
	if loc != nil {
		s.loc = loc
	}
}

type LineInput struct {
	ProductID string
	Quantity  int
}

type CreateInput struct {
	ClientID string
	PetID    string // opcional
	Lines    []LineInput
}

// CreateSale valida todo antes de escribir nada: cliente, mascota, productos
// y stock (sumando cantidades de un mismo producto repetido). Después persiste
// la venta en PENDING y descuenta stock producto por producto.
func (s *Service) CreateSale(ctx context.Context, in CreateInput) (Sale, error) {
	sale, requested, err := s.prepare(ctx, in)
	if err != nil {
		metrics.SalesRejected.WithLabelValues(rejectReason(err)).Inc()
		return Sale{}, err
	}

	op := multistep.New("sale.create")
	if err := op.Step(ctx, "insert_sale", func(ctx context.Context) error {
		return s.repo.Create(ctx, sale)
	}); err != nil {
		return Sale{}, err
	}

	for _, r := range requested {
		r := r
		if err := op.Step(ctx, "decrement_stock:"+r.productID, func(ctx context.Context) error {
			return s.inventory.Decrement(ctx, r.productID, r.quantity)
		}); err != nil {
			return Sale{}, multistep.Observe(s.log.With(map[string]any{"sale_id": sale.ID}), err)
		}
	}

	metrics.SalesCreated.Inc()
	_ = s.pub.Publish(ctx, notify.Event{
		Type:       notify.SaleCreated,
		EntityID:   sale.ID,
		OccurredAt: sale.SoldAt,
		Data: map[string]any{
			"total":     money.Format(sale.Total),
			"client_id": sale.ClientID,
			"lines":     len(sale.Lines),
		},
	})

	return sale, nil
}

type productRequest struct {
	productID string
	quantity  int
}

func (s *Service) prepare(ctx context.Context, in CreateInput) (Sale, []productRequest, error) {
	if len(in.Lines) == 0 {
		return Sale{}, nil, apperr.Invalid("a sale needs at least one line")
	}

	clientID := strings.TrimSpace(in.ClientID)
	if clientID == "" {
		return Sale{}, nil, apperr.Invalid("client_id is required")
	}
	if err := s.clients.Exists(ctx, clientID); err != nil {
		return Sale{}, nil, err
	}

	var petID *string
	if v := strings.TrimSpace(in.PetID); v != "" {
		if err := s.pets.Exists(ctx, v); err != nil {
			return Sale{}, nil, err
		}
		petID = &v
	}

	// cantidades acumuladas por producto, en orden de primera aparición
	requested := make([]productRequest, 0, len(in.Lines))
	index := make(map[string]int, len(in.Lines))
	for _, l := range in.Lines {
		pid := strings.TrimSpace(l.ProductID)
		if pid == "" {
			return Sale{}, nil, apperr.Invalid("product_id is required")
		}
		if l.Quantity <= 0 {
			return Sale{}, nil, apperr.Invalid("quantity must be > 0")
		}
		if i, ok := index[pid]; ok {
			requested[i].quantity += l.Quantity
			continue
		}
		index[pid] = len(requested)
		requested = append(requested, productRequest{productID: pid, quantity: l.Quantity})
	}

	snapshot := make(map[string]products.Product, len(requested))
	for _, r := range requested {
		p, err := s.inventory.GetByID(ctx, r.productID)
		if err != nil {
			return Sale{}, nil, err
		}
		if r.quantity > p.Stock {
			return Sale{}, nil, &apperr.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   r.quantity,
				Available:   p.Stock,
			}
		}
		snapshot[p.ID] = p
	}

	lines := make([]Line, 0, len(in.Lines))
	for _, l := range in.Lines {
		p := snapshot[strings.TrimSpace(l.ProductID)]
		lines = append(lines, Line{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    l.Quantity,
			UnitPrice:   p.UnitPrice,
		})
	}

	now := s.now()
	return Sale{
		ID:        uuid.NewString(),
		ClientID:  &clientID,
		PetID:     petID,
		SoldAt:    now,
		Lines:     lines,
		Total:     Total(lines),
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, requested, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, apperr.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	default:
		return "validation"
	}
}

// CancelSale pasa una venta PENDING a CANCELLED. No repone stock.
func (s *Service) CancelSale(ctx context.Context, id string) (Sale, error) {
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return Sale{}, err
	}

	switch sale.Status {
	case StatusPending:
	case StatusCancelled:
		return sale, nil
	default:
		return Sale{}, apperr.Invalid("only pending sales can be cancelled")
	}

	now := s.now()
	if err := s.repo.UpdateStatus(ctx, sale.ID, StatusCancelled, now); err != nil {
		return Sale{}, err
	}
	sale.Status = StatusCancelled
	sale.UpdatedAt = now

	s.log.Info("sale cancelled", map[string]any{"sale_id": sale.ID})
	_ = s.pub.Publish(ctx, notify.Event{Type: notify.SaleCancelled, EntityID: sale.ID, OccurredAt: now})

	return sale, nil
}

// DeleteSale borra una venta sin pagos. Tampoco repone stock.
func (s *Service) DeleteSale(ctx context.Context, id string) error {
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return err
	}
	paid, err := s.payments.ListBySale(ctx, sale.ID)
	if err != nil {
		return err
	}
	if len(paid) > 0 {
		return apperr.Invalid("a sale with payments cannot be deleted")
	}
	return s.repo.Delete(ctx, sale.ID)
}

func (s *Service) GetSale(ctx context.Context, id string) (Sale, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Sale{}, apperr.Invalid("sale id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// ListSales devuelve las ventas de la más reciente a la más antigua.
func (s *Service) ListSales(ctx context.Context, filter ListFilter) ([]Sale, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperr.Invalid("unknown status " + string(filter.Status))
	}
	return s.repo.List(ctx, filter)
}

// ListByDate devuelve las ventas del día civil date en la zona de la clínica.
func (s *Service) ListByDate(ctx context.Context, date time.Time) ([]Sale, error) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 0, 1)
	return s.repo.List(ctx, ListFilter{From: &from, To: &to})
}

// ClearClient / ClearPet desvinculan ventas en las cascadas de borrado.
func (s *Service) ClearClient(ctx context.Context, clientID string) (int, error) {
	return s.repo.ClearClient(ctx, clientID, s.now())
}

func (s *Service) ClearPet(ctx context.Context, petID string) (int, error) {
	return s.repo.ClearPet(ctx, petID, s.now())
}
