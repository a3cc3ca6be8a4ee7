// Package clinic reúne los servicios de dominio en un único Store y
// orquesta las operaciones que cruzan módulos: borrados en cascada y el
// registro de una consulta completa.
package clinic

import (
	"time"

	"vetadmin/internal/domain/appointments"
	"vetadmin/internal/domain/cashflow"
	"vetadmin/internal/domain/catalog"
	"vetadmin/internal/domain/clients"
	"vetadmin/internal/domain/events"
	"vetadmin/internal/domain/expenses"
	"vetadmin/internal/domain/pets"
	"vetadmin/internal/domain/products"
	"vetadmin/internal/domain/sales"
	"vetadmin/internal/platform/logger"
	"vetadmin/internal/ports/notify"
)

// Repositories agrupa los puertos de persistencia de todos los módulos.
// Los arman los adapters (memory o postgres).
type Repositories struct {
	Clients      clients.Repository
	Pets         pets.Repository
	Catalog      catalog.Repository
	Products     products.Repository
	Sales        sales.Repository
	Payments     sales.PaymentRepository
	Appointments appointments.Repository
	Events       events.Repository
	Records      events.RecordRepository
	Expenses     expenses.Repository
}

type Options struct {
	Location           *time.Location
	MaxAttachmentBytes int64
	Publisher          notify.Publisher
	Logger             logger.Logger
}

type Store struct {
	Catalog      *catalog.Service
	Clients      *clients.Service
	Pets         *pets.Service
	Products     *products.Service
	Sales        *sales.Service
	Appointments *appointments.Service
	History      *events.Service
	Expenses     *expenses.Service
	CashFlow     *cashflow.Service

	notifier *notify.Async
	log      logger.Logger
	now      func() time.Time
}

// New cablea los servicios entre sí a través de sus interfaces chicas.
func New(repos Repositories, opts Options) *Store {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	catalogSvc := catalog.NewService(repos.Catalog)
	clientsSvc := clients.NewService(repos.Clients)
	petsSvc := pets.NewService(repos.Pets, clientsSvc, catalogSvc)
	productsSvc := products.NewService(repos.Products, catalogSvc)

	salesSvc := sales.NewService(repos.Sales, repos.Payments, clientsSvc, petsSvc, productsSvc)
	salesSvc.SetLocation(loc)
	salesSvc.SetLogger(log)
	var notifier *notify.Async
	if opts.Publisher != nil {
		notifier = notify.FireAndForget(opts.Publisher, log)
		salesSvc.SetPublisher(notifier)
	}

	historySvc := events.NewService(repos.Events, repos.Records, petsSvc, catalogSvc)
	historySvc.SetLogger(log)
	historySvc.SetMaxAttachmentBytes(opts.MaxAttachmentBytes)

	apptSvc := appointments.NewService(repos.Appointments, clientsSvc, petsSvc, historySvc)
	apptSvc.SetLocation(loc)
	apptSvc.SetLogger(log)

	expensesSvc := expenses.NewService(repos.Expenses)

	cashSvc := cashflow.NewService(salesSvc, expensesSvc)
	cashSvc.SetLocation(loc)

	return &Store{
		Catalog:      catalogSvc,
		Clients:      clientsSvc,
		Pets:         petsSvc,
		Products:     productsSvc,
		Sales:        salesSvc,
		Appointments: apptSvc,
		History:      historySvc,
		Expenses:     expensesSvc,
		CashFlow:     cashSvc,
		notifier:     notifier,
		log:          log.With(map[string]any{"module": "clinic"}),
		now:          time.Now,
	}
}

// Close espera a que salgan las notificaciones pendientes.
func (s *Store) Close() {
	if s.notifier != nil {
		s.notifier.Close()
	}
}
