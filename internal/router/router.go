package router

import (
	"net/http"
	"strings"

	_ "vetadmin/docs"
	mem "vetadmin/internal/adapters/storage/memory"
	"vetadmin/internal/clinic"
	"vetadmin/internal/domain/appointments"
	"vetadmin/internal/domain/cashflow"
	"vetadmin/internal/domain/catalog"
	"vetadmin/internal/domain/clients"
	"vetadmin/internal/domain/events"
	"vetadmin/internal/domain/expenses"
	"vetadmin/internal/domain/pets"
	"vetadmin/internal/domain/products"
	"vetadmin/internal/domain/sales"
	"vetadmin/internal/middleware"
	"vetadmin/internal/platform/logger"
	"vetadmin/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const APIPrefix = "/api/v1"

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si no viene, se arma un Store in-memory vacío.
	Store *clinic.Store

	Logger      logger.Logger
	ServiceName string
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	store := opts.Store
	if store == nil {
		store = clinic.New(mem.NewRepositories(), clinic.Options{Logger: log})
	}
	name := opts.ServiceName
	if name == "" {
		name = "vetadmin"
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route(APIPrefix, func(api chi.Router) {
		api.Use(middleware.RequireUser)

		clients.RegisterRoutes(api, store.Clients, store)
		pets.RegisterRoutes(api, store.Pets, store)
		catalog.RegisterRoutes(api, store.Catalog)
		products.RegisterRoutes(api, store.Products)
		sales.RegisterRoutes(api, store.Sales)
		appointments.RegisterRoutes(api, store.Appointments)
		events.RegisterRoutes(api, store.History, store)
		expenses.RegisterRoutes(api, store.Expenses)
		cashflow.RegisterRoutes(api, store.CashFlow)
	})

	return otelhttp.NewHandler(r, name,
		otelhttp.WithFilter(func(req *http.Request) bool {
			return strings.HasPrefix(req.URL.Path, APIPrefix)
		}),
		otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
			return req.Method + " " + req.URL.Path
		}),
	)
}
