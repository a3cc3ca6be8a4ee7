package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vetadmin/internal/adapters/auth/remote"
	"vetadmin/internal/adapters/notify/amqp"
	mem "vetadmin/internal/adapters/storage/memory"
	pg "vetadmin/internal/adapters/storage/postgres"
	"vetadmin/internal/clinic"
	"vetadmin/internal/config"
	"vetadmin/internal/platform/logger"
	"vetadmin/internal/platform/tracing"
	"vetadmin/internal/ports/auth"
	"vetadmin/internal/ports/notify"
	"vetadmin/internal/router"
	"vetadmin/internal/seed"
)

// @title vetadmin API
// @version 1.0
// @description Back office de clínica veterinaria.
// @BasePath /api/v1
func main() {
	os.Exit(run())
}

// run devuelve el código de salida; los defers corren antes de os.Exit.
func run() int {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	shutdownTracing, err := tracing.Setup(cfg.AppName, cfg.TraceStdout)
	if err != nil {
		log.Error("tracing setup failed", map[string]any{"error": err.Error()})
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn("tracing shutdown failed", map[string]any{"error": err.Error()})
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos := mem.NewRepositories()
	if cfg.DatabaseURL != "" {
		db, err := pg.Open(cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres open failed", map[string]any{"error": err.Error()})
			return 1
		}
		defer db.Close()

		if cfg.DBAutoMigrate {
			if err := pg.Migrate(ctx, db); err != nil {
				log.Error("postgres migrate failed", map[string]any{"error": err.Error()})
				return 1
			}
		}
		repos = pg.NewRepositories(db)
		log.Info("storage: postgres", nil)
	} else {
		log.Info("storage: in-memory", nil)
	}

	var publisher notify.Publisher = notify.Noop{}
	if cfg.AMQPURL != "" {
		p, err := amqp.Dial(cfg.AMQPURL, cfg.AMQPExchange, log)
		if err != nil {
			// sin broker el servicio sigue; solo se pierden notificaciones
			log.Warn("amqp unavailable, notifications disabled", map[string]any{"error": err.Error()})
		} else {
			defer p.Close()
			publisher = p
		}
	}

	store := clinic.New(repos, clinic.Options{
		Location:           cfg.Location(),
		MaxAttachmentBytes: int64(cfg.MaxAttachmentBytes),
		Publisher:          publisher,
		Logger:             log,
	})
	defer store.Close()

	if cfg.SeedCatalog {
		f, err := seed.Default()
		if err == nil {
			err = seed.Apply(ctx, store, f, log)
		}
		if err != nil {
			log.Error("catalog seed failed", map[string]any{"error": err.Error()})
			return 1
		}
	}

	var verifier auth.AuthVerifier // nil => modo dev
	if cfg.AuthBaseURL != "" {
		v, err := remote.NewVerifier(remote.Config{BaseURL: cfg.AuthBaseURL, APIKey: cfg.AuthAPIKey})
		if err != nil {
			log.Error("auth verifier setup failed", map[string]any{"error": err.Error()})
			return 1
		}
		verifier = v
	}

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.NewRouter(router.Options{
			AuthVerifier: verifier,
			Store:        store,
			Logger:       log,
			ServiceName:  cfg.AppName,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "timezone": cfg.Location().String()})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err.Error()})
			serveErr <- err
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", map[string]any{"error": err.Error()})
		return 1
	}
	log.Info("server stopped", nil)

	select {
	case <-serveErr:
		return 1
	default:
		return 0
	}
}
