package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	accservice "phonebook/internal/account/service"
	userstore "phonebook/internal/account/store/user"
	"phonebook/internal/audit"
	dirservice "phonebook/internal/directory/service"
	personstore "phonebook/internal/directory/store/person"
	"phonebook/internal/graph"
	httpapi "phonebook/internal/http"
	"phonebook/internal/platform/config"
	"phonebook/internal/platform/httpserver"
	"phonebook/internal/platform/logger"
	"phonebook/internal/platform/metrics"
	"phonebook/internal/token"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	var (
		persons    dirservice.PersonStore
		users      accservice.UserStore
		auditStore audit.Store
	)
	personFinder := (accservice.PersonFinder)(nil)

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Error("ping database", "error", err)
			os.Exit(1)
		}
		pg := personstore.NewPostgres(db)
		persons = pg
		personFinder = pg
		users = userstore.NewPostgres(db)
		auditStore = audit.NewPostgresStore(db)
	} else {
		// No DATABASE_URL: single-process in-memory mode for local runs.
		mem := personstore.NewInMemory()
		persons = mem
		personFinder = mem
		users = userstore.NewInMemory(mem)
		auditStore = audit.NewInMemoryStore()
	}

	m := metrics.New()
	tokens := token.NewService(cfg.JWTSigningKey, "phonebook", cfg.TokenTTL)

	inbox := make(chan audit.Event, 256)
	auditor := audit.NewChannelEmitter(inbox)
	worker := audit.NewWorker(auditStore, inbox)

	directory := dirservice.New(persons,
		dirservice.WithLogger(log),
		dirservice.WithMetrics(m),
		dirservice.WithAuditEmitter(auditor),
	)
	accounts := accservice.New(users, personFinder, tokens,
		accservice.WithLogger(log),
		accservice.WithMetrics(m),
		accservice.WithAuditEmitter(auditor),
		accservice.WithBcryptCost(cfg.BcryptCost),
	)

	schema := graph.NewSchema(graph.NewResolver(directory, accounts, log))
	router := httpapi.NewRouter(schema, tokens, accounts, log)
	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting phonebook", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
