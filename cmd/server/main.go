package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"tokenguard/internal/access"
	"tokenguard/internal/allowlist"
	"tokenguard/internal/identity"
	identitycache "tokenguard/internal/identity/cache"
	"tokenguard/internal/ledger"
	"tokenguard/internal/notify"
	"tokenguard/internal/platform/config"
	"tokenguard/internal/platform/httpserver"
	"tokenguard/internal/platform/logger"
	"tokenguard/internal/platform/metrics"
	"tokenguard/internal/platform/postgres"
	platformredis "tokenguard/internal/platform/redis"
	"tokenguard/internal/policy"
	"tokenguard/internal/token"
	httptransport "tokenguard/internal/transport/http"
	id "tokenguard/pkg/domain"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	owner, err := id.ParseAddress(cfg.OwnerAddress)
	if err != nil {
		log.Error("invalid owner address", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Stores: in-memory by default, Postgres when a DSN is configured.
	var (
		identityStore identity.Store = identity.NewInMemoryStore()
		ledgerStore   ledger.Store   = ledger.NewInMemoryStore()
	)
	db, err := postgres.Open(cfg.PostgresDSN)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		pgIdentities := identity.NewPostgres(db)
		pgLedger := ledger.NewPostgres(db)
		if err := pgIdentities.EnsureSchema(ctx); err != nil {
			log.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
		if err := pgLedger.EnsureSchema(ctx); err != nil {
			log.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
		identityStore = pgIdentities
		ledgerStore = pgLedger
	}

	rdb, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		identityStore = identitycache.New(identityStore, rdb)
	}

	bus := notify.NewBus()
	var notifier notify.Notifier = bus
	var kafka *notify.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err = notify.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		notifier = notify.Multi{bus, kafka}
	}
	bus.Subscribe(func(event notify.Event) {
		log.Info("notification", "type", string(event.Type), "account", event.Account.String())
	})

	m := metrics.New()
	authz := access.NewAuthority(owner)

	policies := policy.NewService(policy.NewInMemoryStore(), authz)
	identities := identity.NewService(identityStore, authz, notifier, m)
	allowlists := allowlist.NewService(allowlist.NewInMemoryStore(), authz)
	trail := ledger.NewService(ledgerStore, notifier, m)
	tokens := token.NewService(
		token.Metadata{Name: cfg.TokenName, Symbol: cfg.TokenSymbol, Decimals: cfg.TokenDecimals},
		owner, cfg.InitialSupply,
		identities, policies, allowlists, trail, notifier, m,
	)

	handler := httptransport.NewHandler(log, tokens, identities, policies, allowlists, trail, authz)
	router := httptransport.NewRouter(handler, cfg.JWTSigningKey, log)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting tokenguard", "addr", cfg.Addr, "owner", owner.String())

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	if kafka != nil {
		kafka.Close()
	}
	if rdb != nil {
		rdb.Close()
	}
	if db != nil {
		db.Close()
	}
}
