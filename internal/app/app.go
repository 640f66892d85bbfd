package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/derekensign/mls-fantasy-sub000/internal/config"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/draft"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/fantasyteam"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/player"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
	"github.com/derekensign/mls-fantasy-sub000/internal/infrastructure/repository/dynamo"
	"github.com/derekensign/mls-fantasy-sub000/internal/infrastructure/repository/memory"
	"github.com/derekensign/mls-fantasy-sub000/internal/infrastructure/repository/postgres"
	"github.com/derekensign/mls-fantasy-sub000/internal/interfaces/httpapi"
	"github.com/derekensign/mls-fantasy-sub000/internal/platform/cache"
	idgen "github.com/derekensign/mls-fantasy-sub000/internal/platform/id"
	"github.com/derekensign/mls-fantasy-sub000/internal/platform/logging"
	"github.com/derekensign/mls-fantasy-sub000/internal/platform/realtime"
	"github.com/derekensign/mls-fantasy-sub000/internal/usecase"
)

// App holds the wired router and everything that must be released on exit.
type App struct {
	Router  http.Handler
	closers []func() error
}

type backend struct {
	store   draft.Store
	rosters roster.Repository
	players player.Repository
	teams   fantasyteam.Repository
	close   func() error
}

// New wires storage, services and the HTTP router for the configured driver.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	seed, err := loadSeed(cfg)
	if err != nil {
		return nil, err
	}

	b, err := newBackend(ctx, cfg, seed, logger)
	if err != nil {
		return nil, err
	}
	a := &App{}
	if b.close != nil {
		a.closers = append(a.closers, b.close)
	}

	var refCache *cache.Store
	if cfg.CacheEnabled {
		refCache = cache.NewStore(cfg.CacheTTL)
	}

	hub := realtime.NewHub(context.WithoutCancel(ctx), cfg.RealtimeBuffer)
	a.closers = append(a.closers, func() error {
		hub.Close()
		return nil
	})

	directory := usecase.NewLeagueDirectory(b.teams, b.players, refCache)
	writer := usecase.NewLeagueWriter(b.store, idgen.NewUUIDGenerator(), hub, logger, cfg.CommitMaxRetries)

	handler := httpapi.NewHandler(
		usecase.NewDraftService(writer, directory, b.rosters, logger),
		usecase.NewTransferService(writer, directory, logger),
		usecase.NewStandingsService(directory, b.rosters, logger),
		usecase.NewLeagueService(directory, b.rosters),
		hub,
		logger,
	)
	a.Router = httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	logger.Info("app wired",
		"store_driver", cfg.StoreDriver,
		"cache_enabled", cfg.CacheEnabled,
		"seed_players", len(seed.Players),
		"seed_teams", len(seed.Teams),
	)
	return a, nil
}

// NewHTTPServer builds the server for the wired router.
func (a *App) NewHTTPServer(cfg config.Config) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      a.Router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

// Close releases resources in reverse wiring order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func loadSeed(cfg config.Config) (memory.Seed, error) {
	switch {
	case cfg.SeedFile != "":
		return memory.LoadSeedFile(cfg.SeedFile)
	case cfg.SeedDemoData:
		return memory.DemoSeed(), nil
	default:
		return memory.Seed{}, nil
	}
}

func newBackend(ctx context.Context, cfg config.Config, seed memory.Seed, logger *logging.Logger) (backend, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		db := memory.NewDatabase()
		return backend{
			store:   memory.NewLeagueRepository(db),
			rosters: memory.NewRosterRepository(db),
			players: memory.NewPlayerRepository(seed.Players),
			teams:   memory.NewFantasyTeamRepository(seed.Teams),
		}, nil
	case config.StoreDynamoDB:
		return newDynamoBackend(ctx, cfg)
	case config.StorePostgres:
		return newPostgresBackend(ctx, cfg, seed, logger)
	default:
		return backend{}, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func newDynamoBackend(ctx context.Context, cfg config.Config) (backend, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return backend{}, fmt.Errorf("load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
	api := dynamo.WithCircuitBreaker(client, cfg.DynamoDBCircuit)
	tables := dynamo.Tables{
		Draft:   cfg.DynamoDBDraftTable,
		Roster:  cfg.DynamoDBRosterTable,
		Players: cfg.DynamoDBPlayersTable,
		Teams:   cfg.DynamoDBTeamsTable,
	}

	return backend{
		store:   dynamo.NewLeagueStore(api, tables),
		rosters: dynamo.NewRosterRepository(api, tables.Roster),
		players: dynamo.NewPlayerRepository(api, tables.Players),
		teams:   dynamo.NewFantasyTeamRepository(api, tables.Teams),
	}, nil
}

func newPostgresBackend(ctx context.Context, cfg config.Config, seed memory.Seed, logger *logging.Logger) (backend, error) {
	db, err := openPostgres(ctx, cfg)
	if err != nil {
		return backend{}, err
	}

	if len(seed.Players) > 0 || len(seed.Teams) > 0 {
		if err := postgres.BootstrapSeed(ctx, db, seed); err != nil {
			_ = db.Close()
			return backend{}, fmt.Errorf("bootstrap seed: %w", err)
		}
		logger.Info("postgres seed checked", "players", len(seed.Players), "teams", len(seed.Teams))
	}

	return backend{
		store:   postgres.NewLeagueStore(db),
		rosters: postgres.NewRosterRepository(db),
		players: postgres.NewPlayerRepository(db),
		teams:   postgres.NewFantasyTeamRepository(db),
		close:   db.Close,
	}, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
