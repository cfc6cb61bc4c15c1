package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/riskibarqy/football-tournament/internal/config"
	"github.com/riskibarqy/football-tournament/internal/domain/discipline"
	"github.com/riskibarqy/football-tournament/internal/domain/match"
	"github.com/riskibarqy/football-tournament/internal/domain/team"
	cacherepo "github.com/riskibarqy/football-tournament/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/football-tournament/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/football-tournament/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/football-tournament/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/football-tournament/internal/platform/cache"
	idgen "github.com/riskibarqy/football-tournament/internal/platform/id"
	"github.com/riskibarqy/football-tournament/internal/platform/logging"
	"github.com/riskibarqy/football-tournament/internal/platform/resilience"
	"github.com/riskibarqy/football-tournament/internal/usecase"
)

const startupTimeout = 30 * time.Second

type repositories struct {
	teams   team.Repository
	matches match.Repository
	close   func() error
}

// NewHTTPServer wires storage, services and the router. The returned cleanup
// releases the database pool.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	repos, err := newRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	ids := idgen.NewUUIDGenerator()
	tournament := usecase.NewTournament(repos.teams, repos.matches, usecase.TournamentOptions{
		Rules:   discipline.Rules{YellowCardBanThreshold: cfg.YellowCardBanThreshold},
		Workers: cfg.RecomputeWorkers,
		Logger:  logger,
	})

	teamSvc := usecase.NewTeamService(repos.teams, ids, tournament, logger)
	scheduleSvc := usecase.NewScheduleService(repos.teams, repos.matches, ids, tournament, usecase.ScheduleConfig{
		Venue:       cfg.TournamentVenue,
		MinRestDays: cfg.ScheduleMinRestDays,
		Seed:        cfg.ScheduleSeed,
		SeedSet:     cfg.ScheduleSeedSet,
		Now:         time.Now,
	}, logger)
	matchSvc := usecase.NewMatchService(repos.matches, repos.teams, ids, tournament, logger)
	standingsSvc := usecase.NewStandingsService(tournament)
	disciplineSvc := usecase.NewDisciplineService(repos.teams, tournament, logger)

	// Stored records may predate a rule change, so rebuild them once.
	if err := tournament.Recompute(ctx); err != nil {
		_ = repos.close()
		return nil, nil, fmt.Errorf("initial recompute: %w", err)
	}

	handler := httpapi.NewHandler(teamSvc, scheduleSvc, matchSvc, standingsSvc, disciplineSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, repos.close, nil
}

func newRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.StorageDriver != config.StoragePostgres {
		var seed []team.Team
		if cfg.SeedEnabled {
			seed = memory.SeedTeams()
		}
		logger.Info("using in-memory storage", "seeded_teams", len(seed))
		return repositories{
			teams:   memory.NewTeamRepository(seed),
			matches: memory.NewMatchRepository(nil),
			close:   func() error { return nil },
		}, nil
	}

	target := resolveDBTarget(cfg)
	db, err := openDB(ctx, cfg, target)
	if err != nil {
		return repositories{}, err
	}

	breaker := postgres.NewBreaker(resilience.CircuitBreakerConfig{
		Enabled:          cfg.DBCircuitEnabled,
		FailureThreshold: cfg.DBCircuitFailureCount,
		OpenTimeout:      cfg.DBCircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.DBCircuitHalfOpenMaxReq,
	}, resilience.WithStateChangeHook(func(from, to resilience.CircuitState) {
		logger.Warn("database circuit state changed", "from", from, "to", to)
	}))

	var (
		teams   team.Repository  = postgres.NewTeamRepository(db, breaker)
		matches match.Repository = postgres.NewMatchRepository(db, breaker)
	)
	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		teams = cacherepo.NewTeamRepository(teams, store)
		matches = cacherepo.NewMatchRepository(matches, store)
	}

	if cfg.SeedEnabled {
		if err := seedTeams(ctx, teams, logger); err != nil {
			_ = db.Close()
			return repositories{}, err
		}
	}

	logger.Info("using postgres storage",
		"db_name", target.name,
		"db_host", target.host,
		"cache_enabled", cfg.CacheEnabled,
		"circuit_enabled", cfg.DBCircuitEnabled,
	)
	return repositories{teams: teams, matches: matches, close: db.Close}, nil
}

// seedTeams loads the default groups into an empty store only.
func seedTeams(ctx context.Context, repo team.Repository, logger *logging.Logger) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("check seed state: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("seed skipped, teams already present", "teams", len(existing))
		return nil
	}

	seed := memory.SeedTeams()
	for _, item := range seed {
		if err := repo.Upsert(ctx, item); err != nil {
			return fmt.Errorf("seed team %s: %w", item.ID, err)
		}
	}
	logger.Info("seeded default teams", "teams", len(seed))
	return nil
}
