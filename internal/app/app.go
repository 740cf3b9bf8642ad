package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/cricket-league/internal/config"
	"github.com/riskibarqy/cricket-league/internal/domain/ballevent"
	"github.com/riskibarqy/cricket-league/internal/domain/innings"
	"github.com/riskibarqy/cricket-league/internal/domain/match"
	"github.com/riskibarqy/cricket-league/internal/domain/player"
	"github.com/riskibarqy/cricket-league/internal/domain/playerstat"
	"github.com/riskibarqy/cricket-league/internal/domain/scoring"
	"github.com/riskibarqy/cricket-league/internal/domain/team"
	"github.com/riskibarqy/cricket-league/internal/domain/tournament"
	"github.com/riskibarqy/cricket-league/internal/infrastructure/livefeed"
	"github.com/riskibarqy/cricket-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/cricket-league/internal/infrastructure/repository/guarded"
	"github.com/riskibarqy/cricket-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/cricket-league/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/cricket-league/internal/platform/id"
	"github.com/riskibarqy/cricket-league/internal/platform/lock"
	"github.com/riskibarqy/cricket-league/internal/platform/logging"
	"github.com/riskibarqy/cricket-league/internal/platform/resilience"
	"github.com/riskibarqy/cricket-league/internal/usecase"
)

// App owns the HTTP server and the resources behind it.
type App struct {
	Server *http.Server

	hub    *livefeed.Hub
	db     *sqlx.DB
	logger *logging.Logger
}

type repositories struct {
	matches     match.Repository
	teams       team.Repository
	players     player.Repository
	innings     innings.Repository
	balls       ballevent.Repository
	stats       playerstat.Repository
	tournaments tournament.Repository
	ledger      scoring.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	roster, err := memory.LoadRoster(cfg.SeedFile)
	if err != nil {
		return nil, err
	}

	a := &App{logger: logger}

	var repos repositories
	if cfg.UsesPostgres() {
		target := parseDatabaseTarget(cfg.DBURL, cfg.DBDisablePreparedBinary)
		db, err := openDatabase(ctx, target)
		if err != nil {
			return nil, err
		}
		if err := postgres.SeedRoster(ctx, db, roster.Teams, roster.Players); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("seed roster: %w", err)
		}
		a.db = db
		repos = postgresRepositories(db)
		if cfg.DBBreakerEnabled {
			breaker := resilience.NewBreaker(resilience.BreakerConfig{
				FailureThreshold: cfg.DBBreakerFailureThreshold,
				OpenTimeout:      cfg.DBBreakerOpenTimeout,
			})
			repos.ledger = guarded.NewLedgerRepository(repos.ledger, breaker, logger)
		}
		logger.Info("storage ready", "backend", "postgres", "db_name", target.Name)
	} else {
		repos = memoryRepositories(memory.NewStore(roster))
		logger.Info("storage ready", "backend", "memory", "teams", len(roster.Teams), "players", len(roster.Players))
	}

	if cfg.CacheEnabled {
		repos.teams = cache.NewTeamRepository(repos.teams, cfg.CacheTTL)
		repos.players = cache.NewPlayerRepository(repos.players, cfg.CacheTTL)
	}

	a.hub = livefeed.NewHub(cfg.CORSAllowedOrigins, logger)
	var liveFeed httpapi.LiveFeed
	if cfg.LiveFeedEnabled {
		liveFeed = a.hub
	}

	locks := lock.NewKeyed()
	ids := idgen.NewUUIDGenerator()

	handler := httpapi.NewHandler(
		usecase.NewMatchService(repos.matches, repos.teams, locks, ids, logger),
		usecase.NewScoringService(repos.matches, repos.innings, repos.balls, repos.stats, repos.players, repos.ledger, locks, ids, a.hub, logger),
		usecase.NewTournamentService(repos.tournaments, repos.teams, repos.matches, nil, locks, ids, logger),
		usecase.NewStandingService(repos.tournaments, repos.matches),
		usecase.NewPlayerStatsService(repos.players, repos.stats),
		usecase.NewReplayService(repos.matches, repos.tournaments, repos.innings, repos.balls, repos.ledger, locks, cfg.ReplayWorkers, logger),
		liveFeed,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalToken)

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return a, nil
}

// Close disconnects live viewers and releases the database pool.
func (a *App) Close() error {
	if a.hub != nil {
		a.hub.Close()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("close db: %w", err)
		}
	}
	return nil
}

func memoryRepositories(store *memory.Store) repositories {
	return repositories{
		matches:     memory.NewMatchRepository(store),
		teams:       memory.NewTeamRepository(store),
		players:     memory.NewPlayerRepository(store),
		innings:     memory.NewInningsRepository(store),
		balls:       memory.NewBallEventRepository(store),
		stats:       memory.NewPlayerStatRepository(store),
		tournaments: memory.NewTournamentRepository(store),
		ledger:      memory.NewScoringRepository(store),
	}
}

func postgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		matches:     postgres.NewMatchRepository(db),
		teams:       postgres.NewTeamRepository(db),
		players:     postgres.NewPlayerRepository(db),
		innings:     postgres.NewInningsRepository(db),
		balls:       postgres.NewBallEventRepository(db),
		stats:       postgres.NewPlayerStatRepository(db),
		tournaments: postgres.NewTournamentRepository(db),
		ledger:      postgres.NewScoringRepository(db),
	}
}
