// Package app wires repositories, handlers, and infrastructure into a
// single container shared by the CLI and worker entrypoints.
package app

import (
	"context"
	"log/slog"

	"github.com/cadencehq/cadence/internal/scheduling/application/commands"
	"github.com/cadencehq/cadence/internal/scheduling/application/queries"
	"github.com/cadencehq/cadence/internal/scheduling/domain"
	"github.com/cadencehq/cadence/internal/scheduling/infrastructure/cache"
	"github.com/cadencehq/cadence/internal/scheduling/infrastructure/calendarguard"
	"github.com/cadencehq/cadence/internal/scheduling/infrastructure/persistence"
	"github.com/cadencehq/cadence/internal/shared/infrastructure/database"
	"github.com/cadencehq/cadence/internal/shared/infrastructure/eventbus"
	"github.com/cadencehq/cadence/internal/shared/infrastructure/migrations"
	"github.com/cadencehq/cadence/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Container holds the initialized application graph.
type Container struct {
	Conn      database.Connection
	Publisher eventbus.Publisher

	TaskRepo       domain.TaskRepository
	EventRepo      domain.CalendarEventRepository
	SettingsRepo   domain.SettingsRepository
	SuggestionRepo domain.SuggestionRepository

	GenerateSuggestionsHandler *commands.GenerateSuggestionsHandler
	AcceptSuggestionHandler    *commands.AcceptSuggestionHandler
	RejectSuggestionHandler    *commands.RejectSuggestionHandler
	DismissSuggestionHandler   *commands.DismissSuggestionHandler
	CleanupExpiredHandler      *commands.CleanupExpiredHandler
	GetSuggestionsHandler      *queries.GetSuggestionsHandler

	redisClient *redis.Client
}

// NewContainer connects to the configured infrastructure and builds the
// handler graph. Redis and RabbitMQ are optional; the container degrades to
// uncached settings and a noop publisher when they are absent.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	conn, err := connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	c := &Container{Conn: conn}

	if conn.Driver() == database.DriverPostgres {
		c.TaskRepo = persistence.NewPostgresTaskRepository(conn)
		c.EventRepo = persistence.NewPostgresCalendarEventRepository(conn)
		c.SettingsRepo = persistence.NewPostgresSettingsRepository(conn)
		c.SuggestionRepo = persistence.NewPostgresSuggestionRepository(conn)
	} else {
		c.TaskRepo = persistence.NewSQLiteTaskRepository(conn)
		c.EventRepo = persistence.NewSQLiteCalendarEventRepository(conn)
		c.SettingsRepo = persistence.NewSQLiteSettingsRepository(conn)
		c.SuggestionRepo = persistence.NewSQLiteSuggestionRepository(conn)
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			conn.Close()
			return nil, err
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis not available, settings cache disabled", "error", err)
			_ = client.Close()
		} else {
			c.redisClient = client
			c.SettingsRepo = cache.NewSettingsCache(c.SettingsRepo, client, logger)
		}
	}

	c.EventRepo = calendarguard.NewGuardedEventRepository(c.EventRepo, logger)

	c.Publisher = eventbus.NewNoopPublisher(logger)
	if cfg.RabbitMQURL != "" {
		rabbitPublisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
		} else {
			c.Publisher = rabbitPublisher
		}
	}

	uow := database.NewUnitOfWork(conn)

	c.GenerateSuggestionsHandler = commands.NewGenerateSuggestionsHandler(
		c.SettingsRepo, c.TaskRepo, c.EventRepo, c.SuggestionRepo, c.Publisher, logger)
	c.AcceptSuggestionHandler = commands.NewAcceptSuggestionHandler(
		c.SuggestionRepo, c.TaskRepo, uow, c.Publisher, logger)
	c.RejectSuggestionHandler = commands.NewRejectSuggestionHandler(c.SuggestionRepo, c.Publisher, logger)
	c.DismissSuggestionHandler = commands.NewDismissSuggestionHandler(c.SuggestionRepo, c.Publisher, logger)
	c.CleanupExpiredHandler = commands.NewCleanupExpiredHandler(c.SuggestionRepo, c.Publisher, logger)
	c.GetSuggestionsHandler = queries.NewGetSuggestionsHandler(c.SuggestionRepo)

	return c, nil
}

// Close releases the container's connections.
func (c *Container) Close() {
	if c.Publisher != nil {
		_ = c.Publisher.Close()
	}
	if c.redisClient != nil {
		_ = c.redisClient.Close()
	}
	if c.Conn != nil {
		_ = c.Conn.Close()
	}
}

func connect(ctx context.Context, databaseURL string) (database.Connection, error) {
	if database.DetectDriver(databaseURL) == database.DriverPostgres {
		conn, err := database.NewPostgresConnection(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		if err := migrations.RunPostgresMigrations(ctx, conn.Pool()); err != nil {
			conn.Close()
			return nil, err
		}
		return conn, nil
	}

	conn, err := database.NewSQLiteConnection(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := migrations.RunSQLiteMigrations(ctx, conn.DB()); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
