package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	guildconfigmigrations "github.com/open-ladder/ranksync/app/modules/guildconfig/infrastructure/repositories/migrations"
	handlelinkmigrations "github.com/open-ladder/ranksync/app/modules/handlelink/infrastructure/repositories/migrations"
	ranksyncmigrations "github.com/open-ladder/ranksync/app/modules/ranksync/infrastructure/repositories/migrations"
	"github.com/open-ladder/ranksync/integration_tests/containers"
	"github.com/open-ladder/ranksync/internal/eventbus"
	"github.com/open-ladder/ranksync/internal/observability"
)

// integrationEnvVar gates the container-backed suites. They are skipped
// unless it is set, so `go test ./...` stays docker-free by default.
const integrationEnvVar = "RANKSYNC_INTEGRATION"

// streams provisioned for every test environment, mirroring the composition
// root.
var streamNames = []string{
	"guildconfig",
	"handlelink",
	"rating",
	"ranksync",
	"notification",
}

// TestEnvironment holds the container-backed resources one integration suite
// shares.
type TestEnvironment struct {
	Ctx      context.Context
	DB       *bun.DB
	DSN      string
	EventBus eventbus.EventBus
	Obs      *observability.Observability
	Metrics  observability.ServiceMetrics

	cancel        context.CancelFunc
	pgContainer   testcontainers.Container
	natsContainer testcontainers.Container
}

// NewTestEnvironment starts Postgres and NATS containers, runs the module
// migrations, and connects the event bus. It skips the calling test when
// integration testing is not enabled.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	if os.Getenv(integrationEnvVar) == "" {
		t.Skipf("set %s=1 to run container-backed integration tests", integrationEnvVar)
	}

	ctx, cancel := context.WithCancel(context.Background())

	env := &TestEnvironment{Ctx: ctx, cancel: cancel}
	if err := env.setup(ctx); err != nil {
		env.Close()
		t.Fatalf("failed to set up test environment: %v", err)
	}
	t.Cleanup(env.Close)
	return env
}

func (env *TestEnvironment) setup(ctx context.Context) error {
	obs, err := observability.Init(ctx, observability.Config{
		ServiceName: "ranksync-test",
		Environment: "test",
		LogLevel:    "warn",
	})
	if err != nil {
		return fmt.Errorf("failed to init observability: %w", err)
	}
	env.Obs = obs
	env.Metrics = observability.NewServiceMetrics(obs.Registry, "ranksync_test")

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up postgres container: %w", err)
	}
	env.pgContainer = pgContainer
	env.DSN = dsn

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up NATS container: %w", err)
	}
	env.natsContainer = natsContainer

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	env.DB = bun.NewDB(sqldb, pgdialect.New())
	if err := env.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping test database: %w", err)
	}
	if err := runMigrations(ctx, env.DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	bus, err := eventbus.NewEventBus(ctx, eventbus.Config{URL: natsURL}, obs.Logger)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}
	env.EventBus = bus
	for _, stream := range streamNames {
		if err := bus.CreateStream(ctx, stream); err != nil {
			return fmt.Errorf("failed to create stream %q: %w", stream, err)
		}
	}
	return nil
}

// Tracer returns a noop tracer for wiring services under test.
func (env *TestEnvironment) Tracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer("test")
}

// Close tears the environment down. Safe to call more than once.
func (env *TestEnvironment) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if env.EventBus != nil {
		env.EventBus.Close()
		env.EventBus = nil
	}
	if env.DB != nil {
		env.DB.Close()
		env.DB = nil
	}
	if env.natsContainer != nil {
		env.natsContainer.Terminate(ctx)
		env.natsContainer = nil
	}
	if env.pgContainer != nil {
		env.pgContainer.Terminate(ctx)
		env.pgContainer = nil
	}
	if env.cancel != nil {
		env.cancel()
		env.cancel = nil
	}
}

func runMigrations(ctx context.Context, db *bun.DB) error {
	migrators := map[string]*migrate.Migrator{
		"guildconfig": migrate.NewMigrator(db, guildconfigmigrations.Migrations),
		"handlelink":  migrate.NewMigrator(db, handlelinkmigrations.Migrations),
		"ranksync":    migrate.NewMigrator(db, ranksyncmigrations.Migrations),
	}
	for name, migrator := range migrators {
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to init migrations for %s: %w", name, err)
		}
		if _, err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", name, err)
		}
	}
	return nil
}
