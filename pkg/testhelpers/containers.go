package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/gridbase-inc/import-engine/pkg/database"
)

const (
	postgresTestImage = "postgres:16-alpine"
	redisTestImage    = "redis:7-alpine"
)

// TestPostgres holds a shared test database container and connection pool.
// Migrations are applied, so the engine_blobs table exists.
type TestPostgres struct {
	Container testcontainers.Container
	Pool      *pgxpool.Pool
	ConnStr   string
}

var (
	sharedPostgres     *TestPostgres
	sharedPostgresOnce sync.Once
	sharedPostgresErr  error
)

// GetTestPostgres returns a shared PostgreSQL container for integration
// tests. The container is created once and reused across all tests in
// the run.
func GetTestPostgres(t *testing.T) *TestPostgres {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedPostgresOnce.Do(func() {
		sharedPostgres, sharedPostgresErr = setupTestPostgres()
	})

	if sharedPostgresErr != nil {
		t.Fatalf("Failed to setup test database: %v", sharedPostgresErr)
	}

	return sharedPostgres
}

func setupTestPostgres() (*TestPostgres, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        postgresTestImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "import_engine_test",
			"POSTGRES_USER":     "gridbase",
			"POSTGRES_PASSWORD": "test_password",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	connStr := fmt.Sprintf("postgres://gridbase:test_password@%s:%s/import_engine_test?sslmode=disable",
		host, port.Port())

	// Run migrations using database/sql (required by golang-migrate).
	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open sql connection: %w", err)
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection with retry
	for i := 0; i < 10; i++ {
		if err := pool.Ping(ctx); err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}

	return &TestPostgres{
		Container: container,
		Pool:      pool,
		ConnStr:   connStr,
	}, nil
}

// TestRedis holds a shared test Redis container and client.
type TestRedis struct {
	Container testcontainers.Container
	Client    *redis.Client
}

var (
	sharedRedis     *TestRedis
	sharedRedisOnce sync.Once
	sharedRedisErr  error
)

// GetTestRedis returns a shared Redis container for integration tests.
// The container is created once and reused across all tests in the run.
func GetTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedRedisOnce.Do(func() {
		sharedRedis, sharedRedisErr = setupTestRedis()
	})

	if sharedRedisErr != nil {
		t.Fatalf("Failed to setup test Redis: %v", sharedRedisErr)
	}

	return sharedRedis
}

func setupTestRedis() (*TestRedis, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        redisTestImage,
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForLog("Ready to accept connections").
			WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})

	// Verify connection with retry
	for i := 0; i < 10; i++ {
		if err := client.Ping(ctx).Err(); err == nil {
			break
		}
		time.Sleep(200 * time.Millisecond)
	}

	return &TestRedis{
		Container: container,
		Client:    client,
	}, nil
}
