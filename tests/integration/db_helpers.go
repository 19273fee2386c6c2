package integration

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dextersy/label-dashboard/internal/database"
	"github.com/dextersy/label-dashboard/internal/models"
	"github.com/dextersy/label-dashboard/internal/repositories"
	"github.com/dextersy/label-dashboard/pkg/auth"
)

// TestDB manages PostgreSQL testcontainer and database operations
type TestDB struct {
	Container  testcontainers.Container
	ConnString string
	Pool       *pgxpool.Pool
	DB         *database.DB
}

// SetupTestDatabase creates a PostgreSQL testcontainer, runs migrations, returns TestDB
func SetupTestDatabase(ctx context.Context) (*TestDB, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("label_dashboard"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	dbWrapper := &database.DB{
		Pool: pool,
	}

	return &TestDB{
		Container:  container,
		ConnString: connStr,
		Pool:       pool,
		DB:         dbWrapper,
	}, nil
}

// runMigrations executes all goose migrations
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir, err := filepath.Abs("../../migrations")
	if err != nil {
		return fmt.Errorf("failed to get migrations path: %w", err)
	}

	// Suppress goose logs
	goose.SetLogger(log.New(io.Discard, "", 0))

	// Goose needs a stdlib DB connection, so adapt the pgx pool config
	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	if err := goose.UpContext(ctx, sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Teardown stops the container and closes the connection pool
func (db *TestDB) Teardown(ctx context.Context) error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.Container != nil {
		return db.Container.Terminate(ctx)
	}
	return nil
}

// CleanupTables truncates all tables for test isolation
func (db *TestDB) CleanupTables(ctx context.Context) error {
	tables := []string{
		"email_logs",
		"login_attempts",
		"ticket_types",
		"songwriters",
		"users",
		"brands",
	}

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return nil
}

// InitializeRepositories creates all repository instances from database wrapper
func InitializeRepositories(db *database.DB) (
	*repositories.UserRepository,
	*repositories.LoginAttemptRepository,
	*repositories.BrandRepository,
	*repositories.SongwriterRepository,
	*repositories.TicketTypeRepository,
	*repositories.EmailLogRepository,
) {
	return repositories.NewUserRepository(db),
		repositories.NewLoginAttemptRepository(db),
		repositories.NewBrandRepository(db),
		repositories.NewSongwriterRepository(db),
		repositories.NewTicketTypeRepository(db),
		repositories.NewEmailLogRepository(db)
}

// SeedSystemUser inserts an active system user with a hashed password
func SeedSystemUser(ctx context.Context, db *database.DB, username, email, password string) (*models.User, error) {
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Username:     &username,
		PasswordHash: hashedPassword,
		Name:         "Integration Admin",
		IsAdmin:      true,
		IsSystemUser: true,
		Status:       models.UserStatusActive,
	}

	return repositories.NewUserRepository(db).Create(ctx, user)
}

// SeedLegacySystemUser inserts a system user whose stored hash uses the old scheme
func SeedLegacySystemUser(ctx context.Context, db *database.DB, username, email, password string) (*models.User, error) {
	user := &models.User{
		Email:        email,
		Username:     &username,
		PasswordHash: auth.LegacyHash(password),
		Name:         "Legacy Admin",
		IsAdmin:      true,
		IsSystemUser: true,
		Status:       models.UserStatusActive,
	}

	return repositories.NewUserRepository(db).Create(ctx, user)
}

// SeedBrand inserts a brand with the given slug and website domain
func SeedBrand(ctx context.Context, db *database.DB, name, slug, websiteDomain string) (*models.Brand, error) {
	brand := &models.Brand{
		Name:          name,
		Slug:          slug,
		WebsiteDomain: websiteDomain,
	}

	return repositories.NewBrandRepository(db).Create(ctx, brand)
}

// SeedTenantUser inserts an active tenant user attached to a brand
func SeedTenantUser(ctx context.Context, db *database.DB, email, password, brandID string, isAdmin bool) (*models.User, error) {
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         "Tenant User",
		IsAdmin:      isAdmin,
		BrandID:      &brandID,
		Status:       models.UserStatusActive,
	}

	return repositories.NewUserRepository(db).Create(ctx, user)
}
