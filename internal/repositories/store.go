package repositories

import (
	"context"
	"fmt"
	"time"

	"livraria/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const connectTimeout = 10 * time.Second

// Store bundles the repositories of one storage backend and owns its
// connection. Build it once at startup and pass it to consumers.
type Store struct {
	Books  BookRepository
	Users  UserRepository
	Orders OrderRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}

// Open connects to the backend selected by cfg.
//
// Supported drivers:
//
//	"mongo"    - MongoDB at MONGO_URI (default)
//	"postgres" - PostgreSQL at DATABASE_DSN through GORM
//	"sqlite"   - SQLite at DATABASE_DSN through GORM
func Open(ctx context.Context, cfg config.Storage) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case config.DriverMongo:
		return openMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverPostgres:
		db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return NewGORMStore(db)
	case config.DriverSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		return NewGORMStore(db)
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.Driver)
	}
}

func openMongo(ctx context.Context, uri, database string) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return NewMongoStore(client, client.Database(database)), nil
}

// NewMongoStore wires the MongoDB repositories over db.
func NewMongoStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		Books:  NewMongoBookRepository(db),
		Users:  NewMongoUserRepository(db),
		Orders: NewMongoOrderRepository(db),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: client.Disconnect,
	}
}

// NewGORMStore migrates the tables and wires the GORM repositories.
func NewGORMStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&bookRecord{}, &userRecord{}, &orderRecord{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	if err := backfillTitleSearch(db); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	return &Store{
		Books:  NewGORMBookRepository(db),
		Users:  NewGORMUserRepository(db),
		Orders: NewGORMOrderRepository(db),
		ping:   sqlDB.PingContext,
		close: func(context.Context) error {
			return sqlDB.Close()
		},
	}, nil
}
