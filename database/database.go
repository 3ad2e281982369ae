package database

import (
	"context"
	"embed"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/nevofinance/nevo/database/gensql"
	"github.com/pressly/goose/v3"
)

type Database struct {
	Pool *pgxpool.Pool
	Q    *gensql.Queries
}

var ErrMissingURI = errors.New("database: missing POSTGRES_URI")

// Connect opens the pool and checks the server answers.
func Connect(ctx context.Context, uri string) (*Database, error) {
	if uri == "" {
		return nil, ErrMissingURI
	}
	pool, err := pgxpool.New(ctx, uri)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Database{
		Pool: pool,
		Q:    gensql.New(pool),
	}, nil
}

func (db *Database) Close() {
	db.Pool.Close()
}

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

func RunMigrations(ctx context.Context, getenv func(string) string) error {
	driver := getenv("GOOSE_DRIVER")
	if driver == "" {
		driver = "pgx"
	}
	dbString := getenv("GOOSE_DBSTRING")
	if dbString == "" {
		dbString = getenv("POSTGRES_URI")
	}

	db, err := goose.OpenDBWithDriver(driver, dbString)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(embeddedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, "migrations")
}
