//go:build integration
// +build integration

// Package pgtest starts a disposable, migrated Postgres for integration tests.
package pgtest

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	migrations "github.com/guttosm/contractpulse/db"
)

const (
	image    = "postgres:15-alpine"
	dbName   = "contractpulse"
	user     = "postgres"
	password = "postgres"
)

// Postgres is a running container with the schema applied.
type Postgres struct {
	DB       *sql.DB
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// Start launches the container, applies db/migrations and registers cleanup
// on t. Any failure aborts the test.
func Start(t *testing.T) *Postgres {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       dbName,
				"POSTGRES_USER":     user,
				"POSTGRES_PASSWORD": password,
			},
			WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
				return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", host, port.Port(), user, password, dbName)
			}).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	mapped, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	pg := &Postgres{
		DSN:      fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, mapped.Port(), dbName),
		Host:     host,
		Port:     mapped.Int(),
		User:     user,
		Password: password,
		Name:     dbName,
	}

	pg.DB, err = sql.Open("postgres", pg.DSN)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = pg.DB.Close() })
	if err := pg.DB.PingContext(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("goose dialect: %v", err)
	}
	if err := goose.Up(pg.DB, "migrations"); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	return pg
}
