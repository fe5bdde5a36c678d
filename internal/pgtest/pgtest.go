// Package pgtest runs a throwaway Postgres container for integration tests.
package pgtest

import (
	"context"
	"fmt"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	image    = "postgres:16"
	database = "studyground"
	user     = "studyground"
	password = "studyground"
)

type Postgres struct {
	tc   testcontainers.Container
	host string
	port string
}

// Start launches a Postgres container and waits until it accepts
// connections.
func Start(ctx context.Context) (*Postgres, error) {
	req := testcontainers.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       database,
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": password,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2),
		),
	}

	tc, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("start container: %w", err)
	}

	host, err := tc.Host(ctx)
	if err != nil {
		tc.Terminate(ctx)
		return nil, fmt.Errorf("get host: %w", err)
	}
	mappedPort, err := tc.MappedPort(ctx, nat.Port("5432/tcp"))
	if err != nil {
		tc.Terminate(ctx)
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &Postgres{tc: tc, host: host, port: mappedPort.Port()}, nil
}

func (p *Postgres) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, password, p.host, p.port, database)
}

func (p *Postgres) Terminate(ctx context.Context) error {
	if p.tc != nil {
		return p.tc.Terminate(ctx)
	}
	return nil
}
