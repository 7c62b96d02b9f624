// Helpers for running tests against real database containers.
// Used by the integration tests in tests/integration.

package helpers

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alt1hub/pluginhub/internal/config"
	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresDatabase = "pluginhub_test"
	postgresUser     = "pluginhub"
	postgresPassword = "pluginhub"
)

// StartPostgres starts a PostgreSQL container and returns a database config
// pointing at it plus a terminate function.
func StartPostgres(t *testing.T) (*config.Config, func()) {
	ctx := context.Background()

	image := os.Getenv("POSTGRES_IMAGE")
	if image == "" {
		image = "postgres:16-alpine"
	}

	tcpPort, err := nat.NewPort("tcp", "5432")
	if err != nil {
		t.Fatalf("Failed to create port: %v", err)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{string(tcpPort)},
			Env: map[string]string{
				"POSTGRES_DB":       postgresDatabase,
				"POSTGRES_USER":     postgresUser,
				"POSTGRES_PASSWORD": postgresPassword,
			},
			WaitingFor: wait.ForListeningPort(tcpPort).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	terminate := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate PostgreSQL container: %v", err)
		}
	}

	host, err := container.Host(ctx)
	if err != nil {
		terminate()
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, tcpPort)
	if err != nil {
		terminate()
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := &config.Config{
		DBType:            "postgres",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        postgresDatabase,
		DBUser:            postgresUser,
		DBPassword:        postgresPassword,
		DBConnectionLimit: 5,
	}

	return cfg, terminate
}
