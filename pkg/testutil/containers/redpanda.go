//go:build integration

package containers

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	tcredpanda "github.com/testcontainers/testcontainers-go/modules/redpanda"
)

// RedpandaContainer wraps a Kafka-compatible Redpanda broker for audit
// publisher tests.
type RedpandaContainer struct {
	Container testcontainers.Container
	Brokers   []string
}

var (
	rpOnce      sync.Once
	rpContainer *RedpandaContainer
	rpErr       error
)

// GetRedpanda returns a process-wide shared Redpanda container.
func GetRedpanda(t *testing.T) *RedpandaContainer {
	t.Helper()

	rpOnce.Do(func() {
		rpContainer, rpErr = newRedpandaContainer()
	})
	if rpErr != nil {
		t.Fatalf("failed to start redpanda container: %v", rpErr)
	}
	return rpContainer
}

func newRedpandaContainer() (*RedpandaContainer, error) {
	ctx := context.Background()

	container, err := tcredpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v24.1.7")
	if err != nil {
		return nil, fmt.Errorf("run redpanda: %w", err)
	}

	broker, err := container.KafkaSeedBroker(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("seed broker: %w", err)
	}

	return &RedpandaContainer{Container: container, Brokers: []string{broker}}, nil
}
