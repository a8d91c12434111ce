package capture

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/benvon/roda-da-vida/internal/database"
	"github.com/benvon/roda-da-vida/internal/queue"
)

// DemoDelay is the simulated latency of the mock capture endpoint
const DemoDelay = 800 * time.Millisecond

// Options selects and configures a sink
type Options struct {
	Kind        string
	DSN         string
	RabbitMQURL string
	Logger      *zap.Logger
}

// New builds the sink for opts.Kind: log, postgres, sqlite or rabbitmq. The
// returned close func releases its connection.
func New(ctx context.Context, opts Options) (Sink, func() error, error) {
	noop := func() error { return nil }
	switch opts.Kind {
	case "", "log":
		return &LogSink{Logger: opts.Logger, Delay: DemoDelay}, noop, nil
	case database.DriverPostgres, database.DriverSQLite:
		db, err := database.Open(ctx, opts.Kind, opts.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open lead store: %w", err)
		}
		return &RepositorySink{Repo: database.NewLeadRepository(db)}, db.Close, nil
	case "rabbitmq":
		q, err := queue.NewRabbitMQQueue(opts.RabbitMQURL)
		if err != nil {
			return nil, nil, err
		}
		return &QueueSink{Publisher: q}, q.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown capture sink %q", opts.Kind)
	}
}
