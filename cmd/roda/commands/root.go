// Package commands implements the roda command line tool. Every command
// works on one client's workspace in the configured storage backend.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benvon/roda-da-vida/internal/config"
	"github.com/benvon/roda-da-vida/internal/logger"
	"github.com/benvon/roda-da-vida/internal/services/ai"
	"github.com/benvon/roda-da-vida/internal/storage"
	"github.com/benvon/roda-da-vida/internal/workspace"
)

// DefaultClientID is the workspace used when --client is not given
const DefaultClientID = "local"

// Option configures the root command
type Option func(*env)

// WithGenerator replaces the configured AI provider
func WithGenerator(g ai.TextGenerator) Option {
	return func(e *env) { e.generator = g }
}

type env struct {
	client    string
	driver    string
	dsn       string
	debug     bool
	generator ai.TextGenerator
}

// session is an opened backend plus the client's workspace
type session struct {
	cfg     *config.Config
	backend *storage.Backend
	ws      *workspace.Workspace
	log     *zap.Logger
}

func (s *session) Close() error {
	_ = logger.Sync(s.log)
	return s.backend.Close()
}

// open loads configuration, applies flag overrides and loads the workspace
func (e *env) open(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if e.driver != "" {
		cfg.StorageDriver = e.driver
	}
	if e.dsn != "" {
		cfg.StorageDSN = e.dsn
	}

	log := zap.NewNop()
	if e.debug {
		if log, err = logger.NewDevelopmentLogger(true); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}

	backend, err := storage.Open(ctx, cfg.StorageDriver, cfg.StorageDSN)
	if err != nil {
		return nil, err
	}
	ws := workspace.Load(ctx, backend.KV, e.client, workspace.Options{Location: cfg.Location, Logger: log})
	return &session{cfg: cfg, backend: backend, ws: ws, log: log}, nil
}

// withSession runs fn with the workspace locked
func (e *env) withSession(cmd *cobra.Command, fn func(s *session) error) error {
	s, err := e.open(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to close storage: %v\n", err)
		}
	}()
	s.ws.Lock()
	defer s.ws.Unlock()
	return fn(s)
}

// NewRootCmd builds the roda command tree
func NewRootCmd(opts ...Option) *cobra.Command {
	e := &env{}
	for _, opt := range opts {
		opt(e)
	}

	root := &cobra.Command{
		Use:           "roda",
		Short:         "Roda da Vida from the terminal",
		Long:          "Score your life areas, run AI analyses and export reports using the same storage as the API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&e.client, "client", DefaultClientID, "Client id whose workspace to use")
	root.PersistentFlags().StringVar(&e.driver, "driver", "", "Storage driver: sqlite, postgres or memory (default from STORAGE_DRIVER)")
	root.PersistentFlags().StringVar(&e.dsn, "dsn", "", "Storage DSN (default from STORAGE_DSN)")
	root.PersistentFlags().BoolVar(&e.debug, "debug", false, "Log to stderr")

	root.AddCommand(
		newWheelCmd(e),
		newSetupCmd(e),
		newAnalyzeCmd(e),
		newHistoryCmd(e),
		newExportCmd(e),
		newPremiumCmd(e),
		newEmailCmd(e),
		newRatelimitCmd(e),
	)
	return root
}
