// Package cli is the interactive front-end of the desktop client. It is a
// thin layer: every data operation goes through the sync facade, and
// activation goes through the activation manager.
package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/progitman/progitman/internal/client/activation"
	"github.com/progitman/progitman/internal/client/config"
	"github.com/progitman/progitman/internal/client/hybrid"
	"github.com/progitman/progitman/internal/client/local"
	"github.com/progitman/progitman/internal/client/remote"
	"github.com/progitman/progitman/internal/cryptox"
	"github.com/progitman/progitman/internal/logging"
)

type App struct {
	config     *config.Config
	service    *hybrid.Service
	activation *activation.Manager
	remote     *remote.Client
	reader     *bufio.Reader
	logger     logging.Logger
	online     bool
}

// NewApp wires the client: field cipher, on-device store, remote adapter,
// sync facade and activation manager, each constructed once and passed in
// explicitly.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cipher, err := cryptox.NewDefault()
	if err != nil {
		return nil, err
	}

	db, err := local.OpenDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	localStore := local.NewRepository(db)
	remoteStore := remote.NewClient(c.ServerEndpointAddr, c.RequestTimeout, cipher, logger)

	svc := hybrid.NewService(localStore, remoteStore, logger)
	act := activation.NewManager(svc, activation.ExecRunner{}, logger)

	return &App{
		config:     c,
		service:    svc,
		activation: act,
		remote:     remoteStore,
		reader:     bufio.NewReader(os.Stdin),
		logger:     logger.With("module", "cli"),
	}, nil
}

// Run authenticates against the vault service (best effort; a failure just
// means the session starts in degraded local-only mode) and enters the REPL.
func (a *App) Run(ctx context.Context) {
	if err := a.remote.Login(ctx, a.config.ServerUser, a.config.ServerPassword); err != nil {
		a.logger.Warn(ctx, "vault login failed, starting in local-only mode", "error", err)
	} else {
		a.online = true
	}

	a.Root(ctx)
}
