// Command walletwatch is a headless CC-Track client: it establishes a
// session from the stored (or configured) credentials and keeps the finance
// collections fresh by polling, logging every refresh. It exercises the full
// session layer: store, gateway, guard, and poll subscriptions.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cctrack/wallet-client/internal/api"
	"github.com/cctrack/wallet-client/internal/core/domain"
	"github.com/cctrack/wallet-client/internal/core/service"
	"github.com/cctrack/wallet-client/internal/gateway"
	"github.com/cctrack/wallet-client/internal/infrastructure/config"
	"github.com/cctrack/wallet-client/internal/infrastructure/db/sqlite"
	"github.com/cctrack/wallet-client/internal/nav"
	"github.com/cctrack/wallet-client/internal/poll"
	"github.com/cctrack/wallet-client/pkg/logger"
)

// watchedViews maps each guarded view to the collection it renders.
var watchedViews = []struct {
	path     string
	resource string
}{
	{nav.PathCards, "/api/cards"},
	{nav.PathTransactions, "/api/transactions"},
	{nav.PathLending, "/api/lending"},
	{nav.PathSubscriptions, "/api/subscriptions"},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "walletwatch:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	store, err := sqlite.Open(cfg.StatePath)
	if err != nil {
		return err
	}
	defer store.Close()

	gw, err := gateway.New(gateway.Options{
		BaseURL: cfg.ServerURL,
		Timeout: cfg.RequestTimeout,
		Store:   store,
		Logger:  log,
	})
	if err != nil {
		return err
	}

	client := api.NewClient(gw)
	sessions := service.NewSessionService(store, client, log)
	sessions.OnAuthenticated(gw.ResetAuthLatch)

	poller := poll.NewController(gw, log)
	gw.OnAuthFailure(func() {
		sessions.Logout()
		poller.CancelAll()
		log.Warn().Str("redirect", nav.PathLogin).Msg("session invalidated by backend")
	})

	// The initial credential check runs before any navigation decision.
	if err := sessions.Initialize(); err != nil {
		log.Error().Err(err).Msg("session initialization degraded")
	}

	if sessions.Status() != domain.StatusAuthenticated {
		if cfg.Username == "" {
			return fmt.Errorf("no stored session; set CCTRACK_USERNAME and CCTRACK_PASSWORD to log in")
		}
		if err := sessions.Login(ctx, cfg.Username, cfg.Password); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	if identity, ok := sessions.CurrentUser(); ok {
		log.Info().Str("subject", identity.Subject).Msg("session established")
	}

	for _, view := range watchedViews {
		decision := nav.Guard(sessions.Status(), view.path)
		if decision.Action != nav.ActionRender {
			log.Warn().Str("view", view.path).Msg("view not permitted, skipping watch")
			continue
		}

		view := view
		poller.Subscribe(view.path, view.resource, cfg.PollInterval, func(data json.RawMessage) {
			var records []json.RawMessage
			if err := json.Unmarshal(data, &records); err != nil {
				log.Warn().Err(err).Str("view", view.path).Msg("unexpected collection shape")
				return
			}
			log.Info().Str("view", view.path).Int("records", len(records)).Msg("collection refreshed")
		})
	}
	defer poller.CancelAll()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	return nil
}
