package cmd

import (
	"fmt"
	"log/slog"

	"pianostore/internal/api"
	"pianostore/internal/cart"
	"pianostore/internal/config"
	"pianostore/internal/dashboard"
	"pianostore/internal/location"
	"pianostore/internal/prefs"
	"pianostore/internal/session"
	"pianostore/internal/util"
	"pianostore/pkg/kvstore"
)

// app wires the stores to one shared API client for a single invocation.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	state     kvstore.Store
	session   *session.Store
	cart      *cart.Store
	locations *location.Store
	dashboard *dashboard.Client
	prefs     *prefs.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	logger := util.InitLogger(cfg.LogLevel)

	var state kvstore.Store
	switch cfg.StateBackend {
	case "memory":
		state = kvstore.NewMemory()
	case "redis":
		state = kvstore.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisPrefix)
	default:
		state, err = kvstore.NewFile(cfg.StatePath)
		if err != nil {
			return nil, err
		}
	}

	apiClient, err := api.New(api.Options{
		BaseURL:       cfg.BaseURL,
		Timeout:       cfg.Timeout(),
		DefaultLocale: cfg.DefaultLocale,
		State:         state,
	})
	if err != nil {
		return nil, err
	}

	sess := session.New(apiClient, state, logger)
	return &app{
		cfg:       cfg,
		logger:    logger,
		state:     state,
		session:   sess,
		cart:      cart.New(apiClient, sess, logger),
		locations: location.New(apiClient, logger),
		dashboard: dashboard.New(apiClient),
		prefs:     prefs.New(state),
	}, nil
}

// requireAuth initializes the session and fails when no token is held.
func (a *app) requireAuth() error {
	a.session.InitAuth()
	if !a.session.IsAuthenticated() {
		return fmt.Errorf("not logged in; run: storectl login --token <token>")
	}
	return nil
}
