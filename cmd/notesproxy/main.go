package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bttk/obsidian-viewer/internal/source"
	"github.com/bttk/obsidian-viewer/pkg/config"
	"github.com/bttk/obsidian-viewer/pkg/content"
	"github.com/bttk/obsidian-viewer/pkg/proxy"
)

func main() {
	var configPath, listen string
	var debug bool
	flag.StringVar(&configPath, "config", "", "path to config file (default: ~/.config/obsidian-viewer/config.json)")
	flag.StringVar(&listen, "listen", "", "address to listen on (overrides proxy.listen)")
	flag.BoolVar(&debug, "debug", false, "enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msgf("failed to load %s", configPath)
	}
	if cfg.Source == config.SourceProxy {
		log.Fatal().Msg("source must not be proxy when serving the proxy")
	}
	if listen == "" {
		listen = cfg.Proxy.Listen
	}

	provider, err := source.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create client")
	}

	srv := &http.Server{
		Addr:              listen,
		Handler:           newMux(cfg, provider),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("listen", listen).Msgf("Serving %s", source.Describe(cfg))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server error")
	}
}

func newMux(cfg *config.Config, provider content.Provider) *http.ServeMux {
	handler := proxy.NewHandler(provider,
		proxy.WithCache(cfg.CacheTTL()),
		proxy.WithFilter(content.Filter{Excluded: cfg.Viewer.ExcludedPaths}),
	)

	var api http.Handler = proxy.Middleware(handler)
	if cfg.Proxy.Auth.Enabled {
		api = proxy.BasicAuth(cfg.Proxy.Auth.Realm, cfg.Proxy.Auth.Users, api)
	}

	mux := http.NewServeMux()
	mux.Handle("/api", api)
	mux.Handle("/metrics", proxy.MetricsHandler())
	return mux
}
