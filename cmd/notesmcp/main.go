package main

import (
	"flag"
	"io"
	stdlog "log"
	"log/syslog"
	"os"
	"slices"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bttk/obsidian-viewer/internal/source"
	"github.com/bttk/obsidian-viewer/pkg/config"
	"github.com/bttk/obsidian-viewer/pkg/viewermcp"
)

func main() {
	var configPath string
	var verbose bool
	flag.StringVar(&configPath, "config", "", "path to config file (default: ~/.config/obsidian-viewer/config.json)")
	flag.BoolVar(&verbose, "v", false, "enable verbose logging of input/output")
	flag.Parse()

	setupLogger()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msgf("failed to load %s", configPath)
	}

	provider, err := source.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create client")
	}
	log.Info().Msgf("Reading notes from %s", source.Describe(cfg))

	opts := cfg.ViewerOptions()
	opts.Logger = &log.Logger
	session := viewermcp.NewSession(provider, opts)

	// Create MCP Server
	s := server.NewMCPServer(
		"Notes Viewer MCP Server",
		"1.0.0",
	)

	// Register tools based on config. With no tools section every tool
	// is enabled.
	names := make([]string, 0, len(viewermcp.Registry))
	for name := range viewermcp.Registry {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		enabled, ok := cfg.MCP.Tools[name]
		switch {
		case len(cfg.MCP.Tools) == 0 || (ok && enabled):
			log.Info().Msgf("Registering tool %s", name)
			viewermcp.Registry[name](s, session)
		case !ok:
			log.Warn().Msgf("Tool %s not found in config, skipping", name)
		}
	}

	// Start the server using Stdio
	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	if verbose {
		in = &loggingReader{os.Stdin}
		out = &loggingWriter{os.Stdout}
	}
	if err := ServeStdio(s, in, out); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}

func setupLogger() {
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Stamp,
	}}
	// Syslog is best effort.
	if syslogger, err := syslog.New(syslog.LOG_INFO|syslog.LOG_USER, "notesmcp"); err == nil {
		writers = append(writers, zerolog.SyslogLevelWriter(syslogger))
	} else {
		stdlog.Printf("syslog unavailable: %v", err)
	}
	log.Logger = log.Output(zerolog.MultiLevelWriter(writers...))
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
