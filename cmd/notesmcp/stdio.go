package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
)

type loggingReader struct {
	r io.Reader
}

func (lr *loggingReader) Read(p []byte) (n int, err error) {
	n, err = lr.r.Read(p)
	if n > 0 {
		log.Info().Msgf("IN: %q", p[:n])
	}
	return n, err
}

type loggingWriter struct {
	w io.Writer
}

func (lw *loggingWriter) Write(p []byte) (n int, err error) {
	if len(p) < 50 {
		log.Info().Msgf("OUT: %q", p)
	} else {
		log.Info().Msgf("OUT: %q...", p[:50])
	}
	return lw.w.Write(p)
}

// ServeStdio serves srv over in and out until SIGINT or SIGTERM.
func ServeStdio(srv *server.MCPServer, in io.Reader, out io.Writer) error {
	s := server.NewStdioServer(srv)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return s.Listen(ctx, in, out)
}
