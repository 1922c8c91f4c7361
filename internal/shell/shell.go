// Package shell implements the line-oriented interactive loop of the client.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vinzlac/mcp-server-brave-test/internal/orchestrator"
)

// Asker answers one query. It is implemented by session.Session.
type Asker interface {
	Ask(ctx context.Context, query string) (orchestrator.Outcome, error)
}

// Options configures a Shell.
type Options struct {
	In       io.Reader
	Out      io.Writer
	Renderer *Renderer
	Logger   zerolog.Logger
}

// Shell reads queries line by line and prints each answer before reading
// the next line.
type Shell struct {
	asker    Asker
	in       *bufio.Scanner
	out      io.Writer
	renderer *Renderer
	logger   zerolog.Logger
}

// New creates a shell.
func New(asker Asker, opts Options) *Shell {
	renderer := opts.Renderer
	if renderer == nil {
		renderer = PlainRenderer()
	}
	scanner := bufio.NewScanner(opts.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Shell{
		asker:    asker,
		in:       scanner,
		out:      opts.Out,
		renderer: renderer,
		logger:   opts.Logger.With().Str("component", "shell").Logger(),
	}
}

// IsExit reports whether line ends the session.
func IsExit(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "quit", "exit":
		return true
	}
	return false
}

// Run loops until quit, end of input or ctx is done. Query failures are
// printed and the loop continues.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprint(s.out, s.renderer.Banner())
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, s.renderer.Prompt())
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}
		if IsExit(line) {
			return nil
		}

		out, err := s.asker.Ask(ctx, line)
		if err != nil {
			s.logger.Debug().Err(err).Msg("query failed")
			fmt.Fprint(s.out, s.renderer.Error(out, err))
			continue
		}
		fmt.Fprint(s.out, s.renderer.Answer(out))
	}
}
