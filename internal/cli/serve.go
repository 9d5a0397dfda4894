package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/timsgardner/compliment/internal/server"
	"github.com/timsgardner/compliment/internal/watch"
)

// Transports accepted by Serve.
const (
	TransportMCP     = "mcp"
	TransportMsgpack = "msgpack"
)

// ServeParams contains parameters for the Serve command
type ServeParams struct {
	CommonParams
	Transport string
	// Watch forces file watching on; otherwise the configuration decides.
	Watch bool
	// In is the request stream; nil means stdin. Responses go to Out.
	In io.Reader
}

// Serve answers requests on stdin/stdout until the input closes or ctx
// is done
func Serve(ctx context.Context, params ServeParams) error {
	if params.Transport != TransportMCP && params.Transport != TransportMsgpack {
		return fmt.Errorf("unknown transport %q (want %s or %s)", params.Transport, TransportMCP, TransportMsgpack)
	}

	c, err := initializeComponents(params.CommonParams)
	if err != nil {
		return err
	}

	timeout, err := c.config.TimeoutDuration()
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	opts := []server.Option{
		server.WithTimeout(timeout),
		server.WithConfigPath(c.config.Path),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if params.Watch || c.config.Watch {
		debounce, err := c.config.DebounceDuration()
		if err != nil {
			return fmt.Errorf("invalid watch_debounce: %w", err)
		}
		w, err := watch.New(c.index, c.engine.FlushCaches, debounce, c.log)
		if err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		opts = append(opts, server.OnRootAdded(w.Sync))
		g.Go(func() error { return w.Run(ctx) })
	}

	in := params.In
	if in == nil {
		in = os.Stdin
	}
	backend := server.NewBackend(c.engine, c.log, opts...)

	g.Go(func() error {
		// The watcher stops with the transport.
		defer cancel()
		c.log.Info().Str("transport", params.Transport).Msg("serving")
		if params.Transport == TransportMCP {
			return server.NewMCP(backend).Serve(ctx, in, params.out())
		}
		return server.NewIPC(backend).Serve(ctx, in, params.out())
	})

	return g.Wait()
}
