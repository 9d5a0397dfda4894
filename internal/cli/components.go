// Package cli implements the compliment commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/timsgardner/compliment/internal/codectx"
	"github.com/timsgardner/compliment/internal/completion"
	"github.com/timsgardner/compliment/internal/config"
	"github.com/timsgardner/compliment/internal/index"
	"github.com/timsgardner/compliment/internal/logger"
	"github.com/timsgardner/compliment/internal/pathindex"
	"github.com/timsgardner/compliment/internal/scope"
	"github.com/timsgardner/compliment/internal/trace"
)

// CommonParams are the global flags every command receives.
type CommonParams struct {
	// ConfigPath is the --config flag; empty means look it up.
	ConfigPath string
	// LogLevel overrides the configured level when set.
	LogLevel string
	// Out receives command output; nil means stdout.
	Out io.Writer
	// LogOutput receives log lines; nil means stderr.
	LogOutput io.Writer
}

func (p CommonParams) out() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

// components holds the initialized compliment components
type components struct {
	config *config.Config
	log    *logger.Logger
	index  *index.Index
	engine *completion.Engine
}

// initializeComponents loads the configuration and builds the engine
func initializeComponents(params CommonParams) (*components, error) {
	cfg, err := config.New().Load(config.Find(params.ConfigPath))
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if params.LogLevel != "" {
		level = params.LogLevel
	}
	logOutput := params.LogOutput
	if logOutput == nil {
		logOutput = os.Stderr
	}
	log := logger.New(level, logOutput)
	if trace.IsEnabled() {
		log.Debug().Msg("runtime trace active")
	}

	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	reg := scope.NewRegistry()
	for _, f := range cfg.ScopesFiles {
		n, err := reg.LoadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to load scopes: %w", err)
		}
		log.Debug().Str("file", f).Int("scopes", n).Msg("scopes loaded")
	}

	scanner := pathindex.NewScanner(cfg.Layout, log)
	ix := index.New(index.NewSearchPath(cfg.SearchPath, cfg.SearchPathEnv), scanner, log)
	parser := codectx.NewParser(cfg.ContextCache, log)

	return &components{
		config: cfg,
		log:    log,
		index:  ix,
		engine: completion.NewEngine(ix, reg, parser, opts, log),
	}, nil
}
