package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/timsgardner/compliment/internal/completion"
	"github.com/timsgardner/compliment/internal/server"
)

// CompleteParams contains parameters for the Complete command
type CompleteParams struct {
	CommonParams
	Prefix    string
	Scope     string
	Context   string
	Fuzziness string
	Extra     []string
	Limit     int
	// Timeout overrides the configured deadline when non-zero.
	Timeout time.Duration
	// Format is a text/template executed once per candidate.
	Format string
	JSON   bool
}

// Complete prints the completions for a prefix, one per line
func Complete(ctx context.Context, params CompleteParams) error {
	c, err := initializeComponents(params.CommonParams)
	if err != nil {
		return err
	}

	timeout := params.Timeout
	if timeout == 0 {
		if timeout, err = c.config.TimeoutDuration(); err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
	}

	b := server.NewBackend(c.engine, c.log, server.WithTimeout(timeout))
	cands, err := b.Complete(ctx, server.Params{
		Prefix:    params.Prefix,
		Scope:     params.Scope,
		Context:   params.Context,
		Fuzziness: params.Fuzziness,
		Extra:     params.Extra,
		Limit:     params.Limit,
	})
	if err != nil {
		return err
	}

	return writeCandidates(params, cands)
}

func writeCandidates(params CompleteParams, cands []completion.Candidate) error {
	out := params.out()
	switch {
	case params.JSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cands)
	case params.Format != "":
		format := params.Format
		if !strings.HasSuffix(format, "\n") {
			format += "\n"
		}
		tmpl, err := template.New("candidate").Funcs(sprig.TxtFuncMap()).Parse(format)
		if err != nil {
			return fmt.Errorf("invalid format: %w", err)
		}
		for _, c := range cands {
			if err := tmpl.Execute(out, c); err != nil {
				return fmt.Errorf("failed to render %s: %w", c.Text, err)
			}
		}
		return nil
	default:
		for _, c := range cands {
			if _, err := fmt.Fprintln(out, c.Text); err != nil {
				return err
			}
		}
		return nil
	}
}
