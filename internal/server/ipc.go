package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/timsgardner/compliment/internal/completion"
	"github.com/timsgardner/compliment/internal/derrors"
	"github.com/timsgardner/compliment/internal/index"
)

// IPC operations.
const (
	OpComplete = "complete"
	OpDoc      = "doc"
	OpFlush    = "flush"
	OpAddRoot  = "add_root"
	OpStatus   = "status"
	OpHealth   = "health"
)

// Request is one msgpack-encoded message read from the client.
type Request struct {
	ID        string   `msgpack:"id"`
	Op        string   `msgpack:"op"`
	Prefix    string   `msgpack:"prefix,omitempty"`
	Scope     string   `msgpack:"ns,omitempty"`
	Context   string   `msgpack:"context,omitempty"`
	Fuzziness string   `msgpack:"fuzziness,omitempty"`
	Extra     []string `msgpack:"extra,omitempty"`
	Limit     int      `msgpack:"limit,omitempty"`
	Symbol    string   `msgpack:"symbol,omitempty"`
	Root      string   `msgpack:"root,omitempty"`
}

// Response answers one Request. Status is "ok" or "error"; the first
// message of a session has ID "" and Status "ready".
type Response struct {
	ID         string                 `msgpack:"id"`
	Status     string                 `msgpack:"status"`
	Candidates []completion.Candidate `msgpack:"candidates,omitempty"`
	Count      int                    `msgpack:"count,omitempty"`
	TimeTaken  int64                  `msgpack:"t,omitempty"`
	Doc        string                 `msgpack:"doc,omitempty"`
	Added      bool                   `msgpack:"added,omitempty"`
	Stats      *index.Stats           `msgpack:"stats,omitempty"`
	Error      string                 `msgpack:"error,omitempty"`
	Code       string                 `msgpack:"code,omitempty"`
}

// IPC serves the backend over a stream of msgpack messages.
type IPC struct {
	backend *Backend
}

// NewIPC creates a stream server for b.
func NewIPC(b *Backend) *IPC {
	return &IPC{backend: b}
}

// Serve reads requests from r and writes responses to w until r is
// exhausted or ctx is done. Requests are handled in order.
func (s *IPC) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	dec := msgpack.NewDecoder(r)
	enc := msgpack.NewEncoder(w)
	enc.SetOmitEmpty(true)

	if err := enc.Encode(Response{Status: "ready"}); err != nil {
		return err
	}
	s.backend.log.Debug().Msg("ipc server ready")

	for {
		if ctx.Err() != nil {
			return nil
		}
		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			// The stream cannot be resynchronised after a framing error.
			_ = enc.Encode(Response{Status: "error", Error: fmt.Sprintf("invalid request: %v", err), Code: "VALIDATION_ERROR"})
			return fmt.Errorf("failed to decode request: %w", err)
		}
		if err := enc.Encode(s.Handle(ctx, req)); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
}

// Handle executes one request.
func (s *IPC) Handle(ctx context.Context, req Request) Response {
	start := time.Now()
	resp := Response{ID: req.ID, Status: "ok"}

	switch req.Op {
	case OpComplete:
		cands, err := s.backend.Complete(ctx, Params{
			Prefix:    req.Prefix,
			Scope:     req.Scope,
			Context:   req.Context,
			Fuzziness: req.Fuzziness,
			Extra:     req.Extra,
			Limit:     req.Limit,
		})
		if err != nil {
			return errorResponse(req.ID, err)
		}
		resp.Candidates = cands
		resp.Count = len(cands)
	case OpDoc:
		if req.Symbol == "" {
			return errorResponse(req.ID, derrors.NewValidationError("symbol", "symbol is required", nil))
		}
		resp.Doc = s.backend.Documentation(req.Symbol, req.Scope)
	case OpFlush:
		s.backend.Flush()
	case OpAddRoot:
		added, err := s.backend.AddRoot(req.Root)
		if err != nil {
			return errorResponse(req.ID, err)
		}
		resp.Added = added
	case OpStatus:
		data := s.backend.Status()
		resp.Stats = &data.Stats
	case OpHealth:
	default:
		return errorResponse(req.ID, derrors.NewValidationError("op", fmt.Sprintf("unknown op %q", req.Op), nil))
	}

	resp.TimeTaken = time.Since(start).Milliseconds()
	return resp
}

func errorResponse(id string, err error) Response {
	code := derrors.CodeOf(err)
	if code == "" {
		code = "INTERNAL_ERROR"
	}
	return Response{ID: id, Status: "error", Error: err.Error(), Code: code}
}
