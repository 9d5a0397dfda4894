//go:build dev

// Package trace provides runtime tracing for development builds.
// This is the dev version with actual tracing support via runtime/trace.
//
// Usage:
//
//	COMPLIMENT_TRACE=trace.out compliment complete ma --scope user
//	go tool trace trace.out
package trace

import (
	"context"
	"fmt"
	"os"
	"runtime/trace"
	"sync"
	"sync/atomic"
)

// EnvVar names the file receiving the trace.
const EnvVar = "COMPLIMENT_TRACE"

var (
	traceFile   *os.File
	traceMu     sync.Mutex
	traceActive atomic.Bool
)

// Init starts tracing if COMPLIMENT_TRACE names a file. The returned
// function stops it and must be deferred.
func Init() func() {
	tracePath := os.Getenv(EnvVar)
	if tracePath == "" {
		return func() {}
	}

	traceMu.Lock()
	defer traceMu.Unlock()

	var err error
	traceFile, err = os.Create(tracePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compliment: failed to create trace file %s: %v\n", tracePath, err)
		return func() {}
	}

	if err := trace.Start(traceFile); err != nil {
		fmt.Fprintf(os.Stderr, "compliment: failed to start trace: %v\n", err)
		traceFile.Close()
		traceFile = nil
		return func() {}
	}
	traceActive.Store(true)

	return func() {
		traceMu.Lock()
		defer traceMu.Unlock()

		if traceActive.Swap(false) {
			trace.Stop()
		}
		if traceFile != nil {
			traceFile.Close()
			traceFile = nil
		}
	}
}

// Region starts a trace region and returns the function ending it.
func Region(ctx context.Context, name string) func() {
	if !traceActive.Load() {
		return func() {}
	}
	return trace.StartRegion(ctx, name).End
}

// Log writes a message to the trace.
func Log(ctx context.Context, category, message string) {
	if traceActive.Load() {
		trace.Log(ctx, category, message)
	}
}

// WithRegion runs f inside a trace region.
func WithRegion(ctx context.Context, name string, f func()) {
	if traceActive.Load() {
		trace.WithRegion(ctx, name, f)
		return
	}
	f()
}

// IsEnabled reports whether a trace is being recorded.
func IsEnabled() bool {
	return traceActive.Load()
}
