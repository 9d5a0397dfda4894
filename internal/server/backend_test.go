package server

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timsgardner/compliment/internal/completion"
	"github.com/timsgardner/compliment/internal/derrors"
	"github.com/timsgardner/compliment/internal/index"
	"github.com/timsgardner/compliment/internal/pathindex"
	"github.com/timsgardner/compliment/internal/scope"
)

const scopesYAML = `
scopes:
  - name: clojure.core
    symbols:
      - {name: map, kind: function, arglists: ["[f coll]"], doc: Maps f over coll.}
      - {name: mapv, kind: function}
      - {name: remove-method, kind: function}
  - name: user
    refers: [clojure.core]
`

func newBackend(t *testing.T, opts ...Option) *Backend {
	t.Helper()
	reg := scope.NewRegistry()
	_, err := reg.Load(strings.NewReader(scopesYAML))
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "my_app"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "my_app", "core.clj"), nil, 0644))

	ix := index.New(index.NewSearchPath([]string{src}, ""), pathindex.NewScanner(pathindex.DefaultLayout(), nil), nil)
	e := completion.NewEngine(ix, reg, nil, completion.DefaultOptions(), nil)
	return NewBackend(e, nil, opts...)
}

func candidateTexts(cs []completion.Candidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Text)
	}
	return out
}

func TestBackend_Complete(t *testing.T) {
	b := newBackend(t)

	cands, err := b.Complete(context.Background(), Params{Prefix: "map", Scope: "user"})
	require.NoError(t, err)
	assert.Equal(t, []string{"map", "mapv"}, candidateTexts(cands))
	assert.Empty(t, cands[0].Doc, "metadata is off by default")

	cands, err = b.Complete(context.Background(), Params{Prefix: "map", Scope: "user", Extra: []string{"doc"}, Limit: 1})
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "Maps f over coll.", cands[0].Doc)
}

func TestBackend_CompleteEmptyExtraKeepsDefaults(t *testing.T) {
	reg := scope.NewRegistry()
	_, err := reg.Load(strings.NewReader(scopesYAML))
	require.NoError(t, err)
	opts := completion.DefaultOptions()
	opts.Extra = completion.ExtraDoc
	b := NewBackend(completion.NewEngine(nil, reg, nil, opts, nil), nil)

	cands, err := b.Complete(context.Background(), Params{Prefix: "map", Scope: "user", Extra: []string{}})
	require.NoError(t, err)
	require.NotEmpty(t, cands)
	assert.Equal(t, "Maps f over coll.", cands[0].Doc)
}

func TestBackend_CompletePolicyOverride(t *testing.T) {
	b := newBackend(t)

	cands, err := b.Complete(context.Background(), Params{Prefix: "re-me", Scope: "user"})
	require.NoError(t, err)
	assert.Contains(t, candidateTexts(cands), "remove-method")

	cands, err = b.Complete(context.Background(), Params{Prefix: "re-me", Scope: "user", Fuzziness: "boundary"})
	require.NoError(t, err)
	assert.NotContains(t, candidateTexts(cands), "remove-method")
}

func TestBackend_CompleteRejectsBadParams(t *testing.T) {
	b := newBackend(t)

	_, err := b.Complete(context.Background(), Params{Prefix: "m", Fuzziness: "wild"})
	assert.Equal(t, "VALIDATION_ERROR", derrors.CodeOf(err))

	_, err = b.Complete(context.Background(), Params{Prefix: "m", Extra: []string{"colour"}})
	assert.Equal(t, "VALIDATION_ERROR", derrors.CodeOf(err))

	_, err = b.Complete(context.Background(), Params{Prefix: "m", Limit: -1})
	assert.Equal(t, "VALIDATION_ERROR", derrors.CodeOf(err))
}

func TestBackend_AddRoot(t *testing.T) {
	calls := 0
	b := newBackend(t, OnRootAdded(func() { calls++ }))

	_, err := b.AddRoot("  ")
	assert.Equal(t, "VALIDATION_ERROR", derrors.CodeOf(err))

	lib := t.TempDir()
	added, err := b.AddRoot(lib)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = b.AddRoot(lib)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 1, calls)
	assert.Contains(t, b.Engine().Index().SearchPath().Roots(), lib)
}

func TestBackend_Status(t *testing.T) {
	b := newBackend(t, WithConfigPath("/etc/compliment.yml"))
	data := b.Status()
	assert.Equal(t, "/etc/compliment.yml", data.ConfigPath)
	assert.Equal(t, 1, data.Stats.Modules)
}
