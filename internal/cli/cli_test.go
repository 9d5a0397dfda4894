package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/timsgardner/compliment/internal/server"
)

const scopesYAML = `
scopes:
  - name: clojure.core
    doc: Core library.
    symbols:
      - {name: map, kind: function, arglists: ["[f coll]"], doc: Maps f over coll.}
      - {name: mapv, kind: function}
  - name: user
    refers: [clojure.core]
`

// setup writes a project with a source tree, a scopes file and a config
// pointing at both, and returns the config path.
func setup(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("COMPLIMENT_CONFIG", "")
	t.Setenv("COMPLIMENT_PATH", "")

	dir := t.TempDir()
	for _, f := range []string{"src/my_app/core.clj", "src/public/app.css", "src/java/util/Thing.class"} {
		p := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, nil, 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scopes.yml"), []byte(scopesYAML), 0644))

	configPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
search_path: [src]
scopes_files: [scopes.yml]
log_level: error
`), 0644))
	return configPath
}

func common(configPath string, out io.Writer) CommonParams {
	return CommonParams{ConfigPath: configPath, Out: out, LogOutput: io.Discard}
}

func TestComplete(t *testing.T) {
	configPath := setup(t)
	var out bytes.Buffer

	err := Complete(context.Background(), CompleteParams{
		CommonParams: common(configPath, &out),
		Prefix:       "map",
		Scope:        "user",
	})
	require.NoError(t, err)
	assert.Equal(t, "map\nmapv\n", out.String())
}

func TestComplete_JSON(t *testing.T) {
	configPath := setup(t)
	var out bytes.Buffer

	err := Complete(context.Background(), CompleteParams{
		CommonParams: common(configPath, &out),
		Prefix:       "map",
		Scope:        "user",
		Extra:        []string{"doc"},
		Limit:        1,
		JSON:         true,
	})
	require.NoError(t, err)

	var cands []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &cands))
	require.Len(t, cands, 1)
	assert.Equal(t, "map", cands[0]["candidate"])
	assert.Equal(t, "Maps f over coll.", cands[0]["doc"])
}

func TestComplete_Format(t *testing.T) {
	configPath := setup(t)
	var out bytes.Buffer

	err := Complete(context.Background(), CompleteParams{
		CommonParams: common(configPath, &out),
		Prefix:       "my",
		Format:       `{{ .Text | upper }} {{ .Origin }}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "MY-APP.CORE namespaces\n", out.String())

	err = Complete(context.Background(), CompleteParams{
		CommonParams: common(configPath, &out),
		Prefix:       "my",
		Format:       `{{ .Text `,
	})
	assert.Error(t, err)
}

func TestComplete_BadFuzziness(t *testing.T) {
	configPath := setup(t)
	err := Complete(context.Background(), CompleteParams{
		CommonParams: common(configPath, io.Discard),
		Prefix:       "m",
		Fuzziness:    "wild",
	})
	assert.Error(t, err)
}

func TestDoc(t *testing.T) {
	configPath := setup(t)
	var out bytes.Buffer

	require.NoError(t, Doc(DocParams{CommonParams: common(configPath, &out), Symbol: "map", Scope: "user"}))
	assert.Contains(t, out.String(), "clojure.core/map")
	assert.Contains(t, out.String(), "Maps f over coll.")

	err := Doc(DocParams{CommonParams: common(configPath, io.Discard), Symbol: "nope"})
	assert.Error(t, err)
}

func TestIndex(t *testing.T) {
	configPath := setup(t)

	var out bytes.Buffer
	require.NoError(t, Index(IndexParams{CommonParams: common(configPath, &out), View: ViewModules}))
	assert.Equal(t, "my-app.core\n", out.String())

	out.Reset()
	require.NoError(t, Index(IndexParams{CommonParams: common(configPath, &out), View: ViewClasses}))
	assert.Equal(t, "java.util.Thing\n", out.String())

	out.Reset()
	require.NoError(t, Index(IndexParams{CommonParams: common(configPath, &out), View: ViewResources, Format: "json"}))
	var resources []string
	require.NoError(t, json.Unmarshal(out.Bytes(), &resources))
	assert.Equal(t, []string{"public/app.css"}, resources)

	out.Reset()
	require.NoError(t, Index(IndexParams{CommonParams: common(configPath, &out), View: ViewStats, Format: "yaml"}))
	var stats map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &stats))
	assert.Equal(t, 3, stats["files"])

	assert.Error(t, Index(IndexParams{CommonParams: common(configPath, io.Discard), View: "bogus"}))
	assert.Error(t, Index(IndexParams{CommonParams: common(configPath, io.Discard), Format: "xml"}))
}

func TestStatus(t *testing.T) {
	configPath := setup(t)
	var out bytes.Buffer

	require.NoError(t, Status(common(configPath, &out)))
	assert.Contains(t, out.String(), configPath)
	assert.Contains(t, out.String(), "Search path:")
}

func TestValidate(t *testing.T) {
	configPath := setup(t)
	var out bytes.Buffer

	require.NoError(t, Validate(common(configPath, &out)))
	assert.Contains(t, out.String(), "Configuration is valid")

	bad := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(bad, []byte("fuzziness: wild\n"), 0644))
	out.Reset()
	err := Validate(common(bad, &out))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, out.String(), "error(s)")
}

func TestValidate_NoConfigFound(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("COMPLIMENT_CONFIG", "")

	err := Validate(common("", io.Discard))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no config file found")
}

func TestSchema(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Schema(common("", &out), ""))
	assert.Contains(t, out.String(), `"search_path"`)

	path := filepath.Join(t.TempDir(), "schema.json")
	out.Reset()
	require.NoError(t, Schema(common("", &out), path))
	assert.Contains(t, out.String(), "JSON Schema written to")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestServe_Msgpack(t *testing.T) {
	configPath := setup(t)

	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	require.NoError(t, enc.Encode(server.Request{ID: "1", Op: server.OpComplete, Prefix: "map", Scope: "user"}))

	var out bytes.Buffer
	err := Serve(context.Background(), ServeParams{
		CommonParams: common(configPath, &out),
		Transport:    TransportMsgpack,
		In:           &in,
	})
	require.NoError(t, err)

	dec := msgpack.NewDecoder(&out)
	var resps []server.Response
	for {
		var r server.Response
		if err := dec.Decode(&r); errors.Is(err, io.EOF) {
			break
		} else {
			require.NoError(t, err)
		}
		resps = append(resps, r)
	}
	require.Len(t, resps, 2)
	assert.Equal(t, "ready", resps[0].Status)
	assert.Equal(t, 2, resps[1].Count)
}

func TestServe_UnknownTransport(t *testing.T) {
	err := Serve(context.Background(), ServeParams{Transport: "carrier-pigeon"})
	assert.Error(t, err)
}
