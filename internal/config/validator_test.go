package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(r *ValidationResult) []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Field)
	}
	return out
}

func TestValidate_ValidConfig(t *testing.T) {
	scopes := writeConfig(t, "scopes.yml", "scopes: []\n")
	path := writeConfig(t, "config.yml", `
search_path: [src, lib/*]
scopes_files: [`+scopes+`]
fuzziness: boundary
extra_metadata: [doc]
timeout: 200ms
layout:
  archive_suffixes: [.jar]
`)

	result, err := Validate(path)
	require.NoError(t, err)
	assert.True(t, result.Valid, result.Errors)
	assert.Empty(t, result.Errors)
}

func TestValidate_FileNotFound(t *testing.T) {
	_, err := Validate("/nonexistent/path/config.yml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestValidate_InvalidSyntax(t *testing.T) {
	result, err := Validate(writeConfig(t, "config.yml", "fuzziness: [unclosed"))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"syntax"}, fields(result))
}

func TestValidate_SchemaViolations(t *testing.T) {
	result, err := Validate(writeConfig(t, "config.yml", `
fuzziness: levenshtein
max_results: -1
unknown_key: true
`))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.GreaterOrEqual(t, len(result.Errors), 3)
}

func TestValidate_SemanticErrors(t *testing.T) {
	result, err := Validate(writeConfig(t, "config.yml", `
search_path: ["jrt:/java.base"]
scopes_files: [/does/not/exist.yml]
extra_metadata: [colour]
timeout: soon
layout:
  class_suffix: class
`))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.ElementsMatch(t, []string{
		"search_path/0",
		"scopes_files/0",
		"extra_metadata",
		"timeout",
		"layout/class_suffix",
	}, fields(result))
}

func TestValidate_TOMLAndJSON(t *testing.T) {
	result, err := Validate(writeConfig(t, "config.toml", "fuzziness = \"skip\"\n"))
	require.NoError(t, err)
	assert.True(t, result.Valid, result.Errors)

	result, err = Validate(writeConfig(t, "config.json", `{"max_results": "many"}`))
	require.NoError(t, err)
	assert.False(t, result.Valid)

	result, err = Validate(writeConfig(t, "config.json", `{"max_results": `))
	require.NoError(t, err)
	assert.Equal(t, []string{"syntax"}, fields(result))
}

func TestGetSchemaJSON(t *testing.T) {
	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(GetSchemaJSON()), &schema))

	assert.Equal(t, SchemaID, schema["$id"])
	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"search_path", "fuzziness", "scan_archives", "layout", "timeout"} {
		assert.Contains(t, props, key)
	}
	assert.NotContains(t, props, "Path")
}

func TestValidate_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	result, err := Validate(path)
	require.NoError(t, err)
	assert.True(t, result.Valid, result.Errors)
}
