package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// SchemaID identifies the generated schema.
const SchemaID = "https://github.com/timsgardner/compliment/config.schema.json"

var (
	schemaOnce sync.Once
	schemaJSON string
)

// GetSchemaJSON returns the JSON Schema for the configuration file,
// generated from the Config type.
func GetSchemaJSON() string {
	schemaOnce.Do(func() {
		r := &jsonschema.Reflector{
			ExpandedStruct:             true,
			DoNotReference:             true,
			AllowAdditionalProperties:  false,
			RequiredFromJSONSchemaTags: true,
		}
		s := r.Reflect(&Config{})
		// draft-07 is what gojsonschema and most editors understand
		s.Version = "http://json-schema.org/draft-07/schema#"
		s.ID = SchemaID
		s.Title = "compliment configuration"
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			panic(fmt.Sprintf("config schema: %v", err))
		}
		schemaJSON = string(data)
	})
	return schemaJSON
}

// ValidateWithSchema checks content, the bytes of the file at path,
// against the configuration schema.
func ValidateWithSchema(path string, content []byte) (*ValidationResult, error) {
	result := &ValidationResult{
		Valid:  true,
		Errors: []ValidationError{},
	}

	var data interface{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(content, &data); err != nil {
			result.addError("syntax", fmt.Sprintf("Invalid YAML syntax: %v", err))
			return result, nil
		}
	case ".json":
		if err := json.Unmarshal(content, &data); err != nil {
			result.addError("syntax", fmt.Sprintf("Invalid JSON syntax: %v", err))
			return result, nil
		}
	case ".toml":
		m, err := toml.Parser().Unmarshal(content)
		if err != nil {
			result.addError("syntax", fmt.Sprintf("Invalid TOML syntax: %v", err))
			return result, nil
		}
		data = m
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
	if data == nil {
		// An empty file is a valid, empty configuration.
		return result, nil
	}

	schemaLoader := gojsonschema.NewStringLoader(GetSchemaJSON())
	documentLoader := gojsonschema.NewGoLoader(data)

	validationResult, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}
	if !validationResult.Valid() {
		for _, e := range validationResult.Errors() {
			result.addError(e.Field(), e.Description())
		}
	}
	return result, nil
}
