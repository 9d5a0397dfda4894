package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/timsgardner/compliment/internal/pathindex"
)

// ValidationError represents a validation error with details
type ValidationError struct {
	Field   string
	Message string
}

// ValidationResult contains the results of config validation
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

func (r *ValidationResult) addError(field, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

// Validate checks a config file: syntax and schema first, then values
// the schema cannot express.
func Validate(path string) (*ValidationResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}

	result, err := ValidateWithSchema(path, content)
	if err != nil || !result.Valid {
		return result, err
	}

	cfg, err := New().Load(path)
	if err != nil {
		result.addError("syntax", fmt.Sprintf("Failed to parse config: %v", err))
		return result, nil
	}

	if _, err := cfg.Policy(); err != nil {
		result.addError("fuzziness", err.Error())
	}
	if _, err := cfg.Extras(); err != nil {
		result.addError("extra_metadata", err.Error())
	}
	if _, err := cfg.TimeoutDuration(); err != nil {
		result.addError("timeout", fmt.Sprintf("Invalid duration: %v", err))
	}
	if _, err := cfg.DebounceDuration(); err != nil {
		result.addError("watch_debounce", fmt.Sprintf("Invalid duration: %v", err))
	}
	for i, f := range cfg.ScopesFiles {
		if _, err := os.Stat(f); err != nil {
			result.addError(fmt.Sprintf("scopes_files/%d", i), fmt.Sprintf("Scopes file not readable: %s", f))
		}
	}
	for i, root := range cfg.SearchPath {
		if pathindex.KindOf(root, cfg.Layout) == pathindex.KindUnsupported {
			result.addError(fmt.Sprintf("search_path/%d", i), fmt.Sprintf("Root cannot be listed on this platform: %s", root))
		}
	}
	validateLayout(cfg.Layout, result)

	return result, nil
}

func validateLayout(l pathindex.Layout, result *ValidationResult) {
	for field, suffix := range map[string]string{
		"layout/class_suffix":  l.ClassSuffix,
		"layout/source_suffix": l.SourceSuffix,
	} {
		if !strings.HasPrefix(suffix, ".") {
			result.addError(field, fmt.Sprintf("Suffix must start with a dot: %q", suffix))
		}
	}
	if len(l.ArchiveSuffixes) == 0 {
		result.addError("layout/archive_suffixes", "At least one archive suffix is required")
	}
}
