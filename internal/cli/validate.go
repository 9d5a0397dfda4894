package cli

import (
	"fmt"

	"github.com/timsgardner/compliment/internal/config"
)

// Validate validates a compliment configuration file
func Validate(params CommonParams) error {
	configPath := config.Find(params.ConfigPath)
	if configPath == "" {
		return fmt.Errorf("no config file found (use --config or $%s)", config.EnvConfigPath)
	}

	out := params.out()
	_, _ = fmt.Fprintf(out, "Validating: %s\n\n", configPath)

	result, err := config.Validate(configPath)
	if err != nil {
		return err
	}

	if result.Valid {
		_, _ = fmt.Fprintln(out, "✅ Configuration is valid!")
		return nil
	}

	// Display errors
	_, _ = fmt.Fprintln(out, "❌ Configuration has errors:")
	for i, validationErr := range result.Errors {
		_, _ = fmt.Fprintf(out, "%d. [%s] %s\n", i+1, validationErr.Field, validationErr.Message)
	}

	_, _ = fmt.Fprintf(out, "\nFound %d error(s)\n", len(result.Errors))

	// Return non-zero exit code
	return fmt.Errorf("validation failed")
}
