package cli

import (
	"fmt"
	"os"

	"github.com/timsgardner/compliment/internal/config"
)

// Schema displays or exports the JSON Schema for compliment configuration files
func Schema(params CommonParams, outputPath string) error {
	schemaJSON := config.GetSchemaJSON()

	// If output path is provided, write to file
	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(schemaJSON), 0644); err != nil {
			return fmt.Errorf("failed to write schema to %s: %w", outputPath, err)
		}
		_, _ = fmt.Fprintf(params.out(), "JSON Schema written to: %s\n", outputPath)
		return nil
	}

	// Otherwise, print to stdout
	_, err := fmt.Fprintln(params.out(), schemaJSON)
	return err
}
