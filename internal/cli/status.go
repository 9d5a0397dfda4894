package cli

import (
	"fmt"

	"github.com/timsgardner/compliment/internal/status"
)

// Status displays the search path, scopes and cache state
func Status(params CommonParams) error {
	c, err := initializeComponents(params)
	if err != nil {
		return err
	}

	output := status.Render(status.Collect(c.engine, c.config.Path))
	_, err = fmt.Fprintln(params.out(), output)
	return err
}
