package cli

import (
	"fmt"
	"strings"
)

// DocParams contains parameters for the Doc command
type DocParams struct {
	CommonParams
	Symbol string
	Scope  string
}

// Doc prints the documentation of a symbol
func Doc(params DocParams) error {
	c, err := initializeComponents(params.CommonParams)
	if err != nil {
		return err
	}

	doc := c.engine.Documentation(params.Symbol, params.Scope)
	if doc == "" {
		return fmt.Errorf("no documentation found for %s", params.Symbol)
	}
	_, err = fmt.Fprintln(params.out(), strings.TrimSuffix(doc, "\n"))
	return err
}
