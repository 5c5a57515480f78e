package node

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/agenttree/core"
)

// binder maps accepted parameter names to their parsers.
type binder map[string]func(value string) error

// bindParams feeds every parameter to its parser. Unknown names fail.
func bindParams(params []core.Parameter, b binder) error {
	for _, p := range params {
		fn, ok := b[p.Name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownParameter, p.Name)
		}
		if err := fn(p.Value); err != nil {
			return fmt.Errorf("%w %q: %w", ErrInvalidParameter, p.Name, err)
		}
	}
	return nil
}

func stringParam(dst *string) func(string) error {
	return func(v string) error {
		*dst = v
		return nil
	}
}

func boolParam(dst *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

func requireParam(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}
	return nil
}
