package config

import (
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/goccy/go-yaml"
)

// configSchema is built once from the Config struct's tags, so the
// schema can never drift out of sync with the fields it validates.
var configSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	schema, err := jsonschema.For[Config](nil)
	if err != nil {
		return nil, fmt.Errorf("build config schema: %w", err)
	}
	return schema.Resolve(nil)
})

// validate checks raw YAML config bytes against configSchema before
// they are unmarshaled into a Config, so a malformed hand-edited file
// fails with a field-level error instead of a confusing zero-value
// three layers down.
func validate(data []byte) error {
	resolved, err := configSchema()
	if err != nil {
		return err
	}

	var instance any
	if err := yaml.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
