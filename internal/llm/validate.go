package llm

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is an optional JSON Schema applied to an extracted object after the
// required-field and numeric checks.
type Schema struct {
	// Name identifies this schema in the compile cache. Kebab-case.
	Name string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Fields describes what a structured response must contain.
type Fields struct {
	// Required fields must be present and non-null.
	Required []string

	// Numeric fields must convert to a finite number. A numeric field that
	// is not also required is checked only when present.
	Numeric []string

	Schema *Schema
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// Validate checks obj against f and returns the coerced numeric fields.
// Missing fields are reported before non-numeric ones so callers can tell
// the two failures apart.
func Validate(obj map[string]any, f Fields) (map[string]float64, error) {
	var missing []string
	for _, name := range f.Required {
		if v, ok := obj[name]; !ok || v == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &ErrValidation{Missing: missing}
	}

	numbers := make(map[string]float64, len(f.Numeric))
	var notNumeric []string
	for _, name := range f.Numeric {
		v, ok := obj[name]
		if !ok {
			continue
		}
		n, ok := ToNumber(v)
		if !ok {
			notNumeric = append(notNumeric, name)
			continue
		}
		numbers[name] = n
	}
	if len(notNumeric) > 0 {
		return nil, &ErrValidation{NotNumeric: notNumeric}
	}

	if f.Schema != nil {
		if err := validateSchema(f.Schema, obj); err != nil {
			return nil, &ErrValidation{Err: err}
		}
	}

	return numbers, nil
}

func validateSchema(schema *Schema, obj map[string]any) error {
	compiled, err := getCompiledSchema(schema)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", schema.Name, err)
	}
	if err := compiled.Validate(obj); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, not a Go map with typed slices.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
