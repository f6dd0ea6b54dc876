package syntax

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateDataBag checks dataBag against schemaJSON, a JSON Schema
// document, at registration time (spec.md §3's SyntaxInfo.data_bag is
// opaque to the core, but a registerer may still want it shape-checked
// once up front rather than fail confusingly deep inside a match).
// An empty schemaJSON skips validation — most registrations carry none.
//
// Grounded on core/types/jsonschema.go's JSON-Schema-document shape
// (that file builds schema documents but never validates against them;
// this is where the validation half actually happens, using the
// standalone jsonschema library rather than hand-rolling a validator).
func ValidateDataBag(dataBag interface{}, schemaJSON string) error {
	if strings.TrimSpace(schemaJSON) == "" {
		return nil
	}

	compiler := jsonschema.NewCompiler()
	const resourceName = "databag.json"
	if err := compiler.AddResource(resourceName, strings.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("compiling data-bag schema: %w", err)
	}
	schema, err := compiler.Compile(resourceName)
	if err != nil {
		return fmt.Errorf("compiling data-bag schema: %w", err)
	}

	// jsonschema validates decoded-JSON values (map[string]any, []any,
	// string, float64, bool, nil); round-trip through encoding/json so a
	// Go struct data bag presents the same shape as a map one.
	raw, err := json.Marshal(dataBag)
	if err != nil {
		return fmt.Errorf("marshaling data bag: %w", err)
	}
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("decoding data bag: %w", err)
	}

	if err := schema.Validate(decoded); err != nil {
		return fmt.Errorf("data bag failed schema validation: %w", err)
	}
	return nil
}
