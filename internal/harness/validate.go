package harness

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaCUE string

var (
	schemaOnce  sync.Once
	schemaValue cue.Value
	schemaErr   error
)

// scenarioSchema compiles the embedded CUE schema once.
func scenarioSchema() (cue.Value, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		compiled := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
		if err := compiled.Err(); err != nil {
			schemaErr = fmt.Errorf("embedded scenario schema is invalid: %w", err)
			return
		}
		schemaValue = compiled.LookupPath(cue.ParsePath("#Scenario"))
		if err := schemaValue.Err(); err != nil {
			schemaErr = fmt.Errorf("embedded scenario schema has no #Scenario: %w", err)
		}
	})
	return schemaValue, schemaErr
}

// validateScenarioYAML checks raw scenario YAML against the CUE schema.
func validateScenarioYAML(data []byte) error {
	schema, err := scenarioSchema()
	if err != nil {
		return err
	}
	return cueyaml.Validate(data, schema)
}
