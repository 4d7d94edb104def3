// Package validator is the contract guard between the analysis stages and
// the serialized artifacts they exchange. If a field name or type drifts,
// downstream consumers would silently read zero values; validating against
// the embedded CUE schemas turns that into an immediate, descriptive error.
package validator

import (
	"embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed graph_schema.cue table_schema.cue
var schemaFS embed.FS

// Validator validates serialized artifacts against the CUE schemas.
type Validator struct {
	ctx         *cue.Context
	graphSchema cue.Value
	tableSchema cue.Value
}

// New compiles the embedded schemas.
func New() (*Validator, error) {
	ctx := cuecontext.New()

	graphSchema, err := compileSchema(ctx, "graph_schema.cue")
	if err != nil {
		return nil, err
	}
	tableSchema, err := compileSchema(ctx, "table_schema.cue")
	if err != nil {
		return nil, err
	}

	return &Validator{
		ctx:         ctx,
		graphSchema: graphSchema,
		tableSchema: tableSchema,
	}, nil
}

func compileSchema(ctx *cue.Context, name string) (cue.Value, error) {
	schemaBytes, err := schemaFS.ReadFile(name)
	if err != nil {
		return cue.Value{}, fmt.Errorf("loading embedded schema %s: %w", name, err)
	}
	schema := ctx.CompileBytes(schemaBytes)
	if schema.Err() != nil {
		return cue.Value{}, fmt.Errorf("compiling schema %s: %w", name, schema.Err())
	}
	return schema, nil
}

// ValidateSystem checks a connectivity graph against the #System contract.
func (v *Validator) ValidateSystem(data interface{}) error {
	return v.validate(v.graphSchema, "#System", data)
}

// ValidateTable checks an assembled table against the #Table contract.
func (v *Validator) ValidateTable(data interface{}) error {
	return v.validate(v.tableSchema, "#Table", data)
}

func (v *Validator) validate(schema cue.Value, def string, data interface{}) error {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling data to JSON: %w", err)
	}

	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return fmt.Errorf("compiling data as CUE: %w", dataValue.Err())
	}

	definition := schema.LookupPath(cue.ParsePath(def))
	if definition.Err() != nil {
		return fmt.Errorf("looking up %s definition: %w", def, definition.Err())
	}

	unified := definition.Unify(dataValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
