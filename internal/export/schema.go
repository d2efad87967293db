package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/productos.schema.json
var databaseSchemaJSON []byte

var (
	databaseSchemaOnce sync.Once
	databaseSchema     *jsonschema.Schema
	databaseSchemaErr  error
)

func compiledDatabaseSchema() (*jsonschema.Schema, error) {
	databaseSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource("productos.schema.json", bytes.NewReader(databaseSchemaJSON)); err != nil {
			databaseSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		databaseSchema, databaseSchemaErr = compiler.Compile("productos.schema.json")
		if databaseSchemaErr != nil {
			databaseSchemaErr = fmt.Errorf("compile schema: %w", databaseSchemaErr)
		}
	})
	return databaseSchema, databaseSchemaErr
}

// ValidateDatabaseJSON checks a rendered database file against the embedded schema.
func ValidateDatabaseJSON(data []byte) error {
	schema, err := compiledDatabaseSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
