package entity

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/atlanticofertlog/cargo-docs/constants"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var schemaFiles = map[constants.DocumentKind]string{
	constants.KindOrder:         "schemas/order.json",
	constants.KindHeringerOrder: "schemas/order.json",
	constants.KindLicense:       "schemas/license.json",
	constants.KindRegistration:  "schemas/registration.json",
	constants.KindCarrier:       "schemas/carrier.json",
}

var (
	compileOnce sync.Once
	compiled    map[string]*jsonschema.Schema
	compileErr  error
)

func compileSchemas() {
	compiled = map[string]*jsonschema.Schema{}
	compiler := jsonschema.NewCompiler()
	for _, file := range schemaFiles {
		if _, done := compiled[file]; done {
			continue
		}
		b, err := schemaFS.ReadFile(file)
		if err != nil {
			compileErr = fmt.Errorf("read schema %s: %w", file, err)
			return
		}
		if err := compiler.AddResource(file, bytes.NewReader(b)); err != nil {
			compileErr = fmt.Errorf("add schema %s: %w", file, err)
			return
		}
		s, err := compiler.Compile(file)
		if err != nil {
			compileErr = fmt.Errorf("compile schema %s: %w", file, err)
			return
		}
		compiled[file] = s
	}
}

// Validate checks an extracted record (or order item slice) against the JSON
// schema of its document kind. A failure means the record needs review; it
// never means the extraction itself failed.
func Validate(kind constants.DocumentKind, record any) error {
	file, ok := schemaFiles[kind]
	if !ok {
		return fmt.Errorf("no schema for document kind %q", kind)
	}
	compileOnce.Do(compileSchemas)
	if compileErr != nil {
		return compileErr
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	if err := compiled[file].Validate(v); err != nil {
		return fmt.Errorf("record does not match %s schema: %w", kind, err)
	}
	return nil
}
