// Package schema validates a data file against the embedded JSON Schema
// and reports problems the loader would otherwise hide.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/twiced-technology-gmbh/todolist/internal/todo"
)

//go:embed todos.schema.json
var schemaJSON []byte

const schemaURL = "https://todolist.local/todos.schema.json"

// Violation is one schema failure at a JSON pointer inside the document.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Result is the outcome of validating one document.
type Result struct {
	File       string      `json:"file,omitempty"`
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations"`
	Warnings   []string    `json:"warnings"`
}

// Compile returns the compiled data file schema.
func Compile() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	s, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return s, nil
}

// ValidateFile validates the data file at path. A missing file is valid:
// the loader treats it as an empty list.
func ValidateFile(path string) (Result, error) {
	data, err := os.ReadFile(path) //nolint:gosec // data path from config
	if errors.Is(err, os.ErrNotExist) {
		return Result{File: path, Valid: true, Violations: []Violation{}, Warnings: []string{"file does not exist"}}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	res, err := ValidateBytes(data)
	res.File = path
	return res, err
}

// ValidateBytes validates a JSON document.
func ValidateBytes(data []byte) (Result, error) {
	res := Result{Violations: []Violation{}, Warnings: []string{}}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		res.Violations = append(res.Violations, Violation{Path: "/", Message: "not valid JSON: " + err.Error()})
		return res, nil
	}

	s, err := Compile()
	if err != nil {
		return Result{}, err
	}
	if err := s.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return Result{}, err
		}
		collect(ve, &res.Violations)
		sort.SliceStable(res.Violations, func(i, j int) bool {
			return res.Violations[i].Path < res.Violations[j].Path
		})
		return res, nil
	}

	res.Valid = true
	res.Warnings = append(res.Warnings, duplicateWarnings(data)...)
	return res, nil
}

// collect flattens the leaves of a validation error tree.
func collect(err *jsonschema.ValidationError, out *[]Violation) {
	if len(err.Causes) == 0 {
		path := err.InstanceLocation
		if path == "" {
			path = "/"
		}
		*out = append(*out, Violation{Path: path, Message: err.Message})
		return
	}
	for _, cause := range err.Causes {
		collect(cause, out)
	}
}

func duplicateWarnings(data []byte) []string {
	var tasks []todo.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil
	}
	dups := todo.DuplicateIDs(tasks)
	if len(dups) == 0 {
		return nil
	}
	ids := make([]string, len(dups))
	for i, id := range dups {
		ids[i] = fmt.Sprintf("#%d", id)
	}
	return []string{"duplicate task ids: " + strings.Join(ids, ", ")}
}
