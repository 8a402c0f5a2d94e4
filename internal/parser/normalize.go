package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"docextract/internal/validator/invoice"
)

// documentShape is the top-level shape every model answer must have. Field level checks
// belong to the validator.
const documentShape = `{
  "type": "object",
  "required": ["header", "totals"],
  "properties": {
    "confidence": {"type": ["number", "null"]},
    "header": {"type": "object"},
    "line_items": {"type": ["array", "null"]},
    "totals": {"type": "object"},
    "additional_info": {"type": ["object", "null"]}
  }
}`

var (
	shapeOnce   sync.Once
	shapeSchema *jsonschema.Schema
	shapeErr    error
)

func compiledShape() (*jsonschema.Schema, error) {
	shapeOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("invoice_document.json", strings.NewReader(documentShape)); err != nil {
			shapeErr = fmt.Errorf("add schema: %w", err)
			return
		}
		shapeSchema, shapeErr = compiler.Compile("invoice_document.json")
	})
	return shapeSchema, shapeErr
}

// StripCodeFence removes a leading ```json or ``` marker and a trailing ``` marker.
func StripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// Normalize parses a provider's raw answer into a Document. Any failure is a *ParseError.
func Normalize(raw string) (*invoice.Document, error) {
	text := StripCodeFence(raw)
	if text == "" {
		return nil, &ParseError{Err: errors.New("empty response")}
	}

	var generic any
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, &ParseError{Err: err}
	}
	if dec.More() {
		return nil, &ParseError{Err: errors.New("unexpected trailing data after JSON document")}
	}

	schema, err := compiledShape()
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	if err := schema.Validate(generic); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("json does not match schema: %w", err)}
	}

	var doc invoice.Document
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	if doc.Confidence != nil {
		c := clampConfidence(*doc.Confidence)
		doc.Confidence = &c
	}
	return &doc, nil
}

func clampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
