package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"interest-quiz-service/internal/domain"
)

const schemaURL = "schema://question-bank.json"

// bankSchema describes the question file: {"questions":[{"text","options":[{"text","field"}]}]}.
var bankSchema = map[string]any{
	"type":     "object",
	"required": []any{"questions"},
	"properties": map[string]any{
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []any{"text", "options"},
				"properties": map[string]any{
					"text": map[string]any{"type": "string"},
					"options": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type":     "object",
							"required": []any{"text", "field"},
							"properties": map[string]any{
								"text":  map[string]any{"type": "string", "minLength": 1},
								"field": map[string]any{"type": "string", "enum": fieldEnum()},
							},
						},
					},
				},
			},
		},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func fieldEnum() []any {
	values := make([]any, 0, 2*domain.FieldCount)
	for _, f := range domain.AllFields {
		values = append(values, f.String(), f.Label())
	}
	return values
}

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler expects a parsed JSON value, not Go literals.
		def, err := normalize(bankSchema)
		if err != nil {
			compileErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// normalize round-trips v through encoding/json so maps, slices and numbers
// have the shapes the schema validator understands.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Format is the encoding of a question file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension; anything but .yaml/.yml is JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseBank validates data against the question file schema and decodes it.
func ParseBank(data []byte, format Format) (domain.Bank, error) {
	var doc any
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return domain.Bank{}, fmt.Errorf("parse question file: %w", err)
	}

	if format == FormatYAML {
		if doc, err = normalize(doc); err != nil {
			return domain.Bank{}, fmt.Errorf("parse question file: %w", err)
		}
	}

	sch, err := schema()
	if err != nil {
		return domain.Bank{}, fmt.Errorf("compile question schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return domain.Bank{}, fmt.Errorf("question file does not match schema: %w", err)
	}

	var bank domain.Bank
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &bank)
	default:
		err = json.Unmarshal(data, &bank)
	}
	if err != nil {
		return domain.Bank{}, fmt.Errorf("decode question file: %w", err)
	}
	if err := bank.Validate(); err != nil {
		return domain.Bank{}, err
	}
	return bank, nil
}

// ReadBank loads and validates the question file at path.
func ReadBank(path string) (domain.Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Bank{}, err
	}
	return ParseBank(data, FormatFromPath(path))
}

// BankLoader serves banks from question files, one file per bank ID.
type BankLoader struct {
	paths map[string]string
}

func NewBankLoader(paths map[string]string) *BankLoader {
	return &BankLoader{paths: paths}
}

func (l *BankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	path, ok := l.paths[bankID]
	if !ok {
		return domain.Bank{}, domain.ErrBankNotFound
	}
	bank, err := ReadBank(path)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load bank %s from %s: %w", bankID, path, err)
	}
	bank.ID = bankID
	return bank, nil
}
