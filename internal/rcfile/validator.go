package rcfile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/svrxrc.schema.json
var schemaBytes []byte

const schemaURL = "svrxrc.schema.json"

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

const issueCountKey = "%d validation issues"

func init() {
	_ = message.Set(language.English, issueCountKey,
		plural.Selectf(1, "%d",
			"=1", "1 validation issue",
			"other", "%[1]d validation issues",
		))
}

// ValidationResult is the outcome of checking an rc file against the schema.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue is one failed schema keyword.
type ValidationIssue struct {
	Path    string // JSON pointer into the rc document, e.g. "/plugins/0"
	Message string
	Keyword string
}

// InvalidError reports an rc file that failed schema validation.
type InvalidError struct {
	File   string
	Issues []ValidationIssue
}

func (e *InvalidError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.File, printer.Sprintf(issueCountKey, len(e.Issues)))
	for _, issue := range e.Issues {
		path := issue.Path
		if path == "" {
			path = "/"
		}
		fmt.Fprintf(&b, "\n  %s: %s", path, issue.Message)
	}
	return b.String()
}

func rcSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = compileSchema(schemaBytes)
	})
	return compiledSchema, compileErr
}

func compileSchema(raw []byte) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding rc schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("registering rc schema: %w", err)
	}
	sch, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling rc schema: %w", err)
	}
	return sch, nil
}

// Validate checks rc content (YAML or JSON) against the embedded schema.
// The error return is for parse or schema compilation failures; schema
// violations are reported in the ValidationResult.
func Validate(data []byte) (*ValidationResult, error) {
	sch, err := rcSchema()
	if err != nil {
		return nil, err
	}

	// YAML is a superset of JSON, so one decoder covers every rc format.
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding rc file: %w", err)
	}
	if doc == nil {
		return &ValidationResult{Valid: true}, nil
	}

	encoded, err := json.Marshal(normalizeYAML(doc))
	if err != nil {
		return nil, fmt.Errorf("encoding rc file as JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("decoding rc file for validation: %w", err)
	}

	var ve *jsonschema.ValidationError
	switch err := sch.Validate(inst); {
	case err == nil:
		return &ValidationResult{Valid: true}, nil
	case errors.As(err, &ve):
		return &ValidationResult{Issues: extractIssues(ve)}, nil
	default:
		return nil, fmt.Errorf("validating rc file: %w", err)
	}
}

// extractIssues flattens the error tree into leaf issues. oneOf branches
// are walked so the caller sees property-level failures.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		return []ValidationIssue{{Message: ve.Error()}}
	}

	seen := make(map[string]bool, len(issues))
	result := issues[:0]
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, issue)
	}
	return result
}

func collectIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}

	var keyword, msg string
	if ve.ErrorKind != nil {
		if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
			keyword = kw[len(kw)-1]
		}
		msg = ve.ErrorKind.LocalizedString(printer)
	}
	switch keyword {
	case "", "oneOf", "allOf", "$ref":
		return
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	*issues = append(*issues, ValidationIssue{Path: path, Message: msg, Keyword: keyword})
}

// normalizeYAML rewrites map[any]any (produced for non-string keys) into
// map[string]any so the value can be marshaled as JSON.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			m[k] = normalizeYAML(v)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case []any:
		a := make([]any, len(val))
		for i, v := range val {
			a[i] = normalizeYAML(v)
		}
		return a
	default:
		return val
	}
}
