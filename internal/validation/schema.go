package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// ValidationIssue captures a single validation failure. Location is a JSON
// pointer into the validated payload ("/sections/2/heading"), empty for the
// document root.
type ValidationIssue struct {
	Location string
	Message  string
}

func (i ValidationIssue) String() string {
	location := strings.TrimSpace(i.Location)
	if location == "" {
		location = "/"
	}
	if i.Message == "" {
		return location
	}
	return fmt.Sprintf("%s: %s", location, i.Message)
}

// NewIssue builds an issue with a formatted message.
func NewIssue(location, format string, args ...any) ValidationIssue {
	return ValidationIssue{Location: location, Message: fmt.Sprintf(format, args...)}
}

// PayloadValidationError surfaces validation issues with schema-aware context.
type PayloadValidationError struct {
	Schema string
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// PrefixIssues returns a copy of issues with every location nested under
// prefix, so issues of a sub-document can be reported against its parent.
func PrefixIssues(prefix string, issues []ValidationIssue) []ValidationIssue {
	if len(issues) == 0 {
		return nil
	}
	prefix = strings.TrimRight(prefix, "/")
	out := make([]ValidationIssue, len(issues))
	for i, issue := range issues {
		location := strings.TrimSpace(issue.Location)
		if location != "" && !strings.HasPrefix(location, "/") {
			location = "/" + location
		}
		out[i] = ValidationIssue{Location: prefix + location, Message: issue.Message}
	}
	return out
}

// Pointer joins path tokens into a JSON pointer, escaping "~" and "/".
func Pointer(tokens ...any) string {
	var b strings.Builder
	for _, token := range tokens {
		b.WriteByte('/')
		switch typed := token.(type) {
		case int:
			b.WriteString(strconv.Itoa(typed))
		case string:
			b.WriteString(strings.NewReplacer("~", "~0", "/", "~1").Replace(typed))
		default:
			b.WriteString(fmt.Sprint(typed))
		}
	}
	return b.String()
}

// SortIssues orders issues by location, then message.
func SortIssues(issues []ValidationIssue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Location != issues[j].Location {
			return issues[i].Location < issues[j].Location
		}
		return issues[i].Message < issues[j].Message
	})
}

// Schema is a compiled JSON Schema. It is immutable after compilation and
// safe for concurrent use.
type Schema struct {
	name     string
	compiled *jsonschema.Schema
}

// Compile compiles a Draft 2020-12 schema document.
func Compile(name string, source []byte) (*Schema, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: schema name required", ErrSchemaInvalid)
	}
	compiled, err := compileSource(name, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, name, err)
	}
	return &Schema{name: name, compiled: compiled}, nil
}

// MustCompile is like Compile but panics on error. Intended for embedded
// schemas that are part of the binary.
func MustCompile(name string, source []byte) *Schema {
	schema, err := Compile(name, source)
	if err != nil {
		panic(err)
	}
	return schema
}

// Name returns the schema name given at compile time.
func (s *Schema) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Validate checks a JSON-normalised payload (see Normalize). It returns nil or
// a *PayloadValidationError listing every issue in location order.
func (s *Schema) Validate(payload any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	if err := s.compiled.Validate(payload); err != nil {
		issues := Issues(err)
		SortIssues(issues)
		return &PayloadValidationError{
			Schema: s.name,
			Issues: issues,
			Cause:  err,
		}
	}
	return nil
}

// Defaults returns the "default" values declared on the schema's top-level
// properties.
func (s *Schema) Defaults() map[string]any {
	out := map[string]any{}
	if s == nil || s.compiled == nil {
		return out
	}
	for name, property := range s.compiled.Properties {
		if property != nil && property.Default != nil {
			out[name] = property.Default
		}
	}
	return out
}

// ApplyDefaults sets each declared top-level default on payload where the
// key is absent. Present keys are never touched, even when empty.
func (s *Schema) ApplyDefaults(payload map[string]any) {
	if payload == nil {
		return
	}
	for name, value := range s.Defaults() {
		if _, ok := payload[name]; ok {
			continue
		}
		payload[name] = cloneValue(value)
	}
}

// Normalize converts value into the shape produced by encoding/json: objects
// become map[string]any, arrays []any, numbers float64. Maps with non-string
// keys, as produced by some YAML decoders, are converted key by key.
func Normalize(value any) (any, error) {
	encoded, err := json.Marshal(stringKeys(value))
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NormalizeObject is Normalize for values that must be JSON objects.
func NormalizeObject(value any) (map[string]any, error) {
	normalized, err := Normalize(value)
	if err != nil {
		return nil, err
	}
	if normalized == nil {
		return map[string]any{}, nil
	}
	object, ok := normalized.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object, got %s", jsonKind(normalized))
	}
	return object, nil
}

func stringKeys(value any) any {
	switch typed := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = stringKeys(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = stringKeys(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = stringKeys(item)
		}
		return out
	default:
		return value
	}
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}

func jsonKind(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func compileSource(name string, source []byte) (*jsonschema.Schema, error) {
	url := name + ".json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	// "default" is an annotation; without it Schema.Defaults finds nothing.
	compiler.ExtractAnnotations = true
	if err := compiler.AddResource(url, bytes.NewReader(source)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
