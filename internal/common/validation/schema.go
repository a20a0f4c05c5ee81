package validation

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

// Rule names reported in ValidationError.Code.
const (
	RuleRequired  = "required"
	RuleType      = "type"
	RuleEnum      = "enum"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RulePattern   = "pattern"
	RuleFormat    = "format"
	RuleMinimum   = "minimum"
	RuleMaximum   = "maximum"
	RuleMultiple  = "multipleOf"
	RuleOther     = "invalid"
)

// Schema is a compiled JSON schema.
type Schema struct {
	schema *gojsonschema.Schema
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError is one violated keyword. Params carries the keyword's
// bound ("min", "max", "format") as a display string.
type ValidationError struct {
	Field   string            `json:"field"`
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
}

// Compile parses a JSON schema document.
func Compile(src string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// MustCompile is Compile for package-level schemas.
func MustCompile(src string) *Schema {
	s, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks doc, any value encoding/json can marshal, against the
// schema. Errors are sorted by field so output is stable.
func (s *Schema) Validate(doc interface{}) (*ValidationResult, error) {
	res, err := s.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}

	out := &ValidationResult{Valid: res.Valid()}
	for _, re := range res.Errors() {
		out.Errors = append(out.Errors, convert(re))
	}
	sort.SliceStable(out.Errors, func(i, j int) bool {
		return out.Errors[i].Field < out.Errors[j].Field
	})
	return out, nil
}

func convert(re gojsonschema.ResultError) ValidationError {
	details := re.Details()
	ve := ValidationError{
		Field:   re.Field(),
		Message: re.Description(),
		Code:    ruleFor(re.Type()),
	}

	switch re.Type() {
	case "required":
		prop := fmt.Sprint(details["property"])
		if ve.Field == gojsonschema.STRING_CONTEXT_ROOT || ve.Field == "" {
			ve.Field = prop
		} else {
			ve.Field = ve.Field + "." + prop
		}
	case "string_gte", "number_gte", "number_gt":
		ve.Params = map[string]string{"min": display(details["min"])}
	case "string_lte", "number_lte", "number_lt":
		ve.Params = map[string]string{"max": display(details["max"])}
	case "format":
		ve.Params = map[string]string{"format": display(details["format"])}
	}
	return ve
}

func ruleFor(errorType string) string {
	switch errorType {
	case "required":
		return RuleRequired
	case "invalid_type":
		return RuleType
	case "enum":
		return RuleEnum
	case "string_gte":
		return RuleMinLength
	case "string_lte":
		return RuleMaxLength
	case "pattern":
		return RulePattern
	case "format":
		return RuleFormat
	case "number_gte", "number_gt":
		return RuleMinimum
	case "number_lte", "number_lt":
		return RuleMaximum
	case "multiple_of":
		return RuleMultiple
	default:
		return RuleOther
	}
}

func display(v interface{}) string {
	if f, ok := v.(*big.Float); ok {
		return f.Text('f', -1)
	}
	return fmt.Sprint(v)
}
