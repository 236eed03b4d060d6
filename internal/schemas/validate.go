// Package schemas validates JSON documents against the embedded JSON Schemas.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed calibration.schema.json
var calibrationSchema string

//go:embed scoring_response.schema.json
var scoringResponseSchema string

// FieldError is a single validation failure at a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates every field failure from one validation run.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateCalibration checks a calibration JSON document before it is
// decoded, so a malformed file fails with field-level errors instead of a
// zero-valued struct.
func ValidateCalibration(jsonContent string) error {
	return ValidateJSONString(calibrationSchema, jsonContent)
}

// ValidateScoringResponse checks the structural shape of a model scoring
// response: an object carrying at least one sub-metric.
func ValidateScoringResponse(jsonContent string) error {
	return ValidateJSONString(scoringResponseSchema, jsonContent)
}

// ValidateJSONString validates JSON content against a schema, both given as
// strings.
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed to run: %w", err)
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
