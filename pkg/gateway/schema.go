package gateway

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// planRequestSchema is the strict contract for both planning endpoints.
// Malformed input is rejected here before any downstream call is attempted.
const planRequestSchema = `{
	"type": "object",
	"properties": {
		"learnerId": {"type": "string", "minLength": 1},
		"tenantId":  {"type": "string", "minLength": 1},
		"subject":   {"type": "string", "minLength": 1},
		"region":    {"type": "string", "minLength": 1},
		"domain":    {"type": "string"}
	},
	"required": ["learnerId", "tenantId", "subject", "region"],
	"additionalProperties": false
}`

type requestValidator struct {
	schema *gojsonschema.Schema
}

func newRequestValidator() (*requestValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(planRequestSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile request schema: %w", err)
	}
	return &requestValidator{schema: schema}, nil
}

// Validate checks a raw request body against the plan-request schema and
// returns a single error listing every violation.
func (v *requestValidator) Validate(body []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("invalid request: %s", strings.Join(problems, "; "))
}
