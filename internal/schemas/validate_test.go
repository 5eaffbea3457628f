package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBriefResponse_Valid(t *testing.T) {
	doc := []byte(`{"company":"Acme","interviewer_brief":"brief","interviewee_packet":"packet"}`)
	assert.NoError(t, ValidateBriefResponse(doc))
}

func TestValidateBriefResponse_EmptyDocumentsAllowed(t *testing.T) {
	doc := []byte(`{"company":"Acme","interviewer_brief":"","interviewee_packet":""}`)
	assert.NoError(t, ValidateBriefResponse(doc))
}

func TestValidateBriefResponse_MissingField(t *testing.T) {
	doc := []byte(`{"company":"Acme","interviewer_brief":"brief"}`)

	err := ValidateBriefResponse(doc)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, BriefResponse, validationErr.Schema)
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
	assert.Contains(t, validationErr.Errors[0].Message, "interviewee_packet")
}

func TestValidateBriefResponse_ExtraField(t *testing.T) {
	doc := []byte(`{"company":"Acme","interviewer_brief":"b","interviewee_packet":"p","research":"raw"}`)
	assert.Error(t, ValidateBriefResponse(doc))
}

func TestValidateBriefResponse_WrongType(t *testing.T) {
	doc := []byte(`{"company":"Acme","interviewer_brief":42,"interviewee_packet":"p"}`)

	err := ValidateBriefResponse(doc)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "interviewer_brief", validationErr.Errors[0].Field)
}

func TestValidateBriefResponse_MalformedJSON(t *testing.T) {
	err := ValidateBriefResponse([]byte(`{"company":`))
	require.Error(t, err)

	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr))
}

func TestValidateErrorResponse(t *testing.T) {
	assert.NoError(t, ValidateErrorResponse([]byte(`{"error":"company_name is required"}`)))
	assert.Error(t, ValidateErrorResponse([]byte(`{"error":""}`)))
	assert.Error(t, ValidateErrorResponse([]byte(`{}`)))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", []byte(`{}`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "missing.schema.json", loadErr.Path)
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name":"Acme"}`))

	err := ValidateJSONString(schema, `{"name":1}`)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Error(), "name")
}

func TestValidationError_Format(t *testing.T) {
	err := &ValidationError{
		Schema: BriefResponse,
		Errors: []FieldError{{Field: "company", Message: "is required"}},
	}
	assert.Equal(t, "brief_response.schema.json validation failed:\n  1. company: is required\n", err.Error())
}
