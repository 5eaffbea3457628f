// Package types defines the request and response envelopes of the brief API.
package types

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// BriefRequest is the body of a brief request.
type BriefRequest struct {
	CompanyName string `json:"company_name" validate:"required"`
	CompanyURL  string `json:"company_url,omitempty"`
}

// BriefResponse is the success envelope.
type BriefResponse struct {
	Company           string `json:"company"`
	InterviewerBrief  string `json:"interviewer_brief"`
	IntervieweePacket string `json:"interviewee_packet"`
}

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationError reports an invalid request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Normalize trims the company name and URL and adds an https:// scheme to a
// URL that does not start with "http".
func (r *BriefRequest) Normalize() {
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.CompanyURL = NormalizeURL(r.CompanyURL)
}

// NormalizeURL trims u and prefixes "https://" unless it already starts with "http".
// An empty or blank u stays empty.
func NormalizeURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" || strings.HasPrefix(u, "http") {
		return u
	}
	return "https://" + u
}

// Validate checks the request. Call Normalize first so a blank name is rejected.
// The URL is only normalized, never rejected.
func (r *BriefRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: fe.Field(), Message: fmt.Sprintf("%s is required", fe.Field())}
	default:
		return &ValidationError{Field: fe.Field(), Message: fmt.Sprintf("%s is invalid", fe.Field())}
	}
}
