package types

import (
	"encoding/json"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

// PublicHTTPErrorType Type of error returned, should be used for client-side error handling.
type PublicHTTPErrorType string

const (
	// PublicHTTPErrorTypeGeneric captures enum value "generic"
	PublicHTTPErrorTypeGeneric PublicHTTPErrorType = "generic"
	// PublicHTTPErrorTypeCHAIN captures enum value "CHAIN"
	PublicHTTPErrorTypeCHAIN PublicHTTPErrorType = "CHAIN"
)

var publicHTTPErrorTypeEnum = []interface{}{
	PublicHTTPErrorTypeGeneric,
	PublicHTTPErrorTypeCHAIN,
}

// NewPublicHTTPErrorType returns a pointer to a value.
func NewPublicHTTPErrorType(value PublicHTTPErrorType) *PublicHTTPErrorType {
	return &value
}

// Pointer returns a pointer to a freshly-allocated PublicHTTPErrorType.
func (m PublicHTTPErrorType) Pointer() *PublicHTTPErrorType {
	return &m
}

// Validate validates this public Http error type
func (m PublicHTTPErrorType) Validate(formats strfmt.Registry) error {
	if err := validate.EnumCase("", "body", m, publicHTTPErrorTypeEnum, true); err != nil {
		return err
	}
	return nil
}

// PublicHTTPError public Http error
type PublicHTTPError struct {
	// More detailed, human-readable, optional explanation of the error
	Detail string `json:"detail,omitempty"`

	// Kind is the failure kind reported by the contract façade, e.g. "CallReverted".
	Kind string `json:"kind,omitempty"`

	// Reason is the decoded revert reason, if the node supplied one.
	Reason string `json:"reason,omitempty"`

	// RebuildRequired is set when the action must be started again to get a fresh nonce and gas price.
	RebuildRequired bool `json:"rebuildRequired,omitempty"`

	// HTTP status code returned for the error
	// Required: true
	Code *int64 `json:"status"`

	// Short, human-readable description of the error
	// Required: true
	Title *string `json:"title"`

	// type
	// Required: true
	Type *PublicHTTPErrorType `json:"type"`
}

// Validate validates this public Http error
func (m *PublicHTTPError) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("status", "body", m.Code); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("title", "body", m.Title); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("type", "body", m.Type); err != nil {
		res = append(res, err)
	} else if err := m.Type.Validate(formats); err != nil {
		if ve, ok := err.(*errors.Validation); ok { //nolint:errorlint
			return ve.ValidateName("type")
		}
		return err
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// MarshalBinary interface implementation
func (m *PublicHTTPError) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *PublicHTTPError) UnmarshalBinary(b []byte) error {
	var res PublicHTTPError
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}

// HTTPValidationErrorDetail HTTP validation error detail
type HTTPValidationErrorDetail struct {
	// Error describing field validation failure
	// Required: true
	Error *string `json:"error"`

	// Indicates how the invalid field was provided
	// Required: true
	In *string `json:"in"`

	// Key of field failing validation
	// Required: true
	Key *string `json:"key"`
}

// Validate validates this HTTP validation error detail
func (m *HTTPValidationErrorDetail) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("error", "body", m.Error); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("in", "body", m.In); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("key", "body", m.Key); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// HTTPValidationError HTTP validation error
type HTTPValidationError struct {
	PublicHTTPError

	// List of errors received while validating payload against schema
	// Required: true
	ValidationErrors []*HTTPValidationErrorDetail `json:"validationErrors"`
}

// MarshalJSON flattens the embedded error next to the validation details.
func (m HTTPValidationError) MarshalJSON() ([]byte, error) {
	base, err := swag.WriteJSON(m.PublicHTTPError)
	if err != nil {
		return nil, err
	}

	details, err := json.Marshal(struct {
		ValidationErrors []*HTTPValidationErrorDetail `json:"validationErrors"`
	}{ValidationErrors: m.ValidationErrors})
	if err != nil {
		return nil, err
	}

	return swag.ConcatJSON(base, details), nil
}

// Validate validates this HTTP validation error
func (m *HTTPValidationError) Validate(formats strfmt.Registry) error {
	var res []error

	if err := m.PublicHTTPError.Validate(formats); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("validationErrors", "body", m.ValidationErrors); err != nil {
		res = append(res, err)
	}

	for _, detail := range m.ValidationErrors {
		if swag.IsZero(detail) {
			continue
		}
		if err := detail.Validate(formats); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}
