package util

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	oerrors "github.com/go-openapi/errors"
	"github.com/go-openapi/runtime"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/kinetix/kx-console/internal/api/httperrors"
	"github.com/kinetix/kx-console/internal/types"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// BindAndValidateBody binds the request body to v and validates it against its schema.
func BindAndValidateBody(c echo.Context, v runtime.Validatable) error {
	binder, ok := c.Echo().Binder.(*echo.DefaultBinder)
	if !ok {
		return errors.New("echo binder is not the default binder")
	}

	if err := binder.BindBody(c, v); err != nil {
		return httperrors.ErrBadRequestInvalidJSON
	}

	return validatePayload(c, v)
}

// BindAndValidateQueryParams binds the query parameters to v and validates it against its schema.
func BindAndValidateQueryParams(c echo.Context, v runtime.Validatable) error {
	binder, ok := c.Echo().Binder.(*echo.DefaultBinder)
	if !ok {
		return errors.New("echo binder is not the default binder")
	}

	if err := binder.BindQueryParams(c, v); err != nil {
		return httperrors.NewHTTPErrorWithDetail(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric,
			http.StatusText(http.StatusBadRequest), "Query parameters could not be parsed.")
	}

	return validatePayload(c, v)
}

// ValidateAndReturn validates the response payload before writing it, so that we never return
// something our schema does not describe.
func ValidateAndReturn(c echo.Context, code int, v runtime.Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Error().Err(err).Msg("Response payload did not match schema")
		return err
	}

	return c.JSON(code, v)
}

// LogFromEchoContext returns the request-scoped logger.
func LogFromEchoContext(c echo.Context) *zerolog.Logger {
	return LogFromContext(c.Request().Context())
}

func validatePayload(c echo.Context, v runtime.Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		var compositeError *oerrors.CompositeError
		if errors.As(err, &compositeError) {
			LogFromEchoContext(c).Debug().Errs("validation_errors", compositeError.Errors).Msg("Payload did not match schema, returning HTTP validation error")

			return httperrors.NewHTTPValidationError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric,
				http.StatusText(http.StatusBadRequest), formatValidationErrors(c.Request().Context(), compositeError))
		}

		LogFromEchoContext(c).Error().Err(err).Msg("Failed to validate payload, returning generic HTTP error")
		return err
	}

	return nil
}

func formatValidationErrors(ctx context.Context, err *oerrors.CompositeError) []*types.HTTPValidationErrorDetail {
	valErrs := make([]*types.HTTPValidationErrorDetail, 0, len(err.Errors))
	for _, e := range err.Errors {
		var validationErr *oerrors.Validation
		var nested *oerrors.CompositeError
		switch {
		case errors.As(e, &nested):
			valErrs = append(valErrs, formatValidationErrors(ctx, nested)...)
		case errors.As(e, &validationErr):
			valErrs = append(valErrs, &types.HTTPValidationErrorDetail{
				Key:   swag.String(validationErr.Name),
				In:    swag.String(validationErr.In),
				Error: swag.String(strings.TrimSpace(validationErr.Error())),
			})
		default:
			LogFromContext(ctx).Warn().Err(e).Str("err_type", fmt.Sprintf("%T", e)).Msg("Received unknown error type while validating payload, skipping")
		}
	}

	return valErrs
}
