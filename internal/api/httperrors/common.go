package httperrors

import (
	"net/http"

	"github.com/kinetix/kx-console/internal/types"
)

var (
	ErrBadRequestInvalidJSON = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Request body is not valid JSON.")
	ErrServiceUnavailable    = NewHTTPError(http.StatusServiceUnavailable, types.PublicHTTPErrorTypeGeneric, "Service is not ready.")
)
