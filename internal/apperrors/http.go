package apperrors

import "net/http"

// StatusCode maps an error kind to its HTTP status.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindStateConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Payload returns the JSON body for an error response. Internal errors are
// masked; kinded errors surface their kind and message.
func Payload(err error) map[string]interface{} {
	e, ok := err.(*Error)
	if !ok || e.Kind == KindInternal {
		return map[string]interface{}{"error": "internal server error"}
	}
	body := map[string]interface{}{
		"error": e.Message,
		"kind":  string(e.Kind),
	}
	if e.Field != "" {
		body["field"] = e.Field
	}
	return body
}
