package adapthttp

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

const genericServerError = "An error happened on the server."

// statusFor maps a failure kind to its HTTP status. Login failures are
// reported as 403 like every other rejected credential.
func statusFor(k domain.Kind) int {
	switch k {
	case domain.KindBadRequest:
		return http.StatusBadRequest
	case domain.KindUnauthorized, domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeErr is the single place where failures become responses. Internal
// errors are logged and answered with a generic message.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(domain.KindOf(err))
	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
		writeError(w, status, errors.New(genericServerError))
		return
	}

	var de *domain.Error
	if errors.As(err, &de) && de.Msg != "" {
		writeError(w, status, errors.New(de.Msg))
		return
	}
	writeError(w, status, errors.New(http.StatusText(status)))
}
