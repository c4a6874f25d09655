package server

import (
	"net/http"

	"github.com/matzehuels/openmodel/pkg/errors"
)

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.CodeNotFound, errors.CodeUnknownVertex, errors.CodeUnknownFace,
		errors.CodeUnknownNode, errors.CodeUnknownMember, errors.CodeUnknownSupport,
		errors.CodeUnknownLoad:
		return http.StatusNotFound
	case errors.CodeInvalidInput, errors.CodeParse:
		return http.StatusBadRequest
	case errors.CodeReferentialIntegrity, errors.CodeDegenerateFace,
		errors.CodeDegenerateVector, errors.CodeCollinearPoints, errors.CodeAttributeType,
		errors.CodeAttributeNotFound, errors.CodeSingularTransform:
		return http.StatusUnprocessableEntity
	case errors.CodeDuplicateID, errors.CodeStalePlan, errors.CodeVertexInUse:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if code == "" {
		code = errors.CodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}
