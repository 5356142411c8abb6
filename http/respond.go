package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"mortgage-engine/domain"
)

const maxBodyBytes = 1 << 20

// errInvalidRequest marks malformed or incomplete request bodies.
var errInvalidRequest = errors.New("invalid request")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type errorResponse struct {
	Message    string `json:"message"`
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
}

// decodeJSON reads a JSON body into dst and runs its validate tags. Numbers
// are kept as json.Number so amounts reach the normalizer unrounded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return fmt.Errorf("%w: Content-Type must be application/json", errInvalidRequest)
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fieldMessage(fe))
			}
			return fmt.Errorf("%w: %s", errInvalidRequest, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), strings.SplitN(fe.Namespace(), ".", 2)[0]+".")
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	// Encode into a buffer first so a failure can still send a clean 500.
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

// writeError maps engine errors to status codes: 422 when the loan is
// well-formed but over its limit, 400 for every other engine or request
// error, 500 for anything unexpected.
func writeError(w http.ResponseWriter, err error) {
	code := domain.ErrorCode(err)
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, domain.ErrLoanLimitExceeded):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errInvalidRequest):
		code = "invalid_request"
	case code == "":
		log.Printf("Error handling request: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Message:    "internal server error",
			Error:      "internal_error",
			StatusCode: http.StatusInternalServerError,
		})
		return
	}

	writeJSON(w, status, errorResponse{
		Message:    err.Error(),
		Error:      code,
		StatusCode: status,
	})
}
