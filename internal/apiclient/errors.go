package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthenticated")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("backend unavailable")
)

// Error is a non-2xx backend answer, or a transport failure when Status is 0.
type Error struct {
	Op      string
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	}
	return ErrUnavailable
}

type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

func parseError(op string, status int, body []byte) *Error {
	e := &Error{Op: op, Status: status}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		e.Message = eb.Message
		if e.Message == "" {
			e.Message = eb.Error
		}
		e.Fields = eb.Errors
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// FieldErrors flattens a 422 answer to the first message per field. Nil for other errors.
func FieldErrors(err error) map[string]string {
	var e *Error
	if !errors.As(err, &e) || len(e.Fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.Fields))
	for k, msgs := range e.Fields {
		if len(msgs) > 0 {
			out[k] = msgs[0]
		}
	}
	return out
}

// FieldNames returns the failing field names in a stable order.
func FieldNames(err error) []string {
	fe := FieldErrors(err)
	names := make([]string, 0, len(fe))
	for k := range fe {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// UserMessage is the text shown next to a form or in a banner.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		var e *Error
		if errors.As(err, &e) && e.Message != "" {
			return e.Message
		}
		return "Certains champs sont invalides."
	case errors.Is(err, ErrUnauthorized):
		return "Votre session a expiré. Veuillez vous reconnecter."
	case errors.Is(err, ErrForbidden):
		return "Vous n'avez pas accès à cette ressource."
	case errors.Is(err, ErrNotFound):
		return "Élément introuvable."
	case errors.Is(err, ErrConflict):
		return "Impossible de supprimer cet élément : il est encore utilisé."
	}
	return "Une erreur est survenue. Veuillez réessayer."
}
