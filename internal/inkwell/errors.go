package inkwell

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies a failed API interaction.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindForbidden
	KindValidation
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation failed"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against any *APIError of the same kind.
var (
	ErrUnknown         = errors.New("unknown error")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication required")
)

func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindForbidden:
		return ErrForbidden
	case KindValidation:
		return ErrValidation
	case KindUnauthenticated:
		return ErrUnauthenticated
	default:
		return ErrUnknown
	}
}

// APIError describes a failed request. Fields holds per-field messages when
// the server rejected the payload.
type APIError struct {
	Kind   Kind
	Status int
	Path   string
	Fields map[string]string
	Detail string
	Err    error
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&b, "api %s", e.Path)
	} else {
		b.WriteString("api")
	}
	if e.Status > 0 {
		fmt.Fprintf(&b, " returned status %d", e.Status)
	}
	fmt.Fprintf(&b, " (%s)", e.Kind)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "; %s: %s", k, e.Fields[k])
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *APIError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// KindOf returns the classification of err. Errors that did not come from the
// API are reported as KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	}
	return KindUnknown
}

// Classify wraps err as an *APIError unless it already carries a kind.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}
	if kind := KindOf(err); kind != KindUnknown {
		return err
	}
	return &APIError{Kind: KindUnknown, Err: err}
}

// FieldErrors returns the per-field messages carried by err, if any.
func FieldErrors(err error) map[string]string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != KindValidation {
		return nil
	}
	return apiErr.Fields
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusUnauthorized:
		return KindUnauthenticated
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindUnknown
	}
}

// parseErrorBody decodes the server's error document. Both
// {"field": ["msg", ...]} and {"field": "msg"} shapes are accepted; "detail"
// and "non_field_errors" become the general detail.
func parseErrorBody(body []byte) (fields map[string]string, detail string) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, ""
	}
	var general []string
	for name, value := range raw {
		msg := decodeMessage(value)
		if msg == "" {
			continue
		}
		switch name {
		case "detail", "non_field_errors", "error", "message":
			general = append(general, msg)
		default:
			if fields == nil {
				fields = make(map[string]string)
			}
			fields[name] = msg
		}
	}
	sort.Strings(general)
	return fields, strings.Join(general, " ")
}

func decodeMessage(value json.RawMessage) string {
	var single string
	if err := json.Unmarshal(value, &single); err == nil {
		return strings.TrimSpace(single)
	}
	var list []string
	if err := json.Unmarshal(value, &list); err == nil {
		parts := list[:0]
		for _, item := range list {
			if item = strings.TrimSpace(item); item != "" {
				parts = append(parts, item)
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}
