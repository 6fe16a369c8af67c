package request

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gookit/validate"

	"github.com/mcoot/skylandly/internal/api/apierr"
)

// maxBodyBytes caps request bodies; a full result with guesses is far smaller
const maxBodyBytes = 64 << 10

// checker is implemented by requests with rules beyond struct tags
type checker interface {
	Check() error
}

func invalid(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// Decode reads a JSON body into dst and validates it.
// An empty body is allowed when allowEmpty is set, leaving dst untouched before validation.
func Decode(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	if r.Body != nil {
		body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
		err := json.NewDecoder(body).Decode(dst)
		switch {
		case errors.Is(err, io.EOF) && allowEmpty:
		case err != nil:
			return invalid("invalid request body")
		}
	}
	return Validate(dst)
}

// Validate runs struct tag rules and any extra checks on v
func Validate(v any) error {
	vd := validate.Struct(v)
	if !vd.Validate() {
		return invalid(vd.Errors.One())
	}
	if c, ok := v.(checker); ok {
		return c.Check()
	}
	return nil
}
