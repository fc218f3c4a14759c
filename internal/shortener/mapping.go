package shortener

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Code represents a short URL code.
type Code string

// Mapping associates a short code with the original URL it redirects to.
// Records are never mutated after creation.
type Mapping struct {
	Code        Code      `validate:"required"`
	OriginalURL string    `validate:"required"`
	CreatedAt   time.Time `validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports whether the mapping can be persisted.
func (m *Mapping) Validate() error {
	return validate.Struct(m)
}
