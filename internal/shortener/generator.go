package shortener

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

const (
	// CodeLength is the number of random characters in a short code.
	CodeLength = 6
	// CodeSuffix is appended to every generated code.
	CodeSuffix = "-zag-eng"
	// Alphabet lists the characters the random part is drawn from.
	Alphabet = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// CodeGenerator generates short codes.
type CodeGenerator interface {
	Generate() Code
}

// Generator produces random codes with a fixed suffix.
type Generator struct {
	random func() string
	suffix string
}

// NewGenerator creates a generator of length random URL-safe characters
// followed by suffix. Randomness comes from crypto/rand.
func NewGenerator(length int, suffix string) (*Generator, error) {
	random, err := nanoid.Standard(length)
	if err != nil {
		return nil, fmt.Errorf("create nanoid generator: %w", err)
	}

	return &Generator{random: random, suffix: suffix}, nil
}

// NewDefaultGenerator creates a generator using CodeLength and CodeSuffix.
func NewDefaultGenerator() (*Generator, error) {
	return NewGenerator(CodeLength, CodeSuffix)
}

// Generate returns a new code. Uniqueness is not checked here.
func (g *Generator) Generate() Code {
	return Code(g.random() + g.suffix)
}
