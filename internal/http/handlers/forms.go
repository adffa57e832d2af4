package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/silver1953366/gravure-frontend/internal/domain"
	"github.com/silver1953366/gravure-frontend/internal/services"
	"github.com/silver1953366/gravure-frontend/internal/validate"
)

// formReader parses typed admin fields. An empty field reads as its zero value; a field
// that is present but malformed is recorded and nothing should be sent upstream.
type formReader struct {
	c   *fiber.Ctx
	err error
}

func readForm(c *fiber.Ctx) *formReader { return &formReader{c: c} }

func (f *formReader) raw(key string) string { return strings.TrimSpace(f.c.FormValue(key)) }

func (f *formReader) fail(key, msg string) {
	if f.err == nil {
		f.err = &services.FieldError{Field: key, Message: msg}
	}
}

// Int keeps the sign so range checks stay with the domain rules.
func (f *formReader) Int(key string) int {
	s := f.raw(key)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f.fail(key, "Nombre entier attendu.")
		return 0
	}
	return n
}

func (f *formReader) Decimal(key string) decimal.Decimal {
	if d := f.OptDecimal(key); d != nil {
		return *d
	}
	return decimal.Zero
}

// OptDecimal returns nil for an empty field.
func (f *formReader) OptDecimal(key string) *decimal.Decimal {
	s := f.raw(key)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		f.fail(key, "Montant invalide.")
		return nil
	}
	return &d
}

// OptDate reads a YYYY-MM-DD field, nil when empty.
func (f *formReader) OptDate(key string) *domain.Timestamp {
	s := f.raw(key)
	if s == "" {
		return nil
	}
	t, ok := validate.Date(s)
	if !ok {
		f.fail(key, "Date invalide (AAAA-MM-JJ).")
		return nil
	}
	return &domain.Timestamp{Time: t}
}

func (f *formReader) Err() error { return f.err }

func formBool(c *fiber.Ctx, key string) bool {
	switch c.FormValue(key) {
	case "1", "on", "true":
		return true
	}
	return false
}
