package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-list-keeper/models"
	"github.com/google/uuid"
)

// UUIDGenerator produces time-ordered identifiers. It falls back to a random
// v4 UUID if the v7 clock source fails.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// TempID returns a fresh temporary List identifier.
func (g *UUIDGenerator) TempID() string {
	return models.TempIDPrefix + g.Generate()
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9-]`)

// Slug lowercases title, joins words with "-" and drops every other
// non-alphanumeric character.
func Slug(title string) string {
	s := strings.Join(strings.Fields(strings.ToLower(title)), "-")
	return nonSlugChars.ReplaceAllString(s, "")
}

// ChildItemID builds a line item identifier from its title and the creation
// time in milliseconds.
func ChildItemID(title string, now time.Time) string {
	return "child-" + Slug(title) + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}
