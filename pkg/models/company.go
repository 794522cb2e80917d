package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is a tenant record: one business whose marketing page is served
// under its slug. Theme and sections are stored as JSONB documents.
type Company struct {
	ID         uuid.UUID `db:"id"         json:"id"`
	Collection string    `db:"collection" json:"collection"`
	Name       string    `db:"name"       json:"name"`
	Address    string    `db:"address"    json:"address"`
	Phone      string    `db:"phone"      json:"phone"`
	Logo       string    `db:"logo"       json:"logo"`
	Slug       string    `db:"slug"       json:"slug"`
	Location   string    `db:"location"   json:"location"`
	Theme      Theme     `db:"theme"      json:"theme"`
	Sections   []Section `db:"sections"   json:"sections"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Theme maps color and font roles to concrete values.
type Theme struct {
	Colors map[string]string `json:"colors"`
	Fonts  map[string]string `json:"fonts"`
}

// Section is one content block of a company page. TemplateName names the
// section template ("header 1", "footer 1", ...); Data is an opaque payload
// handed to the template. Slice order is render order.
type Section struct {
	TemplateName string         `json:"template_name"`
	Data         map[string]any `json:"data"`
}
