package domain

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// Engine is a named search destination.
//
// URL is a template that may contain one "%s" placeholder for the query.
// ID is generated once at creation and is the only key used for selection,
// edits and removal; names may repeat or change freely.
type Engine struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`
	ID   string `json:"id" yaml:"id,omitempty"`
}

// EnginePatch carries the fields to merge into an existing engine. Nil fields
// are left untouched.
type EnginePatch struct {
	Name *string `json:"name,omitempty"`
	URL  *string `json:"url,omitempty"`
	Icon *string `json:"icon,omitempty"`
}

// Apply merges the non-nil fields of p into e.
func (p EnginePatch) Apply(e Engine) Engine {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.URL != nil {
		e.URL = *p.URL
	}
	if p.Icon != nil {
		e.Icon = *p.Icon
	}
	return e
}

// IconURL resolves the icon to display: the explicit icon, else the favicon at
// the origin of the template URL, else "" (the client shows the globe glyph).
func (e Engine) IconURL() string {
	if e.Icon != "" {
		return e.Icon
	}
	return FaviconURL(e.URL)
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.New().String()
}

// StableID derives an identifier from key, so the same default entry keeps
// its id across reloads and restarts.
func StableID(prefix, key string) string {
	sum := sha256.Sum256([]byte(key))
	return prefix + "-" + hex.EncodeToString(sum[:])[:16]
}
