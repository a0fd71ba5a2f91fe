package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/estaidesoriginal/biblioteca-G/internal/apperr"

	"github.com/google/uuid"
)

// Protection is the per-game flag gating who may mutate the record.
// Values match protection_status_id on the wire.
type Protection int

const (
	Protected Protection = 1
	Public    Protection = 2
)

func (p Protection) String() string {
	switch p {
	case Protected:
		return "PROTECTED"
	case Public:
		return "PUBLIC"
	}
	return fmt.Sprintf("Protection(%d)", int(p))
}

type Game struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Tags          []string   `json:"tags"`
	ImageURL      *string    `json:"image_url,omitempty"`
	ExternalLinks []string   `json:"external_links"`
	Protection    Protection `json:"protection_status_id"`
}

// UnmarshalJSON defaults missing or unknown protection ids to Public.
func (g *Game) UnmarshalJSON(b []byte) error {
	type wire Game
	var w wire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.Protection != Protected {
		w.Protection = Public
	}
	if w.Tags == nil {
		w.Tags = []string{}
	}
	if w.ExternalLinks == nil {
		w.ExternalLinks = []string{}
	}
	*g = Game(w)
	return nil
}

func (g Game) Key() string { return g.ID }

// WithID returns a copy carrying a generated id when none was set.
func (g Game) WithID() Game {
	if strings.TrimSpace(g.ID) == "" {
		g.ID = uuid.NewString()
	}
	if g.Protection != Protected {
		g.Protection = Public
	}
	return g
}

func (g Game) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return apperr.Invalid("title", "is required")
	}
	if strings.TrimSpace(g.Description) == "" {
		return apperr.Invalid("description", "is required")
	}
	return nil
}

// Matches is a case-insensitive substring match over title, description and tags.
func (g Game) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if containsFold(g.Title, q) || containsFold(g.Description, q) {
		return true
	}
	for _, t := range g.Tags {
		if containsFold(t, q) {
			return true
		}
	}
	return false
}

func containsFold(s, lowered string) bool {
	return strings.Contains(strings.ToLower(s), lowered)
}

// SplitList turns "a, b,,c" into [a b c]. Used for comma separated form input.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
