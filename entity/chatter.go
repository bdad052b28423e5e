package entity

import (
	"errors"
	"math/rand"
	"strings"

	"github.com/onnwee/chat-tender/backend/tags"
)

// SelfUserID is the sentinel user id the client assigns to the authenticated
// user's own synthetic userstate.
const SelfUserID = "self"

// defaultColors is the palette sampled when upstream provides no color. These
// are the Twitch default username colors.
var defaultColors = []string{
	"#FF0000", "#0000FF", "#008000", "#B22222", "#FF7F50",
	"#9ACD32", "#FF4500", "#2E8B57", "#DAA520", "#D2691E",
	"#5F9EA0", "#1E90FF", "#FF69B4", "#8A2BE2", "#00FF7F",
}

// Chatter is an identity + moderation-state snapshot of a user at message
// time. It is immutable after construction: resolving a missing color goes
// through WithColor / WithRandomColor, which return a new value.
type Chatter struct {
	ID            string
	UserName      string
	DisplayName   string
	Color         string
	IsMod         bool
	IsBroadcaster bool
	IsSelf        bool
	Ignored       bool

	// ShowUserName is derived once at construction: true when the display
	// name differs from the login name beyond casing.
	ShowUserName bool
}

// NewChatter builds a Chatter from a login name and a raw tag map. A missing
// user-id tag is a structural error: the id keys every downstream aggregate.
func NewChatter(userName string, tm tags.Map) (Chatter, error) {
	id := tm.String("user-id")
	if id == "" {
		return Chatter{}, errors.New("chatter: missing user-id tag")
	}
	display := tm.String("display-name")
	if display == "" {
		display = userName
	}
	isBroadcaster := tm.HasBadge("broadcaster")
	return Chatter{
		ID:            id,
		UserName:      userName,
		DisplayName:   display,
		Color:         tm.String("color"),
		IsMod:         tm.Bool("mod") || isBroadcaster,
		IsBroadcaster: isBroadcaster,
		IsSelf:        id == SelfUserID,
		ShowUserName:  !strings.EqualFold(display, userName),
	}, nil
}

// WithColor returns a copy with the color resolved.
func (c Chatter) WithColor(color string) Chatter {
	c.Color = color
	return c
}

// WithRandomColor returns a copy with a color sampled from the default
// palette. A chatter that already has a color is returned unchanged.
func (c Chatter) WithRandomColor(rng *rand.Rand) Chatter {
	if c.Color != "" {
		return c
	}
	c.Color = defaultColors[rng.Intn(len(defaultColors))]
	return c
}

// WithIgnored returns a copy with the ignored flag set.
func (c Chatter) WithIgnored(ignored bool) Chatter {
	c.Ignored = ignored
	return c
}

// ChatterRecord is the JSON-safe projection of a Chatter.
type ChatterRecord struct {
	ID            string `json:"id"`
	UserName      string `json:"user_name"`
	DisplayName   string `json:"display_name"`
	Color         string `json:"color,omitempty"`
	IsMod         bool   `json:"is_mod"`
	IsBroadcaster bool   `json:"is_broadcaster"`
	IsSelf        bool   `json:"is_self"`
	Ignored       bool   `json:"ignored"`
	ShowUserName  bool   `json:"show_user_name"`
}

// Serialize projects the chatter to its plain record.
func (c Chatter) Serialize() ChatterRecord {
	return ChatterRecord{
		ID:            c.ID,
		UserName:      c.UserName,
		DisplayName:   c.DisplayName,
		Color:         c.Color,
		IsMod:         c.IsMod,
		IsBroadcaster: c.IsBroadcaster,
		IsSelf:        c.IsSelf,
		Ignored:       c.Ignored,
		ShowUserName:  c.ShowUserName,
	}
}
