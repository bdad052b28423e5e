package entity

import (
	"errors"

	"github.com/onnwee/chat-tender/backend/tags"
)

// MessageType is the wire discriminant for user utterances.
type MessageType string

const (
	MessageChat    MessageType = "chat"
	MessageAction  MessageType = "action" // /me
	MessageWhisper MessageType = "whisper"
)

// Message is a single utterance. Text is captured verbatim; escaping and emote
// substitution are render-time concerns. The platform timestamp is kept as the
// raw tmi-sent-ts string so no locale or timezone ambiguity creeps in.
type Message struct {
	ID        string
	Type      MessageType
	User      Chatter
	Badges    []string
	Color     string
	Timestamp string
	Self      bool
	Text      string
}

// NewMessage builds a Message from wire data. The platform message id and the
// chatter's user id are structurally required; everything else passes through
// as-is, absent fields included.
func NewMessage(typ MessageType, id, text, userName string, tm tags.Map, self bool) (Message, error) {
	if id == "" {
		return Message{}, errors.New("message: missing platform id")
	}
	user, err := NewChatter(userName, tm)
	if err != nil {
		return Message{}, err
	}
	return Message{
		ID:        id,
		Type:      typ,
		User:      user,
		Badges:    tm.BadgeNames(),
		Color:     tm.String("color"),
		Timestamp: tm.String("tmi-sent-ts"),
		Self:      self,
		Text:      text,
	}, nil
}

// MessageRecord is the JSON-safe projection of a Message. Purged is a
// store-side flag set when moderation clears the author's messages.
type MessageRecord struct {
	ID        string        `json:"id"`
	Type      MessageType   `json:"type"`
	User      ChatterRecord `json:"user"`
	Badges    []string      `json:"badges,omitempty"`
	Color     string        `json:"color,omitempty"`
	Timestamp string        `json:"timestamp,omitempty"`
	Self      bool          `json:"self"`
	Text      string        `json:"text"`
	Purged    bool          `json:"purged,omitempty"`
}

// Serialize projects the message to its plain record.
func (m Message) Serialize() MessageRecord {
	var badges []string
	if len(m.Badges) > 0 {
		badges = append(badges, m.Badges...)
	}
	return MessageRecord{
		ID:        m.ID,
		Type:      m.Type,
		User:      m.User.Serialize(),
		Badges:    badges,
		Color:     m.Color,
		Timestamp: m.Timestamp,
		Self:      m.Self,
		Text:      m.Text,
	}
}

// WithPurged returns a copy of the record with the purged flag set.
func (r MessageRecord) WithPurged() MessageRecord {
	r.Purged = true
	return r
}
