package entity

import "html"

// Notice is a system message keyed by an upstream event name (msg-id), or ""
// when the source event carries none. Linkify controls which of two mutually
// exclusive serialization branches runs: URL-to-anchor transformation, or
// plain HTML escaping. Raw chat text must never reach the frontend unescaped.
type Notice struct {
	ID      string
	Event   string
	Text    string
	Linkify bool
}

// NewNotice builds a notice with a generated id.
func NewNotice(text, event string, linkify bool) Notice {
	return Notice{
		ID:      NewID(),
		Event:   event,
		Text:    text,
		Linkify: linkify,
	}
}

// NoticeRecord is the JSON-safe projection of a Notice. Message holds
// HTML-safe markup: either fully escaped text or escaped text with URLs
// wrapped in anchors.
type NoticeRecord struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Event   string `json:"event,omitempty"`
	Message string `json:"message"`
}

// Serialize projects the notice, choosing exactly one escaping branch.
func (n Notice) Serialize() NoticeRecord {
	var body string
	if n.Linkify {
		body = LinkifyHTML(n.Text)
	} else {
		body = html.EscapeString(n.Text)
	}
	return NoticeRecord{
		ID:      n.ID,
		Type:    "notice",
		Event:   n.Event,
		Message: body,
	}
}
