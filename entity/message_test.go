package entity

import (
	"reflect"
	"testing"

	"github.com/onnwee/chat-tender/backend/tags"
)

func testTags() tags.Map {
	return tags.Map{
		"user-id":      "42",
		"display-name": "Foo",
		"color":        "#1E90FF",
		"badges":       "subscriber/3,vip/1",
		"tmi-sent-ts":  "1700000000000",
	}
}

func TestNewMessage(t *testing.T) {
	m, err := NewMessage(MessageChat, "msg-1", "hello <world>", "foo", testTags(), false)
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	if m.Text != "hello <world>" {
		t.Errorf("text must be captured verbatim, got %q", m.Text)
	}
	if m.Timestamp != "1700000000000" {
		t.Errorf("timestamp must be the raw tag string, got %q", m.Timestamp)
	}
	if got := m.Badges; !reflect.DeepEqual(got, []string{"subscriber", "vip"}) {
		t.Errorf("badges = %v", got)
	}
}

func TestNewMessageMissingID(t *testing.T) {
	if _, err := NewMessage(MessageChat, "", "hi", "foo", testTags(), false); err == nil {
		t.Fatalf("expected structural error for missing message id")
	}
}

func TestMessageSerializeIdempotent(t *testing.T) {
	m, _ := NewMessage(MessageAction, "msg-2", "waves", "foo", testTags(), true)
	a := m.Serialize()
	b := m.Serialize()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Serialize not idempotent")
	}
	// Mutating one serialized copy must not leak into the next.
	a.Badges[0] = "clobbered"
	c := m.Serialize()
	if c.Badges[0] != "subscriber" {
		t.Errorf("serialized copies share badge storage")
	}
}

func TestWithPurged(t *testing.T) {
	m, _ := NewMessage(MessageChat, "msg-3", "bye", "foo", testTags(), false)
	rec := m.Serialize()
	purged := rec.WithPurged()
	if rec.Purged {
		t.Errorf("original record mutated")
	}
	if !purged.Purged {
		t.Errorf("expected purged copy")
	}
}
