package entity

import (
	"strings"
	"testing"
)

func TestNoticeEscapesWithoutLinkify(t *testing.T) {
	n := NewNotice("<script>x</script>", "", false)
	rec := n.Serialize()
	if strings.Contains(rec.Message, "<script>") {
		t.Fatalf("raw markup leaked: %q", rec.Message)
	}
	if !strings.Contains(rec.Message, "&lt;script&gt;") {
		t.Errorf("expected escaped entities, got %q", rec.Message)
	}
}

func TestNoticeLinkify(t *testing.T) {
	n := NewNotice(`see https://example.com/a?b=1 & <b>more</b>`, "host", true)
	rec := n.Serialize()
	if !strings.Contains(rec.Message, `<a href="https://example.com/a?b=1"`) {
		t.Errorf("expected anchor, got %q", rec.Message)
	}
	if strings.Contains(rec.Message, "<b>") {
		t.Errorf("non-URL markup must be escaped: %q", rec.Message)
	}
	if !strings.Contains(rec.Message, "&amp;") {
		t.Errorf("ampersand outside URL must be escaped: %q", rec.Message)
	}
}

func TestLinkifyHTMLEscapesURLAttr(t *testing.T) {
	out := LinkifyHTML(`https://example.com/"><script>`)
	if strings.Contains(out, `"><script>`) {
		t.Errorf("attribute breakout: %q", out)
	}
}

func TestNoticeGeneratedIDsDistinct(t *testing.T) {
	a := NewNotice("x", "", false)
	b := NewNotice("x", "", false)
	if a.ID == b.ID {
		t.Errorf("generated ids must be unique, both %q", a.ID)
	}
}
