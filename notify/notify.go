// Package notify decides which records deserve an out-of-band notification
// (mentions of the authenticated user, whispers) and records + broadcasts the
// result. There is exactly one coordinator per process, constructed by the
// application root and passed in explicitly.
package notify

import (
	"strings"

	"github.com/onnwee/chat-tender/backend/entity"
	"github.com/onnwee/chat-tender/backend/telemetry"
)

// Appender is the slice of the log store the notifier writes to.
type Appender interface {
	Append(rec entity.Record) bool
}

// Publisher pushes a record to live subscribers.
type Publisher interface {
	Publish(rec entity.Record) int
}

// Notifier inspects message records as they are ingested.
type Notifier struct {
	selfName   string
	store      Appender
	pub        Publisher
	highlights func() []entity.Highlight
}

// New builds a notifier for the authenticated user's login name. highlights
// supplies the current user-defined patterns; it may be nil.
func New(selfName string, store Appender, pub Publisher, highlights func() []entity.Highlight) *Notifier {
	telemetry.Init()
	return &Notifier{
		selfName:   strings.ToLower(selfName),
		store:      store,
		pub:        pub,
		highlights: highlights,
	}
}

// OnMessage raises a notification for the record when warranted and returns
// it, or nil when the message is unremarkable. Own messages never notify.
func (n *Notifier) OnMessage(rec entity.MessageRecord) *entity.NotificationRecord {
	if rec.Self || rec.User.IsSelf || rec.User.Ignored {
		return nil
	}
	event, title := n.classify(rec)
	if event == "" {
		return nil
	}
	note := entity.NewNotification(event, title, rec.Text).Serialize()
	n.store.Append(note)
	if n.pub != nil {
		n.pub.Publish(note)
	}
	telemetry.NotificationsRaised.Inc()
	return &note
}

func (n *Notifier) classify(rec entity.MessageRecord) (event, title string) {
	if rec.Type == entity.MessageWhisper {
		return "whisper", "Whisper from " + rec.User.DisplayName
	}
	if n.selfName != "" && mentions(rec.Text, n.selfName) {
		return "mention", rec.User.DisplayName + " mentioned you"
	}
	if n.highlights != nil {
		for _, h := range n.highlights() {
			if h.Matches(rec.Text) {
				return "highlight", rec.User.DisplayName + " used a highlighted word"
			}
		}
	}
	return "", ""
}

// mentions reports whether text contains name as a whole word, with or
// without a leading @.
func mentions(text, name string) bool {
	lower := strings.ToLower(text)
	for i := 0; ; {
		j := strings.Index(lower[i:], name)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(name)
		before := start == 0 || !isWordByte(lower[start-1])
		after := end == len(lower) || !isWordByte(lower[end])
		if before && after {
			return true
		}
		i = end
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
