// Package entity turns raw Twitch tag maps into immutable, serializable domain
// entities: chatters, messages, room state, notices, user-defined actions and
// highlights. Every entity exposes a Serialize() projection to a plain,
// JSON-safe record; records form a closed union consumed by the log store and
// the rendering frontend.
package entity

// Kind discriminates the record union. Filtering and rendering code switches
// on it exhaustively; adding a kind means updating every switch.
type Kind string

const (
	KindMessage      Kind = "message"
	KindNotice       Kind = "notice"
	KindNotification Kind = "notification"
)

// Record is a serialized log entry. The union is sealed: only the record types
// in this package implement it.
type Record interface {
	RecordID() string
	RecordKind() Kind

	sealed()
}

func (r MessageRecord) RecordID() string      { return r.ID }
func (r MessageRecord) RecordKind() Kind      { return KindMessage }
func (r MessageRecord) sealed()               {}
func (r NoticeRecord) RecordID() string       { return r.ID }
func (r NoticeRecord) RecordKind() Kind       { return KindNotice }
func (r NoticeRecord) sealed()                {}
func (r NotificationRecord) RecordID() string { return r.ID }
func (r NotificationRecord) RecordKind() Kind { return KindNotification }
func (r NotificationRecord) sealed()          {}
