package entity

// Notification is a client-facing event the notification coordinator raises
// for records worth surfacing out-of-band (mentions, whispers). The frontend
// decides presentation (sound, toast); the backend only records the fact.
type Notification struct {
	ID    string
	Event string
	Title string
	Body  string
}

// NewNotification builds a notification with a generated id.
func NewNotification(event, title, body string) Notification {
	return Notification{ID: NewID(), Event: event, Title: title, Body: body}
}

// NotificationRecord is the JSON-safe projection of a Notification.
type NotificationRecord struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Event string `json:"event"`
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

// Serialize projects the notification to its plain record.
func (n Notification) Serialize() NotificationRecord {
	return NotificationRecord{
		ID:    n.ID,
		Type:  "notification",
		Event: n.Event,
		Title: n.Title,
		Body:  n.Body,
	}
}
