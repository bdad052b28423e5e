package view

import (
	"testing"

	"github.com/onnwee/chat-tender/backend/entity"
	"github.com/onnwee/chat-tender/backend/logstore"
	"github.com/onnwee/chat-tender/backend/tags"
)

func message(t *testing.T, id, userID, display, text string) entity.MessageRecord {
	t.Helper()
	tm := tags.Map{"user-id": userID, "display-name": display}
	m, err := entity.NewMessage(entity.MessageChat, id, text, display, tm, false)
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	return m.Serialize()
}

func seed(t *testing.T) (*logstore.MemoryStore, *logstore.Users, *Views) {
	t.Helper()
	store := logstore.NewMemoryStore()
	users := logstore.NewUsers()
	v := New(store, users)
	for _, c := range []struct{ id, user, display, text string }{
		{"a", "1", "Alice", "one"},
		{"b", "2", "Bob", "two"},
		{"c", "1", "Alice", "three"},
	} {
		rec := message(t, c.id, c.user, c.display, c.text)
		store.Append(rec)
		users.Record(rec.User, rec.ID)
	}
	return store, users, v
}

func TestMessagesDispatchOrder(t *testing.T) {
	_, _, v := seed(t)
	msgs := v.Messages()
	if len(msgs) != 3 {
		t.Fatalf("len = %d", len(msgs))
	}
	wantNames := []string{"Alice", "Bob", "Alice"}
	for i, m := range msgs {
		if m.User.DisplayName != wantNames[i] {
			t.Errorf("msgs[%d].DisplayName = %q, want %q", i, m.User.DisplayName, wantNames[i])
		}
	}
}

func TestMemoizationStability(t *testing.T) {
	store, _, v := seed(t)
	first := v.Records()
	second := v.Records()
	if &first[0] != &second[0] {
		t.Errorf("unchanged store must return the identical cached slice")
	}
	store.Append(message(t, "d", "3", "Dora", "four"))
	third := v.Records()
	if len(third) != 4 {
		t.Errorf("post-append len = %d", len(third))
	}
}

func TestDuplicateAppendVisibleThroughSelector(t *testing.T) {
	store, _, v := seed(t)
	store.Append(message(t, "a", "1", "Alice", "corrected"))
	msgs := v.Messages()
	if len(msgs) != 3 {
		t.Fatalf("duplicate id must not grow the view, len = %d", len(msgs))
	}
	if msgs[0].Text != "corrected" {
		t.Errorf("selector must surface the newest payload, got %q", msgs[0].Text)
	}
}

func TestChatterLogs(t *testing.T) {
	_, _, v := seed(t)
	logs := v.ChatterLogs("1")
	if len(logs) != 2 || logs[0].ID != "a" || logs[1].ID != "c" {
		t.Errorf("ChatterLogs(1) = %+v", logs)
	}
	if got := v.ChatterLogs("nope"); len(got) != 0 {
		t.Errorf("unknown chatter must yield empty, got %d", len(got))
	}
}

func TestChatterLogsToleratesTrimmedIDs(t *testing.T) {
	store, _, v := seed(t)
	store.TrimOldest(1) // removes "a"
	logs := v.ChatterLogs("1")
	if len(logs) != 1 || logs[0].ID != "c" {
		t.Errorf("expected only surviving message, got %+v", logs)
	}
}

func TestPurgedSubset(t *testing.T) {
	store, _, v := seed(t)
	store.MarkPurged("1")
	purged := v.Purged()
	if len(purged) != 2 {
		t.Fatalf("purged len = %d", len(purged))
	}
	for _, m := range purged {
		if m.User.ID != "1" {
			t.Errorf("wrong chatter in purged set: %+v", m.User)
		}
	}
	// Notices never show up in message-derived views.
	store.Append(entity.NewNotice("sys", "", false).Serialize())
	if len(v.Messages()) != 3 {
		t.Errorf("notice leaked into Messages()")
	}
}
