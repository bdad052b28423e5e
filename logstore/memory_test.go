package logstore

import (
	"fmt"
	"testing"

	"github.com/onnwee/chat-tender/backend/entity"
	"github.com/onnwee/chat-tender/backend/tags"
)

func chatRecord(t *testing.T, id, userID, display, text string) entity.MessageRecord {
	t.Helper()
	tm := tags.Map{"user-id": userID, "display-name": display}
	m, err := entity.NewMessage(entity.MessageChat, id, text, display, tm, false)
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	return m.Serialize()
}

func TestAppendPreservesOrder(t *testing.T) {
	s := NewMemoryStore()
	for i := 0; i < 5; i++ {
		s.Append(chatRecord(t, fmt.Sprintf("id-%d", i), "1", "Foo", "x"))
	}
	recs := s.AllInOrder()
	if len(recs) != 5 {
		t.Fatalf("len = %d", len(recs))
	}
	for i, r := range recs {
		if want := fmt.Sprintf("id-%d", i); r.RecordID() != want {
			t.Errorf("recs[%d] = %q, want %q", i, r.RecordID(), want)
		}
	}
}

func TestAppendDuplicateOverwritesWithoutGrowing(t *testing.T) {
	s := NewMemoryStore()
	s.Append(chatRecord(t, "a", "1", "Alice", "first"))
	s.Append(chatRecord(t, "b", "2", "Bob", "second"))
	s.Append(chatRecord(t, "c", "3", "Carol", "third"))

	replaced := s.Append(chatRecord(t, "a", "1", "Alice", "corrected"))
	if !replaced {
		t.Errorf("expected replacement report for duplicate id")
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, ordered id list must not grow on duplicate", s.Len())
	}
	rec, ok := s.Get("a")
	if !ok {
		t.Fatalf("missing record a")
	}
	if msg := rec.(entity.MessageRecord); msg.Text != "corrected" {
		t.Errorf("byId slot must hold the newest payload, got %q", msg.Text)
	}
	// "a" keeps its original position.
	if got := s.AllInOrder()[0].RecordID(); got != "a" {
		t.Errorf("first record = %q, want a", got)
	}
}

func TestTrimOldest(t *testing.T) {
	s := NewMemoryStore()
	for i := 0; i < 10; i++ {
		s.Append(chatRecord(t, fmt.Sprintf("id-%d", i), "1", "Foo", "x"))
	}
	if n := s.TrimOldest(4); n != 4 {
		t.Fatalf("TrimOldest = %d", n)
	}
	if s.Len() != 6 {
		t.Errorf("Len = %d after trim", s.Len())
	}
	if got := s.AllInOrder()[0].RecordID(); got != "id-4" {
		t.Errorf("oldest surviving record = %q, want id-4", got)
	}
	if _, ok := s.Get("id-0"); ok {
		t.Errorf("trimmed record still retrievable")
	}
	if n := s.TrimOldest(100); n != 6 {
		t.Errorf("over-trim removed %d, want 6", n)
	}
}

func TestMarkPurged(t *testing.T) {
	s := NewMemoryStore()
	s.Append(chatRecord(t, "a", "1", "Alice", "one"))
	s.Append(chatRecord(t, "b", "2", "Bob", "two"))
	s.Append(chatRecord(t, "c", "1", "Alice", "three"))
	s.Append(entity.NewNotice("sys", "", false).Serialize())

	if n := s.MarkPurged("1"); n != 2 {
		t.Fatalf("MarkPurged = %d, want 2", n)
	}
	for _, id := range []string{"a", "c"} {
		rec, _ := s.Get(id)
		if !rec.(entity.MessageRecord).Purged {
			t.Errorf("record %s not purged", id)
		}
	}
	rec, _ := s.Get("b")
	if rec.(entity.MessageRecord).Purged {
		t.Errorf("unrelated chatter purged")
	}
	// Second pass finds nothing new.
	if n := s.MarkPurged("1"); n != 0 {
		t.Errorf("repeat MarkPurged = %d, want 0", n)
	}
}

func TestGenerationAdvancesOnMutation(t *testing.T) {
	s := NewMemoryStore()
	g0 := s.Generation()
	s.Append(chatRecord(t, "a", "1", "Alice", "x"))
	g1 := s.Generation()
	if g1 == g0 {
		t.Errorf("generation must advance on append")
	}
	s.AllInOrder()
	if s.Generation() != g1 {
		t.Errorf("reads must not advance generation")
	}
}

func TestUsersIndex(t *testing.T) {
	u := NewUsers()
	alice := chatRecord(t, "a", "1", "Alice", "x").User
	u.Record(alice, "a")
	u.Record(alice, "c")
	bob := chatRecord(t, "b", "2", "Bob", "y").User
	u.Record(bob, "b")

	e, ok := u.Get("1")
	if !ok {
		t.Fatalf("missing entry")
	}
	if len(e.MessageIDs) != 2 || e.MessageIDs[0] != "a" || e.MessageIDs[1] != "c" {
		t.Errorf("MessageIDs = %v", e.MessageIDs)
	}
	if _, ok := u.Get("unknown"); ok {
		t.Errorf("unexpected entry for unknown chatter")
	}
	all := u.All()
	if len(all) != 2 || all[0].Chatter.ID != "1" {
		t.Errorf("All() order wrong: %+v", all)
	}
	// Returned copies must not alias internal state.
	e.MessageIDs[0] = "clobbered"
	e2, _ := u.Get("1")
	if e2.MessageIDs[0] != "a" {
		t.Errorf("Get leaked internal slice")
	}
}
