package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/onnwee/chat-tender/backend/entity"
)

type recordingPersister struct {
	savedActions      []entity.Action
	deletedActions    []string
	savedHighlights   []entity.Highlight
	deletedHighlights []string
	err               error
}

func (p *recordingPersister) SaveAction(_ context.Context, a entity.Action) error {
	p.savedActions = append(p.savedActions, a)
	return p.err
}

func (p *recordingPersister) DeleteAction(_ context.Context, id string) error {
	p.deletedActions = append(p.deletedActions, id)
	return p.err
}

func (p *recordingPersister) SaveHighlight(_ context.Context, h entity.Highlight) error {
	p.savedHighlights = append(p.savedHighlights, h)
	return p.err
}

func (p *recordingPersister) DeleteHighlight(_ context.Context, pattern string) error {
	p.deletedHighlights = append(p.deletedHighlights, pattern)
	return p.err
}

func TestAddActionValidatesStrictly(t *testing.T) {
	reg := New(nil)
	ctx := context.Background()

	if _, err := reg.AddAction(ctx, entity.ActionSay, "greet", "", ""); err == nil {
		t.Error("expected error for empty text")
	}
	if _, err := reg.AddAction(ctx, entity.ActionWhisper, "dm", "hi", "ab"); err == nil {
		t.Error("expected error for short recipient")
	}

	a, err := reg.AddAction(ctx, entity.ActionSay, "greet", "hello {{.user}}", "")
	if err != nil {
		t.Fatalf("AddAction: %v", err)
	}
	if a.ID == "" {
		t.Error("expected generated id")
	}
	if got := reg.Actions(); len(got) != 1 || got[0].Name != "greet" {
		t.Errorf("Actions() = %+v, want single greet entry", got)
	}
}

func TestRemoveAction(t *testing.T) {
	reg := New(nil)
	ctx := context.Background()

	a, err := reg.AddAction(ctx, entity.ActionSay, "greet", "hello", "")
	if err != nil {
		t.Fatalf("AddAction: %v", err)
	}

	ok, err := reg.RemoveAction(ctx, a.ID)
	if err != nil || !ok {
		t.Fatalf("RemoveAction = %v, %v, want true, nil", ok, err)
	}
	if len(reg.Actions()) != 0 {
		t.Error("action not removed")
	}

	ok, err = reg.RemoveAction(ctx, "missing")
	if err != nil || ok {
		t.Errorf("RemoveAction unknown id = %v, %v, want false, nil", ok, err)
	}
}

func TestAddHighlightRejectsDuplicates(t *testing.T) {
	reg := New(nil)
	ctx := context.Background()

	h, ok, err := reg.AddHighlight(ctx, "GoLang", "#ff0000")
	if err != nil || !ok {
		t.Fatalf("AddHighlight = %v, %v", ok, err)
	}
	if h.Pattern != "golang" {
		t.Errorf("Pattern = %q, want lowercased golang", h.Pattern)
	}

	if _, ok, _ := reg.AddHighlight(ctx, "GOLANG", ""); ok {
		t.Error("case-insensitive duplicate accepted")
	}
	if _, ok, _ := reg.AddHighlight(ctx, "bad pattern", ""); ok {
		t.Error("pattern with space accepted")
	}

	if got := reg.Highlights(); len(got) != 1 {
		t.Errorf("Highlights() len = %d, want 1", len(got))
	}
}

func TestRemoveHighlightMatchesCaseInsensitively(t *testing.T) {
	reg := New(nil)
	ctx := context.Background()

	if _, ok, err := reg.AddHighlight(ctx, "foo", ""); err != nil || !ok {
		t.Fatalf("AddHighlight = %v, %v", ok, err)
	}
	ok, err := reg.RemoveHighlight(ctx, "FOO")
	if err != nil || !ok {
		t.Fatalf("RemoveHighlight = %v, %v, want true, nil", ok, err)
	}
	if len(reg.Highlights()) != 0 {
		t.Error("highlight not removed")
	}
}

func TestPersisterInvoked(t *testing.T) {
	p := &recordingPersister{}
	reg := New(p)
	ctx := context.Background()

	a, err := reg.AddAction(ctx, entity.ActionSay, "greet", "hello", "")
	if err != nil {
		t.Fatalf("AddAction: %v", err)
	}
	if _, _, err := reg.AddHighlight(ctx, "foo", ""); err != nil {
		t.Fatalf("AddHighlight: %v", err)
	}
	if _, err := reg.RemoveAction(ctx, a.ID); err != nil {
		t.Fatalf("RemoveAction: %v", err)
	}
	if _, err := reg.RemoveHighlight(ctx, "foo"); err != nil {
		t.Fatalf("RemoveHighlight: %v", err)
	}

	if len(p.savedActions) != 1 || len(p.deletedActions) != 1 {
		t.Errorf("action persistence calls = %d saves, %d deletes", len(p.savedActions), len(p.deletedActions))
	}
	if len(p.savedHighlights) != 1 || len(p.deletedHighlights) != 1 {
		t.Errorf("highlight persistence calls = %d saves, %d deletes", len(p.savedHighlights), len(p.deletedHighlights))
	}
}

func TestPersisterErrorSurfacesButKeepsEntry(t *testing.T) {
	p := &recordingPersister{err: errors.New("db down")}
	reg := New(p)

	_, err := reg.AddAction(context.Background(), entity.ActionSay, "greet", "hello", "")
	if err == nil {
		t.Fatal("expected persister error")
	}
	if len(reg.Actions()) != 1 {
		t.Error("entry dropped on persister error")
	}
}

func TestSeedDoesNotPersist(t *testing.T) {
	p := &recordingPersister{}
	reg := New(p)

	reg.Seed(
		[]entity.Action{{ID: "a1", Type: entity.ActionSay, Name: "greet", Text: "hi"}},
		[]entity.Highlight{entity.NewHighlight("foo", "")},
	)

	if len(p.savedActions) != 0 || len(p.savedHighlights) != 0 {
		t.Error("Seed invoked persister")
	}
	if len(reg.Actions()) != 1 || len(reg.Highlights()) != 1 {
		t.Error("Seed did not populate registry")
	}
}
