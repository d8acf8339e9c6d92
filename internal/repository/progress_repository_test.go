package repository

import (
	"context"
	"testing"

	"pod360_backend/internal/model"
	"pod360_backend/internal/session"
)

func TestMemoryProgressStoreFreshToken(t *testing.T) {
	store := NewMemoryProgressStore()

	p, err := store.Get(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	if p.Index != 0 || len(p.Answers) != 0 {
		t.Fatalf("fresh progress = %+v", p)
	}
	if p.Answers == nil {
		t.Fatal("Answers map is nil")
	}
}

func TestMemoryProgressStoreRoundTrip(t *testing.T) {
	store := NewMemoryProgressStore()
	ctx := context.Background()

	in := session.Progress{
		Index: 2,
		Answers: map[string]model.Answer{
			"q1": {QuestionID: "q1", QuestionCode: "C1", Value: model.ScalarValue(4)},
		},
	}
	if err := store.Set(ctx, "tok", in); err != nil {
		t.Fatalf("Set() = %v", err)
	}

	out, err := store.Get(ctx, "tok")
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	if out.Index != 2 || out.Answers["q1"].Value.Scalar != 4 {
		t.Fatalf("round trip = %+v", out)
	}

	// The store must hand out copies, not its own map.
	out.Answers["q1"] = model.Answer{QuestionID: "q1", Value: model.ScalarValue(1)}
	again, _ := store.Get(ctx, "tok")
	if again.Answers["q1"].Value.Scalar != 4 {
		t.Fatal("mutating a read result changed the stored progress")
	}
}

func TestMemoryProgressStoreClear(t *testing.T) {
	store := NewMemoryProgressStore()
	ctx := context.Background()

	store.Set(ctx, "tok", session.Progress{Index: 1, Answers: map[string]model.Answer{}})
	if !store.Has("tok") {
		t.Fatal("Has() = false after Set")
	}

	if err := store.Clear(ctx, "tok"); err != nil {
		t.Fatalf("Clear() = %v", err)
	}
	if store.Has("tok") {
		t.Fatal("slot survived Clear")
	}

	p, err := store.Get(ctx, "tok")
	if err != nil {
		t.Fatalf("Get() after Clear = %v", err)
	}
	if p.Index != 0 || len(p.Answers) != 0 {
		t.Fatalf("progress after Clear = %+v", p)
	}
}
