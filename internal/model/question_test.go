package model

import (
	"encoding/json"
	"testing"
)

func TestAnswerValueJSON(t *testing.T) {
	// Scalars travel as numbers, choices as strings, unanswered as null.
	data, _ := json.Marshal(ScalarValue(4))
	if string(data) != "4" {
		t.Fatalf("scalar marshals as %s", data)
	}

	data, _ = json.Marshal(ChoiceValue("B"))
	if string(data) != `"B"` {
		t.Fatalf("choice marshals as %s", data)
	}

	data, _ = json.Marshal(AnswerValue{})
	if string(data) != "null" {
		t.Fatalf("zero value marshals as %s", data)
	}

	var v AnswerValue
	if err := json.Unmarshal([]byte("3"), &v); err != nil || v.Scalar != 3 {
		t.Fatalf("unmarshal number: %v %+v", err, v)
	}
	if err := json.Unmarshal([]byte(`"A"`), &v); err != nil || v.Choice != "A" || v.Scalar != 0 {
		t.Fatalf("unmarshal string: %v %+v", err, v)
	}
	if err := json.Unmarshal([]byte("null"), &v); err != nil || !v.IsZero() {
		t.Fatalf("unmarshal null: %v %+v", err, v)
	}
	if err := json.Unmarshal([]byte("{}"), &v); err == nil {
		t.Fatal("unmarshal object accepted")
	}
}

func TestResolvedCode(t *testing.T) {
	if got := (Question{Code: "C7"}).ResolvedCode(); got != "C7" {
		t.Fatalf("ResolvedCode() = %s", got)
	}
	if got := (Question{}).ResolvedCode(); got != QuestionCodeUnknown {
		t.Fatalf("ResolvedCode() = %s, want %s", got, QuestionCodeUnknown)
	}
}

func TestFinalizationProfileComplete(t *testing.T) {
	full := FinalizationProfile{FirstName: "A", LastName: "B", Email: "a@b.c", Department: "Eng"}
	if !full.Complete() {
		t.Fatal("complete profile reported incomplete")
	}

	missing := full
	missing.Department = ""
	if missing.Complete() {
		t.Fatal("profile without department reported complete")
	}
}
