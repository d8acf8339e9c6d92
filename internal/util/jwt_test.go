package util

import (
	"testing"
	"time"

	"pod360_backend/internal/model"
)

const testSecret = "unit-test-secret"

func TestStaffTokenRoundTrip(t *testing.T) {
	user := &model.User{Email: "hr@example.com", Role: model.HR}
	user.ID = 7

	token, err := GenerateJWT(user, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() = %v", err)
	}

	claims, err := ParseJWT(token, testSecret)
	if err != nil {
		t.Fatalf("ParseJWT() = %v", err)
	}
	if claims.UserID != 7 || claims.Role != model.HR || claims.Email != "hr@example.com" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	user := &model.User{Email: "hr@example.com", Role: model.HR}
	token, err := GenerateJWT(user, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() = %v", err)
	}

	if _, err := ParseJWT(token, "other-secret"); err == nil {
		t.Fatal("ParseJWT() accepted a token signed with a different secret")
	}
}

func TestInviteTokenRoundTrip(t *testing.T) {
	inv := &model.Invitation{
		Email:       "alex@example.com",
		FirstName:   "Alex",
		LastName:    "Rivera",
		Department:  "Engineering",
		Stakeholder: model.StakeholderManager,
	}
	inv.ID = model.GenerateUUID()

	token, err := GenerateInviteToken(inv, testSecret)
	if err != nil {
		t.Fatalf("GenerateInviteToken() = %v", err)
	}

	claims, err := DecodeInviteToken(token, testSecret)
	if err != nil {
		t.Fatalf("DecodeInviteToken() = %v", err)
	}
	if claims.InvitationID != inv.ID {
		t.Fatalf("InvitationID = %s, want %s", claims.InvitationID, inv.ID)
	}
	if claims.Stakeholder != model.StakeholderManager {
		t.Fatalf("Stakeholder = %s", claims.Stakeholder)
	}
	if claims.FirstName != "Alex" || claims.Department != "Engineering" {
		t.Fatalf("prefill = %+v", claims)
	}
	if claims.ExpiresAt != nil {
		t.Fatal("invite token carries an expiry")
	}
}

func TestDecodeInviteTokenGarbage(t *testing.T) {
	if _, err := DecodeInviteToken("not-a-jwt", testSecret); err == nil {
		t.Fatal("DecodeInviteToken() accepted garbage")
	}
}
