package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestSetupErrorMessageIncludesDetail(t *testing.T) {
	err := NewSetupError(UsernameTaken, errors.New("myportal is occupied"))
	if got := err.Error(); !strings.Contains(got, "myportal is occupied") {
		t.Fatalf("expected detail in message, got %q", got)
	}
}

func TestRateLimitedCarriesWait(t *testing.T) {
	err := NewRateLimited(42 * time.Second)
	if err.Kind != RateLimited {
		t.Fatalf("kind mismatch: got %q", err.Kind)
	}
	if err.RetryAfter != 42*time.Second {
		t.Fatalf("retry-after mismatch: got %s", err.RetryAfter)
	}
	if !strings.Contains(err.Error(), "42 seconds") {
		t.Fatalf("expected mandated wait in message, got %q", err.Error())
	}
}

func TestSentinelSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("update username: %w", ErrUsernameOccupied)
	if !errors.Is(wrapped, ErrUsernameOccupied) {
		t.Fatal("expected wrapped sentinel to match")
	}
}

func TestParticipantKindAdminClass(t *testing.T) {
	if !ParticipantAdmin.IsAdminClass() || !ParticipantCreator.IsAdminClass() {
		t.Fatal("admin and creator are admin-class")
	}
	if ParticipantMember.IsAdminClass() || ParticipantBanned.IsAdminClass() || ParticipantLeft.IsAdminClass() {
		t.Fatal("member, banned and left are not admin-class")
	}
}

func TestFullBotRightsBundle(t *testing.T) {
	rights := FullBotRights()
	if rights.AddAdmins || rights.Anonymous {
		t.Fatal("bot must not get add-admins or anonymous")
	}
	if !rights.PostMessages || !rights.DeleteMessages || !rights.BanUsers || !rights.ManageCall {
		t.Fatal("moderation rights missing from bundle")
	}
}
