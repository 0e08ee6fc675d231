package telegram

import (
	"errors"
	"testing"
	"time"

	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	"github.com/hanamilabs/safeguard-provisioner/internal/domain"
)

func rpcError(code int, errType string) error {
	return &tgerr.Error{Code: code, Message: errType, Type: errType}
}

func TestClassifyRPCSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "username occupied", err: rpcError(400, "USERNAME_OCCUPIED"), want: domain.ErrUsernameOccupied},
		{name: "not participant", err: rpcError(400, "USER_NOT_PARTICIPANT"), want: domain.ErrNotParticipant},
		{name: "admin required", err: rpcError(400, "CHAT_ADMIN_REQUIRED"), want: domain.ErrAdminRequired},
		{name: "too many admins", err: rpcError(400, "ADMINS_TOO_MUCH"), want: domain.ErrTooManyAdmins},
		{name: "dead session", err: rpcError(401, "AUTH_KEY_UNREGISTERED"), want: domain.ErrNotAuthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyRPC(tt.err); !errors.Is(got, tt.want) {
				t.Fatalf("classification mismatch: got %v want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyRPCFloodWait(t *testing.T) {
	err := classifyRPC(&tgerr.Error{Code: 420, Message: "FLOOD_WAIT_13", Type: "FLOOD_WAIT", Argument: 13})

	var flood *domain.FloodWaitError
	if !errors.As(err, &flood) {
		t.Fatalf("expected FloodWaitError, got %v", err)
	}
	if flood.RetryAfter != 13*time.Second {
		t.Fatalf("retry-after mismatch: got %s", flood.RetryAfter)
	}
}

func TestClassifyRPCPassesThroughUnknown(t *testing.T) {
	unknown := errors.New("connection reset")
	if got := classifyRPC(unknown); got != unknown {
		t.Fatalf("expected pass-through, got %v", got)
	}
	if classifyRPC(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestChannelFromUpdates(t *testing.T) {
	updates := &tg.Updates{
		Chats: []tg.ChatClass{
			&tg.Channel{ID: 77, AccessHash: 88, Title: "Guard Channel"},
		},
	}

	channel, err := channelFromUpdates(updates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if channel.ID != 77 || channel.AccessHash != 88 {
		t.Fatalf("channel mismatch: got %+v", channel)
	}
}

func TestChannelFromUpdatesMissingChannel(t *testing.T) {
	if _, err := channelFromUpdates(&tg.Updates{}); err == nil {
		t.Fatal("expected error when no channel in updates")
	}
	if _, err := channelFromUpdates(&tg.UpdatesTooLong{}); err == nil {
		t.Fatal("expected error for unexpected updates type")
	}
}
