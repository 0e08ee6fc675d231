package telegram

import (
	"fmt"

	"github.com/gotd/td/tgerr"

	"github.com/hanamilabs/safeguard-provisioner/internal/domain"
)

// classifyRPC maps Telegram RPC error codes onto the domain sentinels the
// sequencer matches on. Anything unrecognized passes through unchanged.
func classifyRPC(err error) error {
	if err == nil {
		return nil
	}
	if wait, ok := tgerr.AsFloodWait(err); ok {
		return &domain.FloodWaitError{RetryAfter: wait}
	}
	switch {
	case tgerr.Is(err, "USERNAME_OCCUPIED"):
		return fmt.Errorf("%w: %v", domain.ErrUsernameOccupied, err)
	case tgerr.Is(err, "USER_NOT_PARTICIPANT"):
		return fmt.Errorf("%w: %v", domain.ErrNotParticipant, err)
	case tgerr.Is(err, "CHAT_ADMIN_REQUIRED"):
		return fmt.Errorf("%w: %v", domain.ErrAdminRequired, err)
	case tgerr.Is(err, "ADMINS_TOO_MUCH"):
		return fmt.Errorf("%w: %v", domain.ErrTooManyAdmins, err)
	case tgerr.Is(err, "AUTH_KEY_UNREGISTERED", "SESSION_REVOKED", "SESSION_EXPIRED"):
		return fmt.Errorf("%w: %v", domain.ErrNotAuthorized, err)
	}
	return err
}
