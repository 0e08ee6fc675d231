package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors returned by the platform layer after classifying a remote
// fault. The sequencer matches on them with errors.Is to pick a kind.
var (
	ErrUsernameOccupied = errors.New("username is already taken")
	ErrNotParticipant   = errors.New("bot is not a participant")
	ErrAdminRequired    = errors.New("admin rights required")
	ErrTooManyAdmins    = errors.New("too many admins")
	ErrNotAuthorized    = errors.New("session is not authorized")
)

// FloodWaitError is a platform-level rate limit. It carries the wait the
// platform mandated before the next attempt.
type FloodWaitError struct {
	RetryAfter time.Duration
}

func (e *FloodWaitError) Error() string {
	return fmt.Sprintf("rate limited: retry after %s", e.RetryAfter)
}

type ErrorKind string

const (
	GroupCreationFailed      ErrorKind = "group_creation_failed"
	ChannelCreationFailed    ErrorKind = "channel_creation_failed"
	UsernameTaken            ErrorKind = "username_taken"
	UsernameAssignmentFailed ErrorKind = "username_assignment_failed"
	BotNotMember             ErrorKind = "bot_not_member"
	BotNotAdmin              ErrorKind = "bot_not_admin"
	InsufficientRights       ErrorKind = "insufficient_rights"
	TooManyAdmins            ErrorKind = "too_many_admins"
	AdminGrantFailed         ErrorKind = "admin_grant_failed"
	SetupMessageNotReceived  ErrorKind = "setup_message_not_received"
	RelayFailed              ErrorKind = "relay_failed"
	InviteExportFailed       ErrorKind = "invite_export_failed"
	RateLimited              ErrorKind = "rate_limited"
	NotAuthorized            ErrorKind = "not_authorized"
	Unexpected               ErrorKind = "unexpected"
)

// SetupError is the single error taxonomy surfaced to the operator. Every
// remote-call failure is wrapped into one at the step where it happened.
type SetupError struct {
	Kind       ErrorKind
	Detail     string
	RetryAfter time.Duration
}

func NewSetupError(kind ErrorKind, cause error) *SetupError {
	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	return &SetupError{Kind: kind, Detail: detail}
}

func NewRateLimited(retryAfter time.Duration) *SetupError {
	return &SetupError{
		Kind:       RateLimited,
		Detail:     fmt.Sprintf("hit platform rate limit, wait %d seconds before trying again", int(retryAfter.Seconds())),
		RetryAfter: retryAfter,
	}
}

func (e *SetupError) Error() string {
	if e.Detail == "" {
		return e.headline()
	}
	return e.headline() + ": " + e.Detail
}

func (e *SetupError) headline() string {
	switch e.Kind {
	case GroupCreationFailed:
		return "failed to create private group"
	case ChannelCreationFailed:
		return "failed to create public channel"
	case UsernameTaken:
		return "username is already taken"
	case UsernameAssignmentFailed:
		return "failed to set channel username"
	case BotNotMember:
		return "safeguard bot is not in the channel/group"
	case BotNotAdmin:
		return "safeguard bot is not an admin"
	case InsufficientRights:
		return "you don't have sufficient rights to add admins"
	case TooManyAdmins:
		return "this channel/group has too many admins already"
	case AdminGrantFailed:
		return "failed to set up safeguard bot"
	case SetupMessageNotReceived:
		return "failed to get setup message from safeguard bot"
	case RelayFailed:
		return "failed during setup message handling"
	case InviteExportFailed:
		return "failed to generate invite link"
	case RateLimited:
		return "rate limit hit"
	case NotAuthorized:
		return "user not authorized"
	default:
		return "unexpected setup error"
	}
}
