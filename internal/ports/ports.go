package ports

import (
	"context"

	"github.com/hanamilabs/safeguard-provisioner/internal/domain"
)

// Platform is the remote-call surface the provisioning sequencer drives.
// Implementations classify platform faults into the domain sentinel errors
// (domain.ErrUsernameOccupied and friends) so the sequencer can map them to
// SetupError kinds without knowing transport details.
type Platform interface {
	Authorized(ctx context.Context) (bool, error)
	CreateGroup(ctx context.Context, title string) (domain.Entity, error)
	CreateChannel(ctx context.Context, title string) (domain.Entity, error)
	SetUsername(ctx context.Context, channel domain.Entity, username string) error
	ResolveBot(ctx context.Context, username string) (domain.BotIdentity, error)
	PromoteBot(ctx context.Context, entity domain.Entity, bot domain.BotIdentity, rights domain.AdminRights, rank string) error
	BotParticipant(ctx context.Context, entity domain.Entity, bot domain.BotIdentity) (domain.ParticipantKind, error)
	SendMessage(ctx context.Context, entity domain.Entity, text string) error
	LatestMessage(ctx context.Context, entity domain.Entity) (domain.Message, bool, error)
	ForwardMessage(ctx context.Context, from domain.Entity, to domain.Entity, messageID int) error
	ExportInvite(ctx context.Context, entity domain.Entity) (domain.InviteLink, error)

	// Close releases the underlying session. The sequencer guarantees it
	// runs exactly once per run, success or failure.
	Close() error
}
