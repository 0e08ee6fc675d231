package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hanamilabs/safeguard-provisioner/internal/domain"
	"github.com/hanamilabs/safeguard-provisioner/internal/ports"
)

// Params are the operator-supplied inputs for one provisioning run.
type Params struct {
	PublicUsername string
	GroupTitle     string
	ChannelTitle   string
}

type Options struct {
	BotUsername  string
	PollAttempts int
	PollInterval time.Duration
}

// SetupService drives the provisioning sequence: group, channel, username,
// bot promotion in both entities, setup-message relay, invite export. It
// owns the platform session for the run and releases it on every exit path.
type SetupService struct {
	logger   *slog.Logger
	platform ports.Platform
	opts     Options
	sleep    func(context.Context, time.Duration) error
}

func NewSetupService(logger *slog.Logger, platform ports.Platform, opts Options) *SetupService {
	if opts.BotUsername == "" {
		opts.BotUsername = domain.DefaultBotUsername
	}
	if opts.PollAttempts <= 0 {
		opts.PollAttempts = 3
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	return &SetupService{
		logger:   logger,
		platform: platform,
		opts:     opts,
		sleep:    sleepContext,
	}
}

func (s *SetupService) Run(ctx context.Context, params Params) (domain.Report, error) {
	defer func() {
		if err := s.platform.Close(); err != nil {
			s.logger.Warn("session release failed", "error", err)
		}
	}()

	report, err := s.provision(ctx, params)
	if err != nil {
		s.logger.Error("setup failed", "error", err)
		return domain.Report{}, err
	}
	return report, nil
}

func (s *SetupService) provision(ctx context.Context, params Params) (domain.Report, error) {
	s.logger.Info("starting safeguard setup",
		"username", params.PublicUsername,
		"group_title", params.GroupTitle,
		"channel_title", params.ChannelTitle,
	)

	authorized, err := s.platform.Authorized(ctx)
	if err != nil {
		return domain.Report{}, s.failure(domain.Unexpected, err)
	}
	if !authorized {
		return domain.Report{}, domain.NewSetupError(domain.NotAuthorized, errors.New("run with an authorized session"))
	}
	s.logger.Info("session authorized")

	group, err := s.platform.CreateGroup(ctx, params.GroupTitle)
	if err != nil {
		return domain.Report{}, s.failure(domain.GroupCreationFailed, err)
	}
	s.logger.Info("private group created", "title", params.GroupTitle, "entity_id", group.ID)

	channel, err := s.platform.CreateChannel(ctx, params.ChannelTitle)
	if err != nil {
		return domain.Report{}, s.failure(domain.ChannelCreationFailed, err)
	}
	s.logger.Info("public channel created", "title", params.ChannelTitle, "entity_id", channel.ID)

	if err := s.claimUsername(ctx, channel, params.PublicUsername); err != nil {
		return domain.Report{}, err
	}
	s.logger.Info("channel username assigned", "username", params.PublicUsername)

	bot, err := s.platform.ResolveBot(ctx, s.opts.BotUsername)
	if err != nil {
		return domain.Report{}, s.failure(domain.AdminGrantFailed, err)
	}

	if err := s.promoteAndVerify(ctx, group, bot); err != nil {
		return domain.Report{}, err
	}
	s.logger.Info("bot promoted in private group", "bot", s.opts.BotUsername)

	if err := s.promoteAndVerify(ctx, channel, bot); err != nil {
		return domain.Report{}, err
	}
	s.logger.Info("bot promoted in public channel", "bot", s.opts.BotUsername)

	if err := s.triggerAndRelay(ctx, group, channel); err != nil {
		return domain.Report{}, err
	}
	s.logger.Info("setup message forwarded to channel")

	invite, err := s.platform.ExportInvite(ctx, group)
	if err != nil {
		return domain.Report{}, s.failure(domain.InviteExportFailed, err)
	}
	s.logger.Info("invite link exported")

	return domain.Report{
		PublicUsername: params.PublicUsername,
		GroupTitle:     params.GroupTitle,
		ChannelTitle:   params.ChannelTitle,
		InviteLink:     invite,
	}, nil
}

func (s *SetupService) claimUsername(ctx context.Context, channel domain.Entity, username string) error {
	err := s.platform.SetUsername(ctx, channel, username)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUsernameOccupied) {
		return s.failure(domain.UsernameTaken, err)
	}
	return s.failure(domain.UsernameAssignmentFailed, err)
}

// promoteAndVerify grants the admin bundle, then reads the bot's
// participant record back to confirm the grant took effect.
func (s *SetupService) promoteAndVerify(ctx context.Context, entity domain.Entity, bot domain.BotIdentity) error {
	err := s.platform.PromoteBot(ctx, entity, bot, domain.FullBotRights(), domain.BotRank)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAdminRequired):
			return s.failure(domain.InsufficientRights, err)
		case errors.Is(err, domain.ErrTooManyAdmins):
			return s.failure(domain.TooManyAdmins, err)
		default:
			return s.failure(domain.AdminGrantFailed, err)
		}
	}

	kind, err := s.platform.BotParticipant(ctx, entity, bot)
	if err != nil {
		if errors.Is(err, domain.ErrNotParticipant) {
			return s.failure(domain.BotNotMember, err)
		}
		return s.failure(domain.AdminGrantFailed, err)
	}
	if !kind.IsAdminClass() {
		return domain.NewSetupError(domain.BotNotAdmin, fmt.Errorf("participant record is %q in %q", kind, entity.Title))
	}
	return nil
}

// triggerAndRelay sends the setup command, then polls the latest group
// message for the bot's reply. Only the single most recent message is
// inspected on each attempt; a reply buried under a newer message within
// one interval is missed, matching the interactive one-shot intent.
func (s *SetupService) triggerAndRelay(ctx context.Context, group, channel domain.Entity) error {
	command := "/setup@" + s.opts.BotUsername
	if err := s.platform.SendMessage(ctx, group, command); err != nil {
		return s.failure(domain.RelayFailed, err)
	}
	s.logger.Debug("setup command sent", "command", command)

	var reply domain.Message
	found := false
	for attempt := 1; attempt <= s.opts.PollAttempts; attempt++ {
		if err := s.sleep(ctx, s.opts.PollInterval); err != nil {
			return s.failure(domain.RelayFailed, err)
		}
		message, ok, err := s.platform.LatestMessage(ctx, group)
		if err != nil {
			return s.failure(domain.RelayFailed, err)
		}
		if ok && strings.Contains(message.Text, s.opts.BotUsername) {
			reply = message
			found = true
			break
		}
		s.logger.Debug("setup reply not seen yet", "attempt", attempt)
	}
	if !found {
		return domain.NewSetupError(domain.SetupMessageNotReceived,
			fmt.Errorf("no reply from @%s after %d checks", s.opts.BotUsername, s.opts.PollAttempts))
	}

	if err := s.platform.ForwardMessage(ctx, group, channel, reply.ID); err != nil {
		return s.failure(domain.RelayFailed, err)
	}
	return nil
}

// failure wraps a step error into the matching SetupError kind. A platform
// rate limit always wins over the step's own kind so the operator sees the
// mandated wait.
func (s *SetupService) failure(kind domain.ErrorKind, err error) error {
	var flood *domain.FloodWaitError
	if errors.As(err, &flood) {
		return domain.NewRateLimited(flood.RetryAfter)
	}
	if errors.Is(err, domain.ErrNotAuthorized) {
		return domain.NewSetupError(domain.NotAuthorized, err)
	}
	return domain.NewSetupError(kind, err)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
