package telegram

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/gotd/td/tg"

	"github.com/hanamilabs/safeguard-provisioner/internal/domain"
)

const (
	groupAbout   = "Private discussion group"
	channelAbout = "Verification portal"
)

func (c *Client) CreateGroup(ctx context.Context, title string) (domain.Entity, error) {
	return c.createChannel(ctx, title, groupAbout, true)
}

func (c *Client) CreateChannel(ctx context.Context, title string) (domain.Entity, error) {
	return c.createChannel(ctx, title, channelAbout, false)
}

func (c *Client) createChannel(ctx context.Context, title, about string, megagroup bool) (domain.Entity, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	updates, err := c.api.ChannelsCreateChannel(ctx, &tg.ChannelsCreateChannelRequest{
		Megagroup: megagroup,
		Broadcast: !megagroup,
		Title:     title,
		About:     about,
	})
	if err != nil {
		return domain.Entity{}, fmt.Errorf("create channel: %w", classifyRPC(err))
	}

	channel, err := channelFromUpdates(updates)
	if err != nil {
		return domain.Entity{}, fmt.Errorf("create channel: %w", err)
	}
	return domain.Entity{ID: channel.ID, AccessHash: channel.AccessHash, Title: channel.Title}, nil
}

func (c *Client) SetUsername(ctx context.Context, channel domain.Entity, username string) error {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	if _, err := c.api.ChannelsUpdateUsername(ctx, &tg.ChannelsUpdateUsernameRequest{
		Channel:  inputChannel(channel),
		Username: username,
	}); err != nil {
		return fmt.Errorf("update username: %w", classifyRPC(err))
	}
	return nil
}

func (c *Client) ResolveBot(ctx context.Context, username string) (domain.BotIdentity, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	resolved, err := c.api.ContactsResolveUsername(ctx, strings.TrimPrefix(username, "@"))
	if err != nil {
		return domain.BotIdentity{}, fmt.Errorf("resolve @%s: %w", username, classifyRPC(err))
	}

	for _, u := range resolved.Users {
		user, ok := u.(*tg.User)
		if !ok {
			continue
		}
		return domain.BotIdentity{ID: user.ID, AccessHash: user.AccessHash, Username: user.Username}, nil
	}
	return domain.BotIdentity{}, fmt.Errorf("resolve @%s: no user in response", username)
}

func (c *Client) PromoteBot(ctx context.Context, entity domain.Entity, bot domain.BotIdentity, rights domain.AdminRights, rank string) error {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	if _, err := c.api.ChannelsEditAdmin(ctx, &tg.ChannelsEditAdminRequest{
		Channel: inputChannel(entity),
		UserID:  &tg.InputUser{UserID: bot.ID, AccessHash: bot.AccessHash},
		AdminRights: tg.ChatAdminRights{
			PostMessages:   rights.PostMessages,
			EditMessages:   rights.EditMessages,
			DeleteMessages: rights.DeleteMessages,
			BanUsers:       rights.BanUsers,
			InviteUsers:    rights.InviteUsers,
			PinMessages:    rights.PinMessages,
			AddAdmins:      rights.AddAdmins,
			Anonymous:      rights.Anonymous,
			ManageCall:     rights.ManageCall,
			Other:          rights.Other,
		},
		Rank: rank,
	}); err != nil {
		return fmt.Errorf("edit admin: %w", classifyRPC(err))
	}
	return nil
}

func (c *Client) BotParticipant(ctx context.Context, entity domain.Entity, bot domain.BotIdentity) (domain.ParticipantKind, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	result, err := c.api.ChannelsGetParticipant(ctx, &tg.ChannelsGetParticipantRequest{
		Channel:     inputChannel(entity),
		Participant: &tg.InputPeerUser{UserID: bot.ID, AccessHash: bot.AccessHash},
	})
	if err != nil {
		return "", fmt.Errorf("get participant: %w", classifyRPC(err))
	}

	switch result.Participant.(type) {
	case *tg.ChannelParticipantCreator:
		return domain.ParticipantCreator, nil
	case *tg.ChannelParticipantAdmin:
		return domain.ParticipantAdmin, nil
	case *tg.ChannelParticipantBanned:
		return domain.ParticipantBanned, nil
	case *tg.ChannelParticipantLeft:
		return domain.ParticipantLeft, nil
	default:
		return domain.ParticipantMember, nil
	}
}

func (c *Client) SendMessage(ctx context.Context, entity domain.Entity, text string) error {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	if _, err := c.api.MessagesSendMessage(ctx, &tg.MessagesSendMessageRequest{
		Peer:     inputPeer(entity),
		Message:  text,
		RandomID: rand.Int63(),
	}); err != nil {
		return fmt.Errorf("send message: %w", classifyRPC(err))
	}
	return nil
}

// LatestMessage returns the single most recent message in the entity, if
// any. Service messages (joins, pins) have no text and are skipped.
func (c *Client) LatestMessage(ctx context.Context, entity domain.Entity) (domain.Message, bool, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	history, err := c.api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
		Peer:  inputPeer(entity),
		Limit: 1,
	})
	if err != nil {
		return domain.Message{}, false, fmt.Errorf("get history: %w", classifyRPC(err))
	}

	messages, ok := history.(*tg.MessagesChannelMessages)
	if !ok {
		return domain.Message{}, false, fmt.Errorf("get history: unexpected response %T", history)
	}
	for _, m := range messages.Messages {
		if message, ok := m.(*tg.Message); ok {
			return domain.Message{ID: message.ID, Text: message.Message}, true, nil
		}
	}
	return domain.Message{}, false, nil
}

func (c *Client) ForwardMessage(ctx context.Context, from domain.Entity, to domain.Entity, messageID int) error {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	if _, err := c.api.MessagesForwardMessages(ctx, &tg.MessagesForwardMessagesRequest{
		FromPeer: inputPeer(from),
		ToPeer:   inputPeer(to),
		ID:       []int{messageID},
		RandomID: []int64{rand.Int63()},
	}); err != nil {
		return fmt.Errorf("forward message: %w", classifyRPC(err))
	}
	return nil
}

func (c *Client) ExportInvite(ctx context.Context, entity domain.Entity) (domain.InviteLink, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	invite, err := c.api.MessagesExportChatInvite(ctx, &tg.MessagesExportChatInviteRequest{
		Peer: inputPeer(entity),
	})
	if err != nil {
		return "", fmt.Errorf("export invite: %w", classifyRPC(err))
	}

	exported, ok := invite.(*tg.ChatInviteExported)
	if !ok {
		return "", fmt.Errorf("export invite: unexpected response %T", invite)
	}
	return domain.InviteLink(exported.Link), nil
}

func inputChannel(e domain.Entity) *tg.InputChannel {
	return &tg.InputChannel{ChannelID: e.ID, AccessHash: e.AccessHash}
}

func inputPeer(e domain.Entity) *tg.InputPeerChannel {
	return &tg.InputPeerChannel{ChannelID: e.ID, AccessHash: e.AccessHash}
}

func channelFromUpdates(updates tg.UpdatesClass) (*tg.Channel, error) {
	container, ok := updates.(*tg.Updates)
	if !ok {
		return nil, fmt.Errorf("unexpected updates type %T", updates)
	}
	for _, chat := range container.Chats {
		if channel, ok := chat.(*tg.Channel); ok {
			return channel, nil
		}
	}
	return nil, errors.New("created channel missing from updates")
}
