package domain

// DefaultBotUsername is the moderation bot promoted into both entities
// unless the operator overrides it.
const DefaultBotUsername = "SafeguardRobot"

// BotRank is the admin rank label shown next to the bot in member lists.
const BotRank = "Safeguard Bot"

// Entity is an opaque handle for a group or channel. Creation calls return
// it and every later call takes it; it never changes for the rest of a run.
type Entity struct {
	ID         int64
	AccessHash int64
	Title      string
}

// BotIdentity is the resolved moderation bot.
type BotIdentity struct {
	ID         int64
	AccessHash int64
	Username   string
}

// Message is a snapshot of a group message, enough for the setup-reply poll.
type Message struct {
	ID   int
	Text string
}

// InviteLink is a durable join link for a private group.
type InviteLink string

type ParticipantKind string

const (
	ParticipantMember  ParticipantKind = "member"
	ParticipantAdmin   ParticipantKind = "admin"
	ParticipantCreator ParticipantKind = "creator"
	ParticipantBanned  ParticipantKind = "banned"
	ParticipantLeft    ParticipantKind = "left"
)

// IsAdminClass reports whether the participant record carries admin
// privileges. The creator counts: it holds every right an admin does.
func (k ParticipantKind) IsAdminClass() bool {
	return k == ParticipantAdmin || k == ParticipantCreator
}

// AdminRights is the fixed permission bundle granted to the moderation bot.
type AdminRights struct {
	PostMessages   bool
	EditMessages   bool
	DeleteMessages bool
	BanUsers       bool
	InviteUsers    bool
	PinMessages    bool
	AddAdmins      bool
	Anonymous      bool
	ManageCall     bool
	Other          bool
}

// FullBotRights returns the bundle applied to both the group and the
// channel. The bot gets everything it needs to moderate but cannot appoint
// further admins or post anonymously.
func FullBotRights() AdminRights {
	return AdminRights{
		PostMessages:   true,
		EditMessages:   true,
		DeleteMessages: true,
		BanUsers:       true,
		InviteUsers:    true,
		PinMessages:    true,
		AddAdmins:      false,
		Anonymous:      false,
		ManageCall:     true,
		Other:          true,
	}
}
