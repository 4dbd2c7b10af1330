package app

import "fmt"

// Messages is the swappable template table for every user-facing text
// the controller emits. The zero value is unusable; start from
// DefaultMessages and override fields for a localized variant.
type Messages struct {
	ControlTitle string // title of control-channel confirmations
	DMTitle      string // title of direct-message notifications

	Unlocked        EmbedField
	AlreadyUnlocked EmbedField
	Locked          EmbedField
	AlreadyLocked   EmbedField

	MemberAdded    EmbedField // %s = mention of the added member
	MemberRemoved  EmbedField
	OnlyWhenLocked EmbedField

	NameChanged  EmbedField
	NameRejected EmbedField

	RoomDeleted EmbedField

	NotInVoice EmbedField

	TransferTargetOwns    EmbedField
	TransferTargetAbsent  EmbedField
	TransferDone          EmbedField // %s = name of the new owner
	TransferReceivedTitle string
	TransferReceived      EmbedField // %s = name of the previous owner, %s = room name

	AccessGranted EmbedField

	JoinRequestTitle  string
	JoinRequestPrompt EmbedField
	JoinRequestFooter string

	Help Embed
}

// DefaultMessages returns the stock English template table.
func DefaultMessages() *Messages {
	return &Messages{
		ControlTitle: ":lock: **Private rooms**",
		DMTitle:      "✅ **Private rooms**",

		Unlocked:        EmbedField{Name: "Room unlocked!", Value: "Anyone can join."},
		AlreadyUnlocked: EmbedField{Name: "Room is already unlocked!", Value: "Anyone can join."},
		Locked:          EmbedField{Name: "Room locked!", Value: "Only members with invite can join."},
		AlreadyLocked:   EmbedField{Name: "Room is already locked!", Value: "Only members with invite can join."},

		MemberAdded:    EmbedField{Name: "Member added!", Value: "Room access was given to member %s"},
		MemberRemoved:  EmbedField{Name: "Member removed!", Value: "Members access has been revoked!"},
		OnlyWhenLocked: EmbedField{Name: "Error!", Value: "You can add or remove members only in locked room!"},

		NameChanged:  EmbedField{Name: "Name changed!", Value: "Name of the room was successfully changed"},
		NameRejected: EmbedField{Name: "Error!", Value: "Room name cannot contain any vulgarism!"},

		RoomDeleted: EmbedField{Name: "Removed!", Value: "Room was successfully deleted!"},

		NotInVoice: EmbedField{Name: "Error!", Value: "Connect to your private room first to use room commands."},

		TransferTargetOwns:   EmbedField{Name: ":x: Denied!", Value: "Member is already owner of the other private room!"},
		TransferTargetAbsent: EmbedField{Name: ":x: Denied!", Value: "Member must be present in the room!"},
		TransferDone:         EmbedField{Name: "Transfer successful!", Value: "Member %s has become new owner of the room!"},

		TransferReceivedTitle: ":lock: **Private rooms**",
		TransferReceived:      EmbedField{Name: "Rights transfered!", Value: "%s transfered ownership of the room %s to you!"},

		AccessGranted: EmbedField{Name: "Access granted!", Value: "You were given access to the room!"},

		JoinRequestTitle: "🙋‍♂️ **Private rooms**",
		JoinRequestPrompt: EmbedField{
			Name:  "Accept",
			Value: "To approve request click on reaction 👍 or to deny request click on reaction 👎",
		},
		JoinRequestFooter: "Request will expire in 2 minutes. If you deny the request, member won't be notified.",

		Help: Embed{
			Title:       ":lock: Private rooms",
			Description: "Place to create a new private room or join existing one!",
			Fields: []EmbedField{
				{Name: ":eight_spoked_asterisk: Create a new room", Value: "*Connect to the voice room below to create a new private room. Bot will move you automatically.*"},
				{Name: "🙋‍♂️ Joining the room", Value: "`!join <@room_owner>`\n*Sends a request to join the room.*"},
				{Name: ":inbox_tray: Grant access", Value: "`!add <@member>`\n*Grants access to member to join the room.*"},
				{Name: ":outbox_tray: Revoke access", Value: "`!remove <@member>`\n*Will revoke access for member to join the room. This will also kick member from existing room.*"},
				{Name: ":unlock: Unlock a room", Value: "`!unlock`\n*Unlocks the room for everyone without needing an invite to join.*"},
				{Name: ":lock: Lock a room", Value: "`!lock`\n*Locks the room. Only users with invitation will be able to join. This won't remove existing members.*"},
				{Name: ":x: Delete a room", Value: "`!delete`\n*Deletes the room. Rooms are automatically deleted when detected as empty.*"},
				{Name: ":abc: Rename a room", Value: "`!rename <name>`\n*Renames a room.*"},
				{Name: ":crown: Change owner", Value: "`!transfer <@member>`\n*Transfers ownership to other member.*"},
			},
			Footer: "Note: Rooms are locked by default! Commands are only valid when entered in this channel. Only owner of room can change settings and add/remove members.",
		},
	}
}

// control builds a control-channel confirmation with the standard
// "mention - room name" description line.
func (m *Messages) control(mention, roomName string, field EmbedField, args ...any) Embed {
	if len(args) > 0 {
		field.Value = fmt.Sprintf(field.Value, args...)
	}
	return Embed{
		Title:       m.ControlTitle,
		Description: fmt.Sprintf("%s - %s", mention, roomName),
		Fields:      []EmbedField{field},
	}
}
