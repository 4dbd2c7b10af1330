package app

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"privaterooms/internal/domain"
)

// fakePlatform is an in-memory Discord stand-in. Channels, voice
// states and sent embeds are plain maps the tests inspect directly.
type fakePlatform struct {
	mu sync.Mutex

	nextID   int64
	entry    domain.ChannelID
	channels map[domain.ChannelID]*fakeChannel
	voice    map[domain.UserID]domain.ChannelID
	names    map[domain.UserID]string
	admins   map[domain.UserID]bool

	control []Embed
	dms     map[domain.UserID][]Embed
	deleted []domain.ChannelID
	purges  int

	approve func() (bool, error)

	// voiceErr makes lookups for voiceErrFor fail.
	voiceErrFor domain.UserID
	voiceErr    error
}

type fakeChannel struct {
	name       string
	overwrites []Overwrite
}

func newFakePlatform(entry domain.ChannelID) *fakePlatform {
	return &fakePlatform{
		nextID:   500000,
		entry:    entry,
		channels: map[domain.ChannelID]*fakeChannel{},
		voice:    map[domain.UserID]domain.ChannelID{},
		names:    map[domain.UserID]string{},
		admins:   map[domain.UserID]bool{},
		dms:      map[domain.UserID][]Embed{},
		approve:  func() (bool, error) { return false, nil },
	}
}

func (f *fakePlatform) CreateRoomChannel(ctx context.Context, name string, overwrites []Overwrite) (domain.ChannelID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := domain.ChannelID(strconv.FormatInt(f.nextID, 10))
	f.nextID++
	f.channels[id] = &fakeChannel{name: name, overwrites: overwrites}
	return id, nil
}

func (f *fakePlatform) DeleteChannel(ctx context.Context, channel domain.ChannelID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.channels[channel]; !ok {
		return fmt.Errorf("fake: unknown channel %s", channel)
	}
	delete(f.channels, channel)
	f.deleted = append(f.deleted, channel)
	return nil
}

func (f *fakePlatform) RenameChannel(ctx context.Context, channel domain.ChannelID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[channel]
	if !ok {
		return fmt.Errorf("fake: unknown channel %s", channel)
	}
	ch.name = name
	return nil
}

func (f *fakePlatform) ApplyOverwrites(ctx context.Context, channel domain.ChannelID, overwrites []Overwrite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[channel]
	if !ok {
		return fmt.Errorf("fake: unknown channel %s", channel)
	}
	ch.overwrites = overwrites
	return nil
}

func (f *fakePlatform) MoveToChannel(ctx context.Context, user domain.UserID, channel domain.ChannelID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voice[user] = channel
	return nil
}

func (f *fakePlatform) VoiceChannelOf(ctx context.Context, user domain.UserID) (domain.ChannelID, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.voiceErr != nil && user == f.voiceErrFor {
		return "", false, f.voiceErr
	}
	ch, ok := f.voice[user]
	return ch, ok, nil
}

func (f *fakePlatform) ConnectedMembers(ctx context.Context, channel domain.ChannelID) ([]domain.UserID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var members []domain.UserID
	for user, ch := range f.voice {
		if ch == channel {
			members = append(members, user)
		}
	}
	return members, nil
}

func (f *fakePlatform) CategoryVoiceChannels(ctx context.Context) ([]domain.ChannelID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.ChannelID{f.entry}
	for id := range f.channels {
		out = append(out, id)
	}
	return out, nil
}

func (f *fakePlatform) DisplayName(ctx context.Context, user domain.UserID) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name, ok := f.names[user]; ok {
		return name
	}
	return string(user)
}

func (f *fakePlatform) ChannelName(ctx context.Context, channel domain.ChannelID) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.channels[channel]; ok {
		return ch.name
	}
	return string(channel)
}

func (f *fakePlatform) IsAdmin(ctx context.Context, user domain.UserID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.admins[user], nil
}

func (f *fakePlatform) SendControlEmbed(ctx context.Context, embed Embed, deleteAfter time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.control = append(f.control, embed)
	return nil
}

func (f *fakePlatform) SendDirectEmbed(ctx context.Context, user domain.UserID, embed Embed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dms[user] = append(f.dms[user], embed)
	return nil
}

func (f *fakePlatform) RequestApproval(ctx context.Context, target domain.UserID, embed Embed, timeout time.Duration) (bool, error) {
	return f.approve()
}

func (f *fakePlatform) PurgeControl(ctx context.Context, limit int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purges++
	return nil
}

// overwritesOf is a test helper: the current connect table of channel,
// keyed for easy assertions. The everyone entry uses the empty id.
func (f *fakePlatform) overwritesOf(channel domain.ChannelID) map[domain.UserID]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[domain.UserID]bool{}
	ch, ok := f.channels[channel]
	if !ok {
		return out
	}
	for _, o := range ch.overwrites {
		out[o.ID] = o.Connect
	}
	return out
}
