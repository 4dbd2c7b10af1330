package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input  string
		name   string
		rest   string
		wantOK bool
	}{
		{"!open", "open", "", true},
		{"!unlock", "open", "", true},
		{"!LOCK", "close", "", true},
		{"!close", "close", "", true},
		{"!add <@123>", "invite", "<@123>", true},
		{"!invite <@123>", "invite", "<@123>", true},
		{"!kick <@123>", "uninvite", "<@123>", true},
		{"!remove <@123>", "uninvite", "<@123>", true},
		{"!rename my room name", "rename", "my room name", true},
		{"!rename   padded  ", "rename", "padded", true},
		{"!delete", "delete", "", true},
		{"!join <@456>", "join", "<@456>", true},
		{"!transfer <@456>", "transfer", "<@456>", true},
		{"!message", "message", "", true},
		{"!generate_message", "message", "", true},
		{"!GENERATE_MESSAGE", "message", "", true},
		{"plain chatter", "", "", false},
		{"!unknowncmd", "", "", false},
		{"! open", "", "", false},
		{"", "", "", false},
		{"open", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, ok := parseCommand(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.name, cmd.name)
			assert.Equal(t, tt.rest, cmd.rest)
		})
	}
}
