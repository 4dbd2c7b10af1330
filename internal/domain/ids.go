// Package domain contains entity types without logic, just meta-data.
package domain

// Snowflake identifiers as Discord hands them out. Kept as distinct
// string types so a user id never ends up in a channel argument.
type (
	UserID    string
	ChannelID string
)

func (u UserID) String() string    { return string(u) }
func (c ChannelID) String() string { return string(c) }
