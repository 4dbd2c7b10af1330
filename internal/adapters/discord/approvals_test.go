package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprovalsResolve(t *testing.T) {
	a := newApprovals()
	result := a.add("msg1", "user1")

	// Wrong user, wrong emoji, wrong message: all ignored.
	a.resolve("msg1", "intruder", emojiApprove)
	a.resolve("msg1", "user1", "🎉")
	a.resolve("other", "user1", emojiApprove)
	select {
	case <-result:
		t.Fatal("prompt resolved by a non-matching reaction")
	default:
	}

	a.resolve("msg1", "user1", emojiApprove)
	select {
	case approved := <-result:
		assert.True(t, approved)
	default:
		t.Fatal("approval not delivered")
	}
}

func TestApprovalsDeny(t *testing.T) {
	a := newApprovals()
	result := a.add("msg1", "user1")

	a.resolve("msg1", "user1", emojiDeny)
	select {
	case approved := <-result:
		assert.False(t, approved)
	default:
		t.Fatal("denial not delivered")
	}
}

func TestApprovalsRemove(t *testing.T) {
	a := newApprovals()
	result := a.add("msg1", "user1")
	a.remove("msg1")

	a.resolve("msg1", "user1", emojiApprove)
	select {
	case <-result:
		t.Fatal("removed prompt must not resolve")
	default:
	}
	require.Empty(t, a.pending)
}
