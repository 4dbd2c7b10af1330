package app

import "privaterooms/internal/domain"

// rebuildOverwrites computes a room's full connect table from the
// ledger state. The order is deliberate: the everyone role reflects the
// open flag, the owner is always allowed, every stored invitee is
// re-granted, and the action's own delta lands last so the most recent
// explicit grant or revoke wins even when the stored invite list
// disagrees with it (uninvite must beat a stale invitation row).
func rebuildOverwrites(open bool, owner domain.UserID, invitees []domain.UserID, delta *Overwrite) []Overwrite {
	table := []Overwrite{
		{Kind: SubjectEveryone, Connect: open},
		{Kind: SubjectMember, ID: owner, Connect: true},
	}
	index := map[domain.UserID]int{owner: 1}

	set := func(o Overwrite) {
		if i, ok := index[o.ID]; ok {
			table[i] = o
			return
		}
		index[o.ID] = len(table)
		table = append(table, o)
	}

	for _, member := range invitees {
		set(Overwrite{Kind: SubjectMember, ID: member, Connect: true})
	}
	if delta != nil {
		if delta.Kind == SubjectEveryone {
			table[0] = *delta
		} else {
			set(*delta)
		}
	}
	return table
}
