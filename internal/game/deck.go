package game

import "math/rand/v2"

// BuildDeck assembles the role deck for a game of memberCount players.
// Werewolf count is clamped to [1, max(1, memberCount-1)], never rejected.
// Remaining slots are filled from the special pools (village first, neutral
// only when enabled, each role at most once) and padded with Villager.
func BuildDeck(memberCount, werewolfCount int, specialEnabled, neutralEnabled bool) []Role {
	if memberCount <= 0 {
		return nil
	}

	maxWerewolves := memberCount - 1
	if maxWerewolves < 1 {
		maxWerewolves = 1
	}
	wolves := werewolfCount
	if wolves < 1 {
		wolves = 1
	}
	if wolves > maxWerewolves {
		wolves = maxWerewolves
	}

	var pool []Role
	if specialEnabled {
		pool = append(pool, villageSpecialRoles...)
		if neutralEnabled {
			pool = append(pool, neutralSpecialRoles...)
		}
	}
	specialSlots := memberCount - wolves
	if specialSlots < 0 {
		specialSlots = 0
	}
	if len(pool) > specialSlots {
		pool = pool[:specialSlots]
	}

	deck := make([]Role, 0, memberCount)
	for i := 0; i < wolves; i++ {
		deck = append(deck, RoleWerewolf)
	}
	deck = append(deck, pool...)
	for len(deck) < memberCount {
		deck = append(deck, RoleVillager)
	}
	return deck
}

// AssignRoles deals one role to every member id. The deck and the member
// list are shuffled independently before zipping so the assignment carries
// no correlation with join order or deck construction order.
func AssignRoles(memberIDs []string, werewolfCount int, specialEnabled, neutralEnabled bool) map[string]Role {
	deck := BuildDeck(len(memberIDs), werewolfCount, specialEnabled, neutralEnabled)
	rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	ids := make([]string, len(memberIDs))
	copy(ids, memberIDs)
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	roles := make(map[string]Role, len(ids))
	for i, id := range ids {
		roles[id] = deck[i]
	}
	return roles
}
