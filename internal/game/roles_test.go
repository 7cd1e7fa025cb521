package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactionOf(t *testing.T) {
	assert.Equal(t, FactionEnemy, FactionOf(RoleWerewolf))
	assert.Equal(t, FactionVillage, FactionOf(RoleVillager))
	assert.Equal(t, FactionVillage, FactionOf(RoleDoctor))
	assert.Equal(t, FactionNeutral, FactionOf(RoleJester))
	assert.Equal(t, FactionNeutral, FactionOf(RoleExecutioner))
	// Unknown roles never count for the enemy team.
	assert.Equal(t, FactionVillage, FactionOf(Role("Bard")))
}
