package game

type Role string

const (
	RoleVillager     Role = "Villager"
	RoleWerewolf     Role = "Werewolf"
	RoleDoctor       Role = "Doctor"
	RoleTracker      Role = "Tracker"
	RoleLookout      Role = "Lookout"
	RoleInvestigator Role = "Investigator"
	RoleHunter       Role = "Hunter"
	RoleTrapper      Role = "Trapper"
	RoleEscort       Role = "Escort"
	RoleSentinel     Role = "Sentinel"
	RoleJester       Role = "Jester"
	RoleExecutioner  Role = "Executioner"
)

type Faction string

const (
	FactionVillage Faction = "Village"
	FactionEnemy   Faction = "Enemy"
	FactionNeutral Faction = "Neutral"
)

var roleFactions = map[Role]Faction{
	RoleVillager:     FactionVillage,
	RoleWerewolf:     FactionEnemy,
	RoleDoctor:       FactionVillage,
	RoleTracker:      FactionVillage,
	RoleLookout:      FactionVillage,
	RoleInvestigator: FactionVillage,
	RoleHunter:       FactionVillage,
	RoleTrapper:      FactionVillage,
	RoleEscort:       FactionVillage,
	RoleSentinel:     FactionVillage,
	RoleJester:       FactionNeutral,
	RoleExecutioner:  FactionNeutral,
}

// FactionOf reports the faction a role plays for. Unknown roles count as
// Village so a bad value never grants the enemy team extra members.
func FactionOf(r Role) Faction {
	if f, ok := roleFactions[r]; ok {
		return f
	}
	return FactionVillage
}

// Deck construction order matters: village specials are dealt before neutral
// specials when slots run out.
var villageSpecialRoles = []Role{
	RoleDoctor,
	RoleTracker,
	RoleLookout,
	RoleInvestigator,
	RoleHunter,
	RoleTrapper,
	RoleEscort,
	RoleSentinel,
}

var neutralSpecialRoles = []Role{
	RoleJester,
	RoleExecutioner,
}
