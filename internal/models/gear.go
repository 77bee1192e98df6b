package models

// GearSlots is the fixed slot set every setup covers, in display order.
var GearSlots = []string{
	"head", "cape", "neck", "ammo", "weapon", "body",
	"shield", "legs", "hands", "feet", "ring", "special",
}

// GearSetup maps a gear slot to the recommended item name.
type GearSetup map[string]string

// BossSetups groups the three recommended loadouts for a boss.
type BossSetups struct {
	Budget  GearSetup `json:"budget"`
	MidTier GearSetup `json:"midTier"`
	Max     GearSetup `json:"max"`
}
