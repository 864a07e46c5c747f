package domain

import (
	"fmt"
	"strings"
)

type Rarity string

const (
	RarityCommon     Rarity = "common"
	RarityLegendary  Rarity = "legendary"
	RarityMythical   Rarity = "mythical"
	RarityUltraBeast Rarity = "ultra_beast"
	RarityParadox    Rarity = "paradox"
)

func ParseRarity(raw string) (Rarity, error) {
	switch r := Rarity(strings.ToLower(strings.TrimSpace(raw))); r {
	case "":
		return RarityCommon, nil
	case RarityCommon, RarityLegendary, RarityMythical, RarityUltraBeast, RarityParadox:
		return r, nil
	default:
		return "", &InvalidArgumentsError{Msg: fmt.Sprintf("unknown rarity %q", raw)}
	}
}

const (
	MinCreatureLevel = 1
	MaxCreatureLevel = 100
)

// Creature describes the creature an event is about. Species is the lower-case species id.
type Creature struct {
	Species string
	Level   int
	Rarity  Rarity
	Shiny   bool
}

func NormalizeSpecies(species string) string {
	return strings.ToLower(strings.TrimSpace(species))
}
