// Package cards implements the NPZR card model: card identity, the four
// collectible characters and three body parts, wild-card subtypes, and
// nomination semantics.
package cards

import "fmt"

// Character identifies one of the four collectible characters.
// CharacterWild is a sentinel marking the unfixed character dimension of a
// wild card; it is never a legal scored or effective character.
type Character int

const (
	CharacterWild Character = iota
	CharacterNinja
	CharacterPirate
	CharacterZombie
	CharacterRobot
)

var characterNames = map[Character]string{
	CharacterWild:   "WILD",
	CharacterNinja:  "NINJA",
	CharacterPirate: "PIRATE",
	CharacterZombie: "ZOMBIE",
	CharacterRobot:  "ROBOT",
}

func (c Character) String() string {
	if name, ok := characterNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CHARACTER_%d", int(c))
}

// IsConcrete reports whether c is one of the four scorable characters.
func (c Character) IsConcrete() bool {
	return c >= CharacterNinja && c <= CharacterRobot
}

// Characters lists the four scorable characters in canonical order.
func Characters() []Character {
	return []Character{CharacterNinja, CharacterPirate, CharacterZombie, CharacterRobot}
}

// BodyPart identifies one of the three piles of a stack. BodyPartWild is a
// sentinel with the same restriction as CharacterWild.
type BodyPart int

const (
	BodyPartWild BodyPart = iota
	BodyPartHead
	BodyPartTorso
	BodyPartLegs
)

var bodyPartNames = map[BodyPart]string{
	BodyPartWild:  "WILD",
	BodyPartHead:  "HEAD",
	BodyPartTorso: "TORSO",
	BodyPartLegs:  "LEGS",
}

func (b BodyPart) String() string {
	if name, ok := bodyPartNames[b]; ok {
		return name
	}
	return fmt.Sprintf("BODY_PART_%d", int(b))
}

// IsConcrete reports whether b names an actual pile.
func (b BodyPart) IsConcrete() bool {
	return b >= BodyPartHead && b <= BodyPartLegs
}

// BodyParts lists the three pile body parts in canonical order.
func BodyParts() []BodyPart {
	return []BodyPart{BodyPartHead, BodyPartTorso, BodyPartLegs}
}

// CardType discriminates regular cards from the three wild subtypes.
type CardType int

const (
	CardTypeRegular CardType = iota
	CardTypeWildCharacter
	CardTypeWildPosition
	CardTypeWildUniversal
)

var cardTypeNames = map[CardType]string{
	CardTypeRegular:       "REGULAR",
	CardTypeWildCharacter: "WILD_CHARACTER",
	CardTypeWildPosition:  "WILD_POSITION",
	CardTypeWildUniversal: "WILD_UNIVERSAL",
}

func (t CardType) String() string {
	if name, ok := cardTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("CARD_TYPE_%d", int(t))
}

// Nomination is the (character, body part) assignment a wild card receives
// when played.
type Nomination struct {
	Character Character
	BodyPart  BodyPart
}

// Card is a single card in the 44-card universe.
//
// A Regular card has both Character and BodyPart fixed and never holds a
// nomination. A wild card leaves one or both dimensions at the Wild sentinel;
// a nomination pins them down until the card changes location.
type Card struct {
	ID         string
	Type       CardType
	Character  Character // CharacterWild when not fixed by the card type
	BodyPart   BodyPart  // BodyPartWild when not fixed by the card type
	Nomination *Nomination
}

// IsWild reports whether the card is any of the three wild subtypes.
func (c *Card) IsWild() bool {
	return c.Type != CardTypeRegular
}

// IsFastCard reports whether playing this card grants the player the option
// to play another card in the same turn. Every wild card is fast.
func (c *Card) IsFastCard() bool {
	return c.IsWild()
}

// IsNominated reports whether the card currently holds a nomination.
func (c *Card) IsNominated() bool {
	return c.Nomination != nil
}

// EffectiveCharacter resolves the character the card counts as: the
// nomination's character if nominated, else the card's own fixed character.
// ok is false for an unnominated wild with no fixed character.
func (c *Card) EffectiveCharacter() (Character, bool) {
	if c.Nomination != nil {
		return c.Nomination.Character, true
	}
	if c.Character.IsConcrete() {
		return c.Character, true
	}
	return CharacterWild, false
}

// EffectiveBodyPart resolves the body part the card counts as, with the same
// precedence as EffectiveCharacter.
func (c *Card) EffectiveBodyPart() (BodyPart, bool) {
	if c.Nomination != nil {
		return c.Nomination.BodyPart, true
	}
	if c.BodyPart.IsConcrete() {
		return c.BodyPart, true
	}
	return BodyPartWild, false
}

// Clone returns a deep copy of the card, including any nomination.
func (c *Card) Clone() *Card {
	cp := *c
	if c.Nomination != nil {
		nom := *c.Nomination
		cp.Nomination = &nom
	}
	return &cp
}

func (c *Card) String() string {
	if c.Nomination != nil {
		return fmt.Sprintf("%s(%s as %s/%s)", c.ID, c.Type, c.Nomination.Character, c.Nomination.BodyPart)
	}
	return c.ID
}
