package cards

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed cardset.yaml
var defaultSetData []byte

// Set describes a card-set composition: which characters and body parts
// exist, how many copies of each regular card, and which wild cards are
// included. The embedded default reproduces the standard 44-card NPZR set.
type Set struct {
	Name          string      `yaml:"name"`
	Characters    []string    `yaml:"characters"`
	BodyParts     []string    `yaml:"body_parts"`
	CopiesPerCard int         `yaml:"copies_per_card"`
	Wilds         WildSection `yaml:"wilds"`
}

// WildSection describes the wild cards of a set.
type WildSection struct {
	CharacterWilds bool `yaml:"character_wilds"` // one WildCharacter per character
	PositionWilds  bool `yaml:"position_wilds"`  // one WildPosition per body part
	UniversalWilds int  `yaml:"universal_wilds"` // number of WildUniversal cards
}

// DefaultSet returns the embedded standard set.
func DefaultSet() *Set {
	set, err := ParseSet(defaultSetData)
	if err != nil {
		panic(fmt.Sprintf("embedded card set invalid: %v", err))
	}
	return set
}

// ParseSet parses a YAML card-set definition.
func ParseSet(data []byte) (*Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse card set YAML: %w", err)
	}
	if err := set.validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// LoadSet reads and parses a card-set definition file.
func LoadSet(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSet(data)
}

func (s *Set) validate() error {
	if len(s.Characters) == 0 {
		return fmt.Errorf("card set %q: no characters", s.Name)
	}
	if len(s.BodyParts) == 0 {
		return fmt.Errorf("card set %q: no body parts", s.Name)
	}
	if s.CopiesPerCard < 1 {
		return fmt.Errorf("card set %q: copies_per_card must be at least 1", s.Name)
	}
	if s.Wilds.UniversalWilds < 0 {
		return fmt.Errorf("card set %q: universal_wilds must not be negative", s.Name)
	}
	for _, name := range s.Characters {
		if _, err := ParseCharacter(name); err != nil {
			return fmt.Errorf("card set %q: %w", s.Name, err)
		}
	}
	for _, name := range s.BodyParts {
		if _, err := ParseBodyPart(name); err != nil {
			return fmt.Errorf("card set %q: %w", s.Name, err)
		}
	}
	return nil
}

// TotalCards returns the number of cards the set builds.
func (s *Set) TotalCards() int {
	total := len(s.Characters) * len(s.BodyParts) * s.CopiesPerCard
	if s.Wilds.CharacterWilds {
		total += len(s.Characters)
	}
	if s.Wilds.PositionWilds {
		total += len(s.BodyParts)
	}
	total += s.Wilds.UniversalWilds
	return total
}

// BuildCards constructs every card of the set with deterministic ids, in a
// stable order (shuffling is the deck's job).
func (s *Set) BuildCards() ([]*Card, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	built := make([]*Card, 0, s.TotalCards())
	for _, chName := range s.Characters {
		ch, _ := ParseCharacter(chName)
		for _, bpName := range s.BodyParts {
			bp, _ := ParseBodyPart(bpName)
			for copyNum := 1; copyNum <= s.CopiesPerCard; copyNum++ {
				built = append(built, &Card{
					ID:        fmt.Sprintf("%s-%s-%d", chName, bpName, copyNum),
					Type:      CardTypeRegular,
					Character: ch,
					BodyPart:  bp,
				})
			}
		}
	}
	if s.Wilds.CharacterWilds {
		for _, chName := range s.Characters {
			ch, _ := ParseCharacter(chName)
			built = append(built, &Card{
				ID:        fmt.Sprintf("wild-%s", chName),
				Type:      CardTypeWildCharacter,
				Character: ch,
				BodyPart:  BodyPartWild,
			})
		}
	}
	if s.Wilds.PositionWilds {
		for _, bpName := range s.BodyParts {
			bp, _ := ParseBodyPart(bpName)
			built = append(built, &Card{
				ID:        fmt.Sprintf("wild-%s", bpName),
				Type:      CardTypeWildPosition,
				Character: CharacterWild,
				BodyPart:  bp,
			})
		}
	}
	for i := 1; i <= s.Wilds.UniversalWilds; i++ {
		built = append(built, &Card{
			ID:        fmt.Sprintf("wild-universal-%d", i),
			Type:      CardTypeWildUniversal,
			Character: CharacterWild,
			BodyPart:  BodyPartWild,
		})
	}
	return built, nil
}

// ParseCharacter maps a lowercase character name to its enum value.
func ParseCharacter(name string) (Character, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ninja":
		return CharacterNinja, nil
	case "pirate":
		return CharacterPirate, nil
	case "zombie":
		return CharacterZombie, nil
	case "robot":
		return CharacterRobot, nil
	}
	return CharacterWild, fmt.Errorf("unknown character %q", name)
}

// ParseBodyPart maps a lowercase body-part name to its enum value.
func ParseBodyPart(name string) (BodyPart, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "head":
		return BodyPartHead, nil
	case "torso":
		return BodyPartTorso, nil
	case "legs":
		return BodyPartLegs, nil
	}
	return BodyPartWild, fmt.Errorf("unknown body part %q", name)
}
