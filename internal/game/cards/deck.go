package cards

import (
	"math/rand"
	"time"
)

// Deck is the ordered draw pile. Cards are drawn from the end of the slice.
type Deck struct {
	cards []*Card
	rng   *rand.Rand
}

// NewDeck builds and shuffles a deck from the given set. A zero seed selects
// a time-based seed; any other value makes the shuffle reproducible.
func NewDeck(set *Set, seed int64) (*Deck, error) {
	built, err := set.BuildCards()
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	d := &Deck{
		cards: built,
		rng:   rand.New(rand.NewSource(seed)),
	}
	d.Shuffle()
	return d, nil
}

// NewDeckFromCards builds an unshuffled deck over the given cards, last card
// on top. Used for scripted scenarios and tests.
func NewDeckFromCards(cs []*Card, seed int64) *Deck {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	d := &Deck{
		cards: make([]*Card, len(cs)),
		rng:   rand.New(rand.NewSource(seed)),
	}
	copy(d.cards, cs)
	return d
}

// Shuffle applies a uniform Fisher-Yates permutation over the whole deck.
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card. It returns nil when the deck is
// empty; exhaustion is an expected, non-fatal condition.
func (d *Deck) Draw() *Card {
	if len(d.cards) == 0 {
		return nil
	}
	idx := len(d.cards) - 1
	card := d.cards[idx]
	d.cards[idx] = nil
	d.cards = d.cards[:idx]
	return card
}

// Size returns the number of cards remaining.
func (d *Deck) Size() int {
	return len(d.cards)
}

// Refill shuffles reclaimed cards back into the deck. Any lingering
// nominations are cleared, since the cards re-enter circulation as blanks.
// It returns the number of cards added.
func (d *Deck) Refill(reclaimed []*Card) int {
	if len(reclaimed) == 0 {
		return 0
	}
	for _, card := range reclaimed {
		card.Nomination = nil
		d.cards = append(d.cards, card)
	}
	d.Shuffle()
	return len(reclaimed)
}

// CardIDs returns the ids of the remaining cards in draw order (bottom
// first). Diagnostic helper for validation and checksums.
func (d *Deck) CardIDs() []string {
	ids := make([]string, len(d.cards))
	for i, card := range d.cards {
		ids[i] = card.ID
	}
	return ids
}

// Cards returns the remaining cards in draw order (bottom first). The slice
// is a copy; the cards are live.
func (d *Deck) Cards() []*Card {
	cpy := make([]*Card, len(d.cards))
	copy(cpy, d.cards)
	return cpy
}

// Clone returns a deep copy of the deck with an independently seeded RNG.
func (d *Deck) Clone() *Deck {
	cpy := &Deck{
		cards: make([]*Card, len(d.cards)),
		rng:   rand.New(rand.NewSource(d.rng.Int63())),
	}
	for i, card := range d.cards {
		cpy.cards[i] = card.Clone()
	}
	return cpy
}

// CanCardFitPile reports whether the card can legally count toward the given
// character and body part. Regular cards match only their own fixed pair;
// WildCharacter matches any body part for its character; WildPosition matches
// any character for its body part; WildUniversal matches anything.
func CanCardFitPile(card *Card, character Character, bodyPart BodyPart) bool {
	if !character.IsConcrete() || !bodyPart.IsConcrete() {
		return false
	}
	switch card.Type {
	case CardTypeRegular:
		return card.Character == character && card.BodyPart == bodyPart
	case CardTypeWildCharacter:
		return card.Character == character
	case CardTypeWildPosition:
		return card.BodyPart == bodyPart
	case CardTypeWildUniversal:
		return true
	}
	return false
}
