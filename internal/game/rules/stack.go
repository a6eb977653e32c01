// Package rules implements the deterministic NPZR game-state machinery: the
// stack/pile model, the move and cascade engine, and the sequential turn
// state machine.
package rules

import (
	"github.com/google/uuid"
	"github.com/npzr-game/npzr-engine-go/internal/game/cards"
)

// Pile is the ordered card sequence for one body part within a stack. The
// last element is the top, face-up card; only it participates in completion.
type Pile struct {
	BodyPart cards.BodyPart
	Cards    []*cards.Card
}

// Top returns the face-up card, or nil for an empty pile.
func (p *Pile) Top() *cards.Card {
	if len(p.Cards) == 0 {
		return nil
	}
	return p.Cards[len(p.Cards)-1]
}

// Size returns the number of cards in the pile.
func (p *Pile) Size() int {
	return len(p.Cards)
}

// Add appends a card to the top of the pile.
func (p *Pile) Add(card *cards.Card) {
	p.Cards = append(p.Cards, card)
}

// RemoveByID removes and returns the most recently added card with the given
// id, or nil if the pile holds no such card.
func (p *Pile) RemoveByID(cardID string) *cards.Card {
	for i := len(p.Cards) - 1; i >= 0; i-- {
		if p.Cards[i].ID == cardID {
			card := p.Cards[i]
			p.Cards = append(p.Cards[:i], p.Cards[i+1:]...)
			return card
		}
	}
	return nil
}

// Clone returns a deep copy of the pile.
func (p *Pile) Clone() *Pile {
	cpy := &Pile{
		BodyPart: p.BodyPart,
		Cards:    make([]*cards.Card, len(p.Cards)),
	}
	for i, card := range p.Cards {
		cpy.Cards[i] = card.Clone()
	}
	return cpy
}

// Stack is a player-owned triple of piles. It completes when the effective
// characters of the three top cards are all defined and identical.
type Stack struct {
	ID    string
	Owner string // player id
	Piles map[cards.BodyPart]*Pile
}

// NewStack creates an empty stack with exactly one pile per body part and a
// random id. Stacks created during play get deterministic, game-scoped ids
// from GameState.NewStack instead.
func NewStack(owner string) *Stack {
	s := &Stack{
		ID:    uuid.NewString(),
		Owner: owner,
		Piles: make(map[cards.BodyPart]*Pile, 3),
	}
	for _, bp := range cards.BodyParts() {
		s.Piles[bp] = &Pile{BodyPart: bp}
	}
	return s
}

// Pile returns the pile for the given body part. ok is false for the Wild
// sentinel or any other structurally invalid key.
func (s *Stack) Pile(bodyPart cards.BodyPart) (*Pile, bool) {
	pile, ok := s.Piles[bodyPart]
	return pile, ok
}

// AddCard appends the card to the named pile. Placement is always legal
// regardless of character or body-part match (burying a pile is a deliberate
// defensive play); it fails only on a structurally invalid pile key.
func (s *Stack) AddCard(card *cards.Card, bodyPart cards.BodyPart) bool {
	pile, ok := s.Piles[bodyPart]
	if !ok {
		return false
	}
	pile.Add(card)
	return true
}

// RemoveCard removes the most recently added card with the given id from the
// named pile, or returns nil if the pile or card is missing.
func (s *Stack) RemoveCard(cardID string, bodyPart cards.BodyPart) *cards.Card {
	pile, ok := s.Piles[bodyPart]
	if !ok {
		return nil
	}
	return pile.RemoveByID(cardID)
}

// IsEmpty reports whether all three piles are empty.
func (s *Stack) IsEmpty() bool {
	for _, pile := range s.Piles {
		if pile.Size() > 0 {
			return false
		}
	}
	return true
}

// CardCount returns the number of cards across all piles.
func (s *Stack) CardCount() int {
	total := 0
	for _, pile := range s.Piles {
		total += pile.Size()
	}
	return total
}

// AllCards returns every card in the stack, pile by pile in canonical order,
// bottom first within each pile.
func (s *Stack) AllCards() []*cards.Card {
	all := make([]*cards.Card, 0, s.CardCount())
	for _, bp := range cards.BodyParts() {
		all = append(all, s.Piles[bp].Cards...)
	}
	return all
}

// CompletionCharacter returns the character this stack currently completes,
// if any. Completion requires all three piles non-empty and the effective
// characters of their top cards defined and identical. Buried cards are
// irrelevant.
func (s *Stack) CompletionCharacter() (cards.Character, bool) {
	var completing cards.Character
	for i, bp := range cards.BodyParts() {
		top := s.Piles[bp].Top()
		if top == nil {
			return cards.CharacterWild, false
		}
		ch, ok := top.EffectiveCharacter()
		if !ok {
			return cards.CharacterWild, false
		}
		if i == 0 {
			completing = ch
		} else if ch != completing {
			return cards.CharacterWild, false
		}
	}
	return completing, true
}

// Clone returns a deep copy of the stack.
func (s *Stack) Clone() *Stack {
	cpy := &Stack{
		ID:    s.ID,
		Owner: s.Owner,
		Piles: make(map[cards.BodyPart]*Pile, len(s.Piles)),
	}
	for bp, pile := range s.Piles {
		cpy.Piles[bp] = pile.Clone()
	}
	return cpy
}
