package game

import (
	"fmt"

	"github.com/npzr-game/npzr-engine-go/internal/game/cards"
	"github.com/npzr-game/npzr-engine-go/internal/game/rules"
)

// ValidationResult is the outcome of a structural self-check.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// ValidateGameState runs the structural self-check: card conservation over
// the fixed universe, unique card ids, non-negative pending moves, exactly
// three piles per stack, and a current player that exists. It never mutates
// state; it exists so tests and tooling can assert the invariants survive any
// sequence of gameplay operations.
func (e *Engine) ValidateGameState() ValidationResult {
	if e.state == nil {
		return ValidationResult{Valid: false, Errors: []string{"no game created"}}
	}
	return ValidateState(e.state)
}

// ValidateState checks a GameState directly.
func ValidateState(gs *rules.GameState) ValidationResult {
	var errs []string

	seen := make(map[string]string) // card id -> location
	total := 0
	record := func(card *cards.Card, location string) {
		total++
		if prev, dup := seen[card.ID]; dup {
			errs = append(errs, fmt.Sprintf("card %s present in both %s and %s", card.ID, prev, location))
			return
		}
		seen[card.ID] = location
	}

	if gs.Deck != nil {
		for _, card := range gs.Deck.Cards() {
			record(card, "deck")
		}
	} else {
		errs = append(errs, "deck is missing")
	}
	for _, p := range gs.Players {
		for _, card := range p.Hand {
			record(card, fmt.Sprintf("hand of %s", p.ID))
		}
	}
	for _, s := range gs.Stacks {
		if len(s.Piles) != 3 {
			errs = append(errs, fmt.Sprintf("stack %s has %d piles, want 3", s.ID, len(s.Piles)))
		}
		for _, bp := range cards.BodyParts() {
			pile, ok := s.Piles[bp]
			if !ok {
				errs = append(errs, fmt.Sprintf("stack %s is missing its %s pile", s.ID, bp))
				continue
			}
			for _, card := range pile.Cards {
				record(card, fmt.Sprintf("stack %s %s", s.ID, bp))
			}
		}
	}
	for _, card := range gs.Reclaimed {
		record(card, "reclaimed")
	}

	if gs.TotalCards > 0 && total != gs.TotalCards {
		errs = append(errs, fmt.Sprintf("card conservation broken: %d cards in play, want %d", total, gs.TotalCards))
	}
	if gs.PendingMoves < 0 {
		errs = append(errs, fmt.Sprintf("pending moves negative: %d", gs.PendingMoves))
	}
	if len(gs.Players) > 0 {
		if gs.Current < 0 || gs.Current >= len(gs.Players) {
			errs = append(errs, fmt.Sprintf("current player index %d out of range", gs.Current))
		}
	}
	if gs.Phase == rules.PhaseFinished && gs.Winner == "" {
		errs = append(errs, "game finished without a winner")
	}
	if gs.Winner != "" && gs.PlayerByID(gs.Winner) == nil {
		errs = append(errs, fmt.Sprintf("winner %s is not a seated player", gs.Winner))
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
