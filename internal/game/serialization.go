package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/npzr-game/npzr-engine-go/internal/game/cards"
	"github.com/npzr-game/npzr-engine-go/internal/game/rules"
)

// StateChecksum computes a deterministic SHA-256 checksum over a canonical
// textual representation of the game state. Identical states always hash
// identically regardless of map iteration order, so tests can prove that
// clones are independent and that equal seeds produce equal games. This is a
// diagnostic, not a persistence format.
func StateChecksum(gs *rules.GameState) string {
	data := buildCanonicalRepresentation(gs)
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// Checksum hashes the engine's current state. It returns "" before a game
// exists.
func (e *Engine) Checksum() string {
	if e.state == nil {
		return ""
	}
	return StateChecksum(e.state)
}

// buildCanonicalRepresentation renders the state as sorted, stable text.
// Hands and the reclaimed pool are unordered bags and get sorted; deck and
// pile order is real game state and is preserved.
func buildCanonicalRepresentation(gs *rules.GameState) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%s|%s|%d|%d|%s\n",
		gs.GameID, gs.Phase, gs.Current, gs.PendingMoves, gs.Winner)

	for _, p := range gs.Players {
		handIDs := make([]string, len(p.Hand))
		for i, card := range p.Hand {
			handIDs[i] = cardToken(card)
		}
		sort.Strings(handIDs)
		fmt.Fprintf(&buf, "PLAYER:%s|%s\n", p.ID, p.Name)
		for _, id := range handIDs {
			fmt.Fprintf(&buf, "  HAND:%s\n", id)
		}
		for _, ch := range p.ScoredCharacters() {
			fmt.Fprintf(&buf, "  SCORED:%s\n", ch)
		}
	}

	stacks := make([]*rules.Stack, len(gs.Stacks))
	copy(stacks, gs.Stacks)
	sort.Slice(stacks, func(i, j int) bool { return stacks[i].ID < stacks[j].ID })
	for _, s := range stacks {
		fmt.Fprintf(&buf, "STACK:%s|%s\n", s.ID, s.Owner)
		for _, bp := range cards.BodyParts() {
			for _, card := range s.Piles[bp].Cards {
				fmt.Fprintf(&buf, "  PILE:%s|%s\n", bp, cardToken(card))
			}
		}
	}

	if gs.Deck != nil {
		for _, id := range gs.Deck.CardIDs() {
			fmt.Fprintf(&buf, "DECK:%s\n", id)
		}
	}

	reclaimed := make([]string, len(gs.Reclaimed))
	for i, card := range gs.Reclaimed {
		reclaimed[i] = cardToken(card)
	}
	sort.Strings(reclaimed)
	for _, id := range reclaimed {
		fmt.Fprintf(&buf, "RECLAIMED:%s\n", id)
	}

	if gs.Turn != nil {
		fmt.Fprintf(&buf, "TURN:%s|%t|%d|%t|%t\n",
			gs.Turn.Phase, gs.Turn.LastCardWasWild, gs.Turn.MovesEarned,
			gs.Turn.CanContinue, gs.Turn.HasDrawn)
		for _, card := range gs.Turn.CardsPlayed {
			fmt.Fprintf(&buf, "  PLAYED:%s\n", card.ID)
		}
	}

	return buf.String()
}

// cardToken renders a card with its nomination so that nominating a wild
// changes the checksum.
func cardToken(card *cards.Card) string {
	if card.Nomination != nil {
		return fmt.Sprintf("%s@%s/%s", card.ID, card.Nomination.Character, card.Nomination.BodyPart)
	}
	return card.ID
}
