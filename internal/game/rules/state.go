package rules

import (
	"fmt"

	"github.com/npzr-game/npzr-engine-go/internal/game/cards"
)

// GamePhase tracks the coarse lifecycle of a game.
type GamePhase int

const (
	PhaseSetup GamePhase = iota
	PhasePlaying
	PhaseFinished
)

var gamePhaseNames = map[GamePhase]string{
	PhaseSetup:    "SETUP",
	PhasePlaying:  "PLAYING",
	PhaseFinished: "FINISHED",
}

func (p GamePhase) String() string {
	if name, ok := gamePhaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Player is one of the two seats: an id, a hand (unordered bag), and the set
// of characters the player has scored.
type Player struct {
	ID     string
	Name   string
	Hand   []*cards.Card
	Scored map[cards.Character]bool
}

// NewPlayer creates a player with an empty hand and score set.
func NewPlayer(id, name string) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		Scored: make(map[cards.Character]bool),
	}
}

// CardInHand returns the held card with the given id, or nil.
func (p *Player) CardInHand(cardID string) *cards.Card {
	for _, card := range p.Hand {
		if card.ID == cardID {
			return card
		}
	}
	return nil
}

// RemoveFromHand removes and returns the held card with the given id, or nil
// if the player does not hold it.
func (p *Player) RemoveFromHand(cardID string) *cards.Card {
	for i, card := range p.Hand {
		if card.ID == cardID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return card
		}
	}
	return nil
}

// ScoreCharacter records a completed character. Scoring the Wild sentinel is
// a programmer error, not a gameplay rejection, and panics.
func (p *Player) ScoreCharacter(ch cards.Character) {
	if !ch.IsConcrete() {
		panic(fmt.Sprintf("cannot score sentinel character %s for player %s", ch, p.ID))
	}
	p.Scored[ch] = true
}

// HasScored reports whether the player has completed the character.
func (p *Player) HasScored(ch cards.Character) bool {
	return p.Scored[ch]
}

// HasWon reports whether the player has scored all four characters.
func (p *Player) HasWon() bool {
	for _, ch := range cards.Characters() {
		if !p.Scored[ch] {
			return false
		}
	}
	return true
}

// ScoredCharacters returns the scored set in canonical order.
func (p *Player) ScoredCharacters() []cards.Character {
	var scored []cards.Character
	for _, ch := range cards.Characters() {
		if p.Scored[ch] {
			scored = append(scored, ch)
		}
	}
	return scored
}

// Clone returns a deep copy of the player, including an independent scored
// set.
func (p *Player) Clone() *Player {
	cpy := &Player{
		ID:     p.ID,
		Name:   p.Name,
		Hand:   make([]*cards.Card, len(p.Hand)),
		Scored: make(map[cards.Character]bool, len(p.Scored)),
	}
	for i, card := range p.Hand {
		cpy.Hand[i] = card.Clone()
	}
	for ch, scored := range p.Scored {
		cpy.Scored[ch] = scored
	}
	return cpy
}

// GameState is the complete, exclusively owned state of one game. Every
// operation mutates it in place; Clone produces a fully independent copy for
// speculative simulation.
type GameState struct {
	GameID  string
	Players []*Player
	Current int // index into Players of the acting seat
	Deck    *cards.Deck
	Stacks  []*Stack
	// StackSeq numbers the stacks created during play. Stack identity must be
	// reproducible from the operation sequence alone, so ids come from this
	// counter rather than a random source.
	StackSeq int
	// PendingMoves counts the stack-to-stack relocations the acting player
	// has banked from completions.
	PendingMoves int
	Phase        GamePhase
	Winner       string // player id, set only when Phase is PhaseFinished
	Turn         *TurnState
	// Reclaimed holds cards removed from play by completed stacks. They feed
	// deck refill when the draw pile runs dry.
	Reclaimed []*cards.Card
	// TotalCards is the fixed card universe size for conservation checks.
	TotalCards int
}

// CurrentPlayer returns the acting seat.
func (gs *GameState) CurrentPlayer() *Player {
	return gs.Players[gs.Current]
}

// OtherPlayer returns the non-acting seat.
func (gs *GameState) OtherPlayer() *Player {
	return gs.Players[1-gs.Current]
}

// PlayerByID returns the player with the given id, or nil.
func (gs *GameState) PlayerByID(id string) *Player {
	for _, p := range gs.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// NewStack creates an empty stack with a game-scoped sequential id. Every
// stack entering play goes through here; the package-level NewStack is for
// standalone construction only.
func (gs *GameState) NewStack(owner string) *Stack {
	gs.StackSeq++
	s := NewStack(owner)
	s.ID = fmt.Sprintf("stack-%d", gs.StackSeq)
	return s
}

// StackByID returns the stack with the given id, or nil.
func (gs *GameState) StackByID(id string) *Stack {
	for _, s := range gs.Stacks {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Finished reports whether the game is over.
func (gs *GameState) Finished() bool {
	return gs.Phase == PhaseFinished
}

// SwitchPlayer hands the turn to the other seat.
func (gs *GameState) SwitchPlayer() {
	gs.Current = 1 - gs.Current
}

// DrawForPlayer draws one card into the player's hand, refilling the deck
// from the reclaimed pool if the draw pile is empty. It returns nil on
// irrecoverable exhaustion, which is expected and non-fatal.
func (gs *GameState) DrawForPlayer(p *Player) *cards.Card {
	card := gs.Deck.Draw()
	if card == nil && len(gs.Reclaimed) > 0 {
		gs.Deck.Refill(gs.Reclaimed)
		gs.Reclaimed = nil
		card = gs.Deck.Draw()
	}
	if card != nil {
		p.Hand = append(p.Hand, card)
	}
	return card
}

// PurgeEmptyStacks removes every stack with zero cards across all piles.
func (gs *GameState) PurgeEmptyStacks() {
	kept := gs.Stacks[:0]
	for _, s := range gs.Stacks {
		if !s.IsEmpty() {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(gs.Stacks); i++ {
		gs.Stacks[i] = nil
	}
	gs.Stacks = kept
}

// Clone returns a fully independent deep copy: no shared cards, piles,
// hands, scored sets, or deck.
func (gs *GameState) Clone() *GameState {
	cpy := &GameState{
		GameID:       gs.GameID,
		Players:      make([]*Player, len(gs.Players)),
		Current:      gs.Current,
		Stacks:       make([]*Stack, len(gs.Stacks)),
		StackSeq:     gs.StackSeq,
		PendingMoves: gs.PendingMoves,
		Phase:        gs.Phase,
		Winner:       gs.Winner,
		Reclaimed:    make([]*cards.Card, len(gs.Reclaimed)),
		TotalCards:   gs.TotalCards,
	}
	for i, p := range gs.Players {
		cpy.Players[i] = p.Clone()
	}
	if gs.Deck != nil {
		cpy.Deck = gs.Deck.Clone()
	}
	for i, s := range gs.Stacks {
		cpy.Stacks[i] = s.Clone()
	}
	for i, card := range gs.Reclaimed {
		cpy.Reclaimed[i] = card.Clone()
	}
	if gs.Turn != nil {
		cpy.Turn = gs.Turn.Clone()
	}
	return cpy
}
