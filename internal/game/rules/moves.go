package rules

import (
	"github.com/npzr-game/npzr-engine-go/internal/game/cards"
)

// NewStackTarget is the sentinel destination id that creates a fresh stack
// owned by the acting player.
const NewStackTarget = "new"

// DefaultCascadeLimit bounds move-consuming cascade loops. The cap is a
// safety valve against heuristic cycles, not a game rule; correct play never
// reaches it.
const DefaultCascadeLimit = 50

// maxCompletionPasses bounds the completion fixed-point scan. Each pass that
// completes anything removes at least one stack, so the loop terminates on
// its own; the cap guards against state corruption.
const maxCompletionPasses = 50

// MoveAction names a single card relocation between stacks.
type MoveAction struct {
	CardID      string
	FromStackID string
	FromPile    cards.BodyPart
	ToStackID   string // NewStackTarget creates a stack for the acting player
	ToPile      cards.BodyPart
}

// ExecuteMove relocates one card between stacks. The card's nomination is
// cleared (a moved wild must be re-nominated to count toward completion
// again), empty stacks are purged afterwards, and on any failure the state is
// left untouched, with the card restored to its origin if it had already been
// removed.
func ExecuteMove(gs *GameState, mv MoveAction) bool {
	if !mv.ToPile.IsConcrete() {
		return false
	}
	src := gs.StackByID(mv.FromStackID)
	if src == nil {
		return false
	}
	card := src.RemoveCard(mv.CardID, mv.FromPile)
	if card == nil {
		return false
	}

	dest := gs.StackByID(mv.ToStackID)
	if mv.ToStackID == NewStackTarget {
		dest = gs.NewStack(gs.CurrentPlayer().ID)
		gs.Stacks = append(gs.Stacks, dest)
	}
	if dest == nil {
		// Destination missing: put the card back where it came from.
		src.AddCard(card, mv.FromPile)
		return false
	}

	cards.ResetNomination(card)
	if !dest.AddCard(card, mv.ToPile) {
		src.AddCard(card, mv.FromPile)
		gs.PurgeEmptyStacks()
		return false
	}
	gs.PurgeEmptyStacks()
	return true
}

// CompleteStack resolves a genuine completion: the character joins the
// owner's scored set, the whole stack leaves play (its cards enter the
// reclaimed pool), and the acting player banks one pending move. It returns
// false for a missing or incomplete stack.
func CompleteStack(gs *GameState, stackID string) (cards.Character, bool) {
	stack := gs.StackByID(stackID)
	if stack == nil {
		return cards.CharacterWild, false
	}
	ch, ok := stack.CompletionCharacter()
	if !ok {
		return cards.CharacterWild, false
	}
	owner := gs.PlayerByID(stack.Owner)
	if owner == nil {
		return cards.CharacterWild, false
	}
	owner.ScoreCharacter(ch)

	for _, card := range stack.AllCards() {
		cards.ResetNomination(card)
		gs.Reclaimed = append(gs.Reclaimed, card)
	}
	for i, s := range gs.Stacks {
		if s.ID == stackID {
			gs.Stacks = append(gs.Stacks[:i], gs.Stacks[i+1:]...)
			break
		}
	}
	gs.PendingMoves++
	return ch, true
}

// ProcessStackCompletions repeatedly scans all stacks and completes every
// completable one until a pass completes nothing, then recomputes the win
// condition. It returns the characters completed, in resolution order.
func ProcessStackCompletions(gs *GameState) []cards.Character {
	var completed []cards.Character
	for pass := 0; pass < maxCompletionPasses; pass++ {
		progressed := false
		// Snapshot ids: completion mutates gs.Stacks.
		ids := make([]string, len(gs.Stacks))
		for i, s := range gs.Stacks {
			ids[i] = s.ID
		}
		for _, id := range ids {
			if ch, ok := CompleteStack(gs, id); ok {
				completed = append(completed, ch)
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	checkWinCondition(gs)
	return completed
}

// checkWinCondition freezes the game once a player owns all four characters.
// The acting player is checked first so that simultaneous completions favor
// the mover.
func checkWinCondition(gs *GameState) {
	if gs.Finished() {
		return
	}
	for _, p := range []*Player{gs.CurrentPlayer(), gs.OtherPlayer()} {
		if p.HasWon() {
			gs.Phase = PhaseFinished
			gs.Winner = p.ID
			return
		}
	}
}

// FindCompletingMove searches for a relocation of a top card that would
// complete a stack for the acting player once its nomination is cleared.
// This is the fixed heuristic behind ExecuteOptimalMove; external callers are
// free to pick their own moves instead.
func FindCompletingMove(gs *GameState) (MoveAction, bool) {
	me := gs.CurrentPlayer().ID
	for _, src := range gs.Stacks {
		for _, fromBP := range cards.BodyParts() {
			card := src.Piles[fromBP].Top()
			if card == nil {
				continue
			}
			// Moving clears nominations, so only the fixed character counts.
			if !card.Character.IsConcrete() {
				continue
			}
			for _, dest := range gs.Stacks {
				if dest.ID == src.ID || dest.Owner != me {
					continue
				}
				for _, toBP := range cards.BodyParts() {
					if wouldComplete(dest, card, toBP) {
						return MoveAction{
							CardID:      card.ID,
							FromStackID: src.ID,
							FromPile:    fromBP,
							ToStackID:   dest.ID,
							ToPile:      toBP,
						}, true
					}
				}
			}
		}
	}
	return MoveAction{}, false
}

// wouldComplete reports whether placing card (nomination ignored) on the
// given pile of dest would complete the stack.
func wouldComplete(dest *Stack, card *cards.Card, toPile cards.BodyPart) bool {
	var completing cards.Character
	for i, bp := range cards.BodyParts() {
		var ch cards.Character
		if bp == toPile {
			ch = card.Character
		} else {
			top := dest.Piles[bp].Top()
			if top == nil {
				return false
			}
			effective, ok := top.EffectiveCharacter()
			if !ok {
				return false
			}
			ch = effective
		}
		if !ch.IsConcrete() {
			return false
		}
		if i == 0 {
			completing = ch
		} else if ch != completing {
			return false
		}
	}
	return true
}

// ExecuteOptimalMove consumes one pending move using the fixed heuristic and
// immediately re-runs completion processing. It returns false when no banked
// move exists or no beneficial relocation is available.
func ExecuteOptimalMove(gs *GameState) bool {
	if gs.Finished() || gs.PendingMoves <= 0 {
		return false
	}
	mv, ok := FindCompletingMove(gs)
	if !ok {
		return false
	}
	if !ExecuteMove(gs, mv) {
		return false
	}
	gs.PendingMoves--
	ProcessStackCompletions(gs)
	return true
}

// CascadeCompletions resolves completions and then keeps consuming pending
// moves through ExecuteOptimalMove until no move helps or the iteration cap
// is reached. It returns the number of moves executed.
func CascadeCompletions(gs *GameState, limit int) int {
	if limit <= 0 {
		limit = DefaultCascadeLimit
	}
	ProcessStackCompletions(gs)
	executed := 0
	for executed < limit {
		if !ExecuteOptimalMove(gs) {
			break
		}
		executed++
	}
	return executed
}
