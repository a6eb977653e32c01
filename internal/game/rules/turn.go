package rules

import (
	"fmt"

	"github.com/npzr-game/npzr-engine-go/internal/game/cards"
)

// TurnPhase is the state of the sequential turn machine.
type TurnPhase int

const (
	TurnPhaseDraw TurnPhase = iota
	TurnPhasePlayCard
	TurnPhaseAwaitMove
)

var turnPhaseNames = map[TurnPhase]string{
	TurnPhaseDraw:      "DRAW",
	TurnPhasePlayCard:  "PLAY_CARD",
	TurnPhaseAwaitMove: "AWAIT_MOVE",
}

func (p TurnPhase) String() string {
	if name, ok := turnPhaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("TURN_PHASE_%d", int(p))
}

// TurnSignal is the outcome of a turn-machine operation. Rejections of
// illegal input also signal SignalContinue: the machine stays consistent and
// the caller may retry with different input.
type TurnSignal string

const (
	SignalContinue  TurnSignal = "continue"
	SignalAwaitMove TurnSignal = "await_move"
	SignalEndTurn   TurnSignal = "end_turn"
)

// TurnState tracks one turn mid-sequence.
type TurnState struct {
	Phase           TurnPhase
	CardsPlayed     []*cards.Card // audit order, for UI
	LastCardWasWild bool
	MovesEarned     int
	CanContinue     bool
	HasDrawn        bool
}

// Clone returns a deep copy of the turn state.
func (t *TurnState) Clone() *TurnState {
	cpy := &TurnState{
		Phase:           t.Phase,
		CardsPlayed:     make([]*cards.Card, len(t.CardsPlayed)),
		LastCardWasWild: t.LastCardWasWild,
		MovesEarned:     t.MovesEarned,
		CanContinue:     t.CanContinue,
		HasDrawn:        t.HasDrawn,
	}
	for i, card := range t.CardsPlayed {
		cpy.CardsPlayed[i] = card.Clone()
	}
	return cpy
}

// PlayAction names a card play: the card, an optional target stack (empty or
// NewStackTarget starts a fresh stack), an optional explicit pile, and an
// optional nomination for wild cards.
type PlayAction struct {
	CardID        string
	TargetStackID string         // "" or NewStackTarget creates a new stack
	TargetPile    cards.BodyPart // BodyPartWild derives the pile from the card
	Nomination    *cards.Nomination
}

// StartTurn begins a turn for the acting player: draw one card (an exhausted
// deck is tolerated) and enter the play phase. On a finished game it is a
// no-op signalling end_turn. With a turn already in flight it is rejected,
// signalling continue with all state untouched; the open turn must resolve
// first.
func StartTurn(gs *GameState) TurnSignal {
	if gs.Finished() {
		return SignalEndTurn
	}
	if gs.Turn != nil {
		return SignalContinue
	}
	gs.DrawForPlayer(gs.CurrentPlayer())
	gs.Turn = &TurnState{
		Phase:    TurnPhasePlayCard,
		HasDrawn: true,
	}
	return SignalContinue
}

// PlayCard validates and executes one card play for the acting player.
//
// Rejections (card not in hand, missing target stack, illegal nomination, no
// derivable pile) leave all state untouched and signal continue. On success
// the card leaves the hand, any nomination is applied, the card is placed,
// and completions are processed. New pending moves switch the machine to
// AwaitMove; otherwise a fast card keeps the turn alive and a regular card
// ends it.
func PlayCard(gs *GameState, action PlayAction) TurnSignal {
	if gs.Finished() {
		return SignalEndTurn
	}
	if gs.Turn == nil || gs.Turn.Phase != TurnPhasePlayCard {
		return SignalContinue
	}
	player := gs.CurrentPlayer()
	card := player.CardInHand(action.CardID)
	if card == nil {
		return SignalContinue
	}

	target := gs.StackByID(action.TargetStackID)
	newStack := action.TargetStackID == "" || action.TargetStackID == NewStackTarget
	if !newStack && target == nil {
		return SignalContinue
	}

	if action.Nomination != nil {
		if !card.IsWild() {
			return SignalContinue
		}
		if !cards.CanNominate(card, action.Nomination.Character, action.Nomination.BodyPart) {
			// A failing nomination aborts the whole play; the card stays in
			// hand with its nomination unset.
			return SignalContinue
		}
	}

	pile := placementPile(card, action)
	if !pile.IsConcrete() {
		return SignalContinue
	}

	// Validation passed: mutate.
	player.RemoveFromHand(card.ID)
	if action.Nomination != nil {
		cards.Nominate(card, action.Nomination.Character, action.Nomination.BodyPart)
	}
	if newStack {
		target = gs.NewStack(player.ID)
		gs.Stacks = append(gs.Stacks, target)
	}
	target.AddCard(card, pile)

	gs.Turn.CardsPlayed = append(gs.Turn.CardsPlayed, card)
	gs.Turn.LastCardWasWild = card.IsFastCard()

	owed := gs.PendingMoves
	ProcessStackCompletions(gs)
	if gs.Finished() {
		gs.Turn = nil
		return SignalEndTurn
	}
	if gs.PendingMoves > owed {
		gs.Turn.Phase = TurnPhaseAwaitMove
		gs.Turn.MovesEarned += gs.PendingMoves - owed
		return SignalAwaitMove
	}
	if card.IsFastCard() {
		gs.Turn.CanContinue = true
		return SignalContinue
	}
	return endTurn(gs)
}

// placementPile resolves which pile the card lands on: the explicit target if
// given, else the nomination's body part, else the card's fixed body part.
func placementPile(card *cards.Card, action PlayAction) cards.BodyPart {
	if action.TargetPile.IsConcrete() {
		return action.TargetPile
	}
	if action.Nomination != nil {
		return action.Nomination.BodyPart
	}
	return card.BodyPart
}

// ExecuteTurnMove spends one banked move while the machine awaits one. The
// boolean reports whether the relocation was accepted and the credit spent;
// rejections leave all state untouched. An accepted relocation may itself
// trigger completions, and any newly earned moves keep the machine in
// AwaitMove. Otherwise a wild trigger card resumes the play phase and a
// regular one ends the turn.
func ExecuteTurnMove(gs *GameState, mv MoveAction) (TurnSignal, bool) {
	if gs.Finished() {
		return SignalEndTurn, false
	}
	if gs.Turn == nil || gs.Turn.Phase != TurnPhaseAwaitMove {
		return SignalContinue, false
	}
	if gs.PendingMoves <= 0 {
		return SignalContinue, false
	}
	if !ExecuteMove(gs, mv) {
		return SignalContinue, false
	}
	gs.PendingMoves--

	owed := gs.PendingMoves
	ProcessStackCompletions(gs)
	if gs.Finished() {
		gs.Turn = nil
		return SignalEndTurn, true
	}
	if gs.PendingMoves > owed {
		gs.Turn.MovesEarned += gs.PendingMoves - owed
		return SignalAwaitMove, true
	}
	if gs.Turn.LastCardWasWild {
		gs.Turn.Phase = TurnPhasePlayCard
		gs.Turn.CanContinue = true
		return SignalContinue, true
	}
	return endTurn(gs), true
}

// SkipMove declines the awaited move. The banked credit stays in
// PendingMoves for later use; only this opportunity is passed up.
func SkipMove(gs *GameState) TurnSignal {
	if gs.Finished() {
		return SignalEndTurn
	}
	if gs.Turn == nil || gs.Turn.Phase != TurnPhaseAwaitMove {
		return SignalContinue
	}
	gs.Turn.Phase = TurnPhasePlayCard
	gs.Turn.CanContinue = true
	return SignalContinue
}

// endTurn clears the turn state and hands the game to the other seat.
func endTurn(gs *GameState) TurnSignal {
	gs.Turn = nil
	gs.SwitchPlayer()
	return SignalEndTurn
}
