package game

import (
	"strings"
	"testing"

	"github.com/npzr-game/npzr-engine-go/internal/game/cards"
	"github.com/npzr-game/npzr-engine-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFreshGame(t *testing.T) {
	e, _, _ := newStartedEngine(t)
	res := e.ValidateGameState()
	assert.True(t, res.Valid, "fresh game must validate: %v", res.Errors)
}

func TestValidateWithoutGame(t *testing.T) {
	e := NewEngine(nil)
	res := e.ValidateGameState()
	assert.False(t, res.Valid)
}

func TestValidateDetectsConservationBreak(t *testing.T) {
	e, p1, _ := newStartedEngine(t)
	hand := e.State().PlayerByID(p1)
	hand.Hand = hand.Hand[:len(hand.Hand)-1] // lose a card

	res := e.ValidateGameState()
	require.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "conservation")
}

func TestValidateDetectsDuplicateCard(t *testing.T) {
	e, p1, p2 := newStartedEngine(t)
	dup := e.State().PlayerByID(p1).Hand[0]
	other := e.State().PlayerByID(p2)
	other.Hand[0] = dup // same card object in both hands

	res := e.ValidateGameState()
	require.False(t, res.Valid)
	assert.Contains(t, strings.Join(res.Errors, "\n"), "present in both",
		"duplicate id must be reported")
}

func TestValidateDetectsMalformedStack(t *testing.T) {
	gs := &rules.GameState{
		GameID:  "g",
		Players: []*rules.Player{rules.NewPlayer("p1", "Alice"), rules.NewPlayer("p2", "Bob")},
		Deck:    cards.NewDeckFromCards(nil, 1),
		Phase:   rules.PhasePlaying,
	}
	broken := rules.NewStack("p1")
	delete(broken.Piles, cards.BodyPartLegs)
	gs.Stacks = []*rules.Stack{broken}

	res := ValidateState(gs)
	require.False(t, res.Valid)
	assert.Len(t, res.Errors, 2, "pile count and the missing pile both reported")
}

func TestValidateDetectsNegativePendingMoves(t *testing.T) {
	gs := &rules.GameState{
		GameID:       "g",
		Players:      []*rules.Player{rules.NewPlayer("p1", "Alice"), rules.NewPlayer("p2", "Bob")},
		Deck:         cards.NewDeckFromCards(nil, 1),
		Phase:        rules.PhasePlaying,
		PendingMoves: -1,
	}
	res := ValidateState(gs)
	require.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "pending moves")
}

func TestValidateDetectsWinnerInconsistencies(t *testing.T) {
	gs := &rules.GameState{
		GameID:  "g",
		Players: []*rules.Player{rules.NewPlayer("p1", "Alice"), rules.NewPlayer("p2", "Bob")},
		Deck:    cards.NewDeckFromCards(nil, 1),
		Phase:   rules.PhaseFinished,
	}
	res := ValidateState(gs)
	require.False(t, res.Valid, "finished game needs a winner")

	gs.Winner = "ghost"
	res = ValidateState(gs)
	require.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "not a seated player")
}

func TestValidateSurvivesGameplay(t *testing.T) {
	e, p1, _ := newStartedEngine(t)
	hand := e.GetPlayerHand(p1)
	require.NotEmpty(t, hand)

	action := rules.PlayAction{CardID: hand[0].ID}
	if hand[0].Fast {
		noms := e.GetPossibleNominations(hand[0].ID)
		require.NotEmpty(t, noms)
		action.Nomination = &noms[0]
	}
	require.True(t, e.PlayTurn(action))

	res := e.ValidateGameState()
	assert.True(t, res.Valid, "invariants must survive a played turn: %v", res.Errors)
}
