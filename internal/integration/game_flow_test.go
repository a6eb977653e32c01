package integration

import (
	"testing"

	"github.com/npzr-game/npzr-engine-go/internal/game"
	"github.com/npzr-game/npzr-engine-go/internal/game/cards"
	"github.com/npzr-game/npzr-engine-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const maxSelfPlayTurns = 2000

// newSeededGame builds a two-seat game around the given seed.
func newSeededGame(t testing.TB, seed int64) *game.Engine {
	t.Helper()
	e := game.NewEngine(zaptest.NewLogger(t), game.WithSeed(seed))
	require.NoError(t, e.CreateGame())
	_, err := e.AddPlayer("Alice")
	require.NoError(t, err)
	_, err = e.AddPlayer("Bob")
	require.NoError(t, err)
	return e
}

// firstCardAction plays the first held card, nominating wilds with their
// first legal nomination. Returns false when the hand is empty.
func firstCardAction(e *game.Engine) (rules.PlayAction, bool) {
	hand := e.GetPlayerHand(e.GetCurrentPlayer())
	if len(hand) == 0 {
		return rules.PlayAction{}, false
	}
	action := rules.PlayAction{CardID: hand[0].ID}
	if hand[0].Fast {
		noms := e.GetPossibleNominations(hand[0].ID)
		if len(noms) > 0 {
			action.Nomination = &noms[0]
		}
	}
	return action, true
}

func TestSelfPlayPreservesInvariants(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 1337} {
		e := newSeededGame(t, seed)
		turns := 0
		for !e.IsGameFinished() && turns < maxSelfPlayTurns {
			action, ok := firstCardAction(e)
			if !ok {
				// Empty hand: the turn still draws a card before stalling out.
				e.PlayTurn(rules.PlayAction{})
				turns++
				continue
			}
			e.PlayTurn(action)
			turns++

			res := e.ValidateGameState()
			require.True(t, res.Valid, "seed %d turn %d: %v", seed, turns, res.Errors)
			require.GreaterOrEqual(t, e.GetPendingMoves(), 0)
		}
		if e.IsGameFinished() {
			winner, ok := e.GetWinner()
			require.True(t, ok, "seed %d: finished game must name a winner", seed)
			require.Len(t, e.GetPlayerScore(winner), 4,
				"seed %d: the winner holds all four characters", seed)
		}
	}
}

func TestIdenticalSeedsProduceIdenticalGames(t *testing.T) {
	run := func() string {
		e := newSeededGame(t, 99)
		for i := 0; i < 40 && !e.IsGameFinished(); i++ {
			action, ok := firstCardAction(e)
			if !ok {
				e.PlayTurn(rules.PlayAction{})
				continue
			}
			e.PlayTurn(action)
		}
		// Checksums hash player ids; compare position by stacks and scores.
		var sum string
		for _, s := range e.GetStacks() {
			for _, pile := range s.Piles {
				for _, c := range pile.Cards {
					sum += c.ID + "|"
				}
			}
		}
		return sum
	}
	assert.Equal(t, run(), run())
}

func TestScoredStackCardsReturnToCirculation(t *testing.T) {
	e := newSeededGame(t, 42)
	gs := e.State()
	actor := e.GetCurrentPlayer()

	// Pull a full ninja out of the draw pile; everything else parks in the
	// reclaimed pool so the card universe stays intact.
	head := takeFromDeck(t, gs, cards.CharacterNinja, cards.BodyPartHead)
	torso := takeFromDeck(t, gs, cards.CharacterNinja, cards.BodyPartTorso)
	legs := takeFromDeck(t, gs, cards.CharacterNinja, cards.BodyPartLegs)

	stack := rules.NewStack(actor)
	stack.AddCard(head, cards.BodyPartHead)
	stack.AddCard(torso, cards.BodyPartTorso)
	gs.Stacks = append(gs.Stacks, stack)
	gs.PlayerByID(actor).Hand = append(gs.PlayerByID(actor).Hand, legs)
	require.Equal(t, 44, countCards(gs))

	require.Equal(t, rules.SignalContinue, e.StartTurn())
	sig := e.PlayCard(rules.PlayAction{CardID: legs.ID, TargetStackID: stack.ID})
	require.Equal(t, rules.SignalAwaitMove, sig)
	require.Equal(t, rules.SignalContinue, e.SkipMove())
	require.Equal(t, rules.SignalEndTurn, e.EndTurn())

	assert.Contains(t, e.GetPlayerScore(actor), cards.CharacterNinja)
	reclaimedIDs := make([]string, 0, len(gs.Reclaimed))
	for _, card := range gs.Reclaimed {
		reclaimedIDs = append(reclaimedIDs, card.ID)
	}
	assert.Contains(t, reclaimedIDs, head.ID, "scored cards return to circulation")
	assert.Contains(t, reclaimedIDs, legs.ID)

	res := e.ValidateGameState()
	require.True(t, res.Valid, "conservation must survive scoring: %v", res.Errors)
}

// takeFromDeck draws until it finds a regular card with the given character
// and body part, parking everything else in the reclaimed pool.
func takeFromDeck(t *testing.T, gs *rules.GameState, ch cards.Character, bp cards.BodyPart) *cards.Card {
	t.Helper()
	for {
		card := gs.Deck.Draw()
		require.NotNil(t, card, "standard deck holds every regular card")
		if card.Type == cards.CardTypeRegular && card.Character == ch && card.BodyPart == bp {
			return card
		}
		gs.Reclaimed = append(gs.Reclaimed, card)
	}
}

func countCards(gs *rules.GameState) int {
	total := gs.Deck.Size() + len(gs.Reclaimed)
	for _, p := range gs.Players {
		total += len(p.Hand)
	}
	for _, s := range gs.Stacks {
		total += s.CardCount()
	}
	return total
}

func TestFullGameReplayRoundTrip(t *testing.T) {
	e := newSeededGame(t, 7)
	require.NoError(t, e.StartRecording())

	for i := 0; i < 60 && !e.IsGameFinished(); i++ {
		action, ok := firstCardAction(e)
		if !ok {
			e.PlayTurn(rules.PlayAction{})
			continue
		}
		e.PlayTurn(action)
	}
	want := e.Checksum()
	replay := e.StopRecording()
	require.NotNil(t, replay)

	dir := t.TempDir()
	require.NoError(t, replay.SaveToFile(dir))
	loaded, err := game.LoadReplayFromFile(dir, replay.GameID)
	require.NoError(t, err)

	replayed, err := game.ReplayGame(zaptest.NewLogger(t), loaded)
	require.NoError(t, err)
	assert.Equal(t, want, replayed.Checksum())

	res := replayed.ValidateGameState()
	assert.True(t, res.Valid, "replayed game must validate: %v", res.Errors)
}

func TestDeckExhaustionRecyclesReclaimedPool(t *testing.T) {
	e := newSeededGame(t, 11)
	gs := e.State()

	// Drain the deck into the reclaimed pool, then draw through the refill.
	for {
		card := gs.Deck.Draw()
		if card == nil {
			break
		}
		gs.Reclaimed = append(gs.Reclaimed, card)
	}
	require.Equal(t, 0, e.GetDeckSize())
	require.NotEmpty(t, gs.Reclaimed)

	view := e.DrawCard()
	require.NotNil(t, view, "an exhausted deck refills from scored cards")
	assert.Empty(t, gs.Reclaimed)

	res := e.ValidateGameState()
	assert.True(t, res.Valid, "%v", res.Errors)
}
