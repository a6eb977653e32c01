package game

import (
	"github.com/npzr-game/npzr-engine-go/internal/game/cards"
	"github.com/npzr-game/npzr-engine-go/internal/game/rules"
)

// CardView is a read-only snapshot of one card.
type CardView struct {
	ID                 string
	Type               cards.CardType
	Character          cards.Character
	BodyPart           cards.BodyPart
	Fast               bool
	Nominated          bool
	NominatedCharacter cards.Character
	NominatedBodyPart  cards.BodyPart
}

func newCardView(card *cards.Card) CardView {
	view := CardView{
		ID:        card.ID,
		Type:      card.Type,
		Character: card.Character,
		BodyPart:  card.BodyPart,
		Fast:      card.IsFastCard(),
	}
	if card.Nomination != nil {
		view.Nominated = true
		view.NominatedCharacter = card.Nomination.Character
		view.NominatedBodyPart = card.Nomination.BodyPart
	}
	return view
}

// PileView is a read-only snapshot of one pile, bottom card first.
type PileView struct {
	BodyPart cards.BodyPart
	Cards    []CardView
}

// StackView is a read-only snapshot of one stack.
type StackView struct {
	ID       string
	Owner    string
	Piles    []PileView
	Complete bool
	// CompletingCharacter is meaningful only when Complete is true.
	CompletingCharacter cards.Character
}

func newStackView(s *rules.Stack) StackView {
	view := StackView{
		ID:    s.ID,
		Owner: s.Owner,
		Piles: make([]PileView, 0, 3),
	}
	for _, bp := range cards.BodyParts() {
		pile := s.Piles[bp]
		pv := PileView{
			BodyPart: bp,
			Cards:    make([]CardView, len(pile.Cards)),
		}
		for i, card := range pile.Cards {
			pv.Cards[i] = newCardView(card)
		}
		view.Piles = append(view.Piles, pv)
	}
	if ch, ok := s.CompletionCharacter(); ok {
		view.Complete = true
		view.CompletingCharacter = ch
	}
	return view
}

// TurnView is a read-only snapshot of the in-flight turn.
type TurnView struct {
	Phase           rules.TurnPhase
	CardsPlayed     []string // card ids in play order
	LastCardWasWild bool
	MovesEarned     int
	CanContinue     bool
	HasDrawn        bool
}

func newTurnView(t *rules.TurnState) TurnView {
	view := TurnView{
		Phase:           t.Phase,
		CardsPlayed:     make([]string, len(t.CardsPlayed)),
		LastCardWasWild: t.LastCardWasWild,
		MovesEarned:     t.MovesEarned,
		CanContinue:     t.CanContinue,
		HasDrawn:        t.HasDrawn,
	}
	for i, card := range t.CardsPlayed {
		view.CardsPlayed[i] = card.ID
	}
	return view
}

// PlayerView is a read-only snapshot of one seat. Hand contents are included
// only for the requesting player; opponents see the count.
type PlayerView struct {
	ID        string
	Name      string
	HandCount int
	Hand      []CardView
	Scored    []cards.Character
}

// GameView is a complete snapshot of the game for the given player's
// perspective.
type GameView struct {
	GameID        string
	Phase         rules.GamePhase
	CurrentPlayer string
	Players       []PlayerView
	Stacks        []StackView
	DeckSize      int
	PendingMoves  int
	Winner        string
	Turn          *TurnView
}

// GetGameView snapshots the whole game from one player's perspective.
func (e *Engine) GetGameView(playerID string) GameView {
	if e.state == nil {
		return GameView{}
	}
	view := GameView{
		GameID:       e.state.GameID,
		Phase:        e.state.Phase,
		DeckSize:     e.state.Deck.Size(),
		PendingMoves: e.state.PendingMoves,
		Winner:       e.state.Winner,
		Stacks:       e.GetStacks(),
	}
	if len(e.state.Players) == maxPlayers {
		view.CurrentPlayer = e.state.CurrentPlayer().ID
	}
	for _, p := range e.state.Players {
		pv := PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			HandCount: len(p.Hand),
			Scored:    p.ScoredCharacters(),
		}
		if p.ID == playerID {
			pv.Hand = e.GetPlayerHand(p.ID)
		}
		view.Players = append(view.Players, pv)
	}
	if e.state.Turn != nil {
		tv := newTurnView(e.state.Turn)
		view.Turn = &tv
	}
	return view
}
