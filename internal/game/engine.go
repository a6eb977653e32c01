// Package game exposes the public NPZR engine facade: one GameState behind a
// synchronous, single-writer API consumed by UI and AI layers alike.
package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/npzr-game/npzr-engine-go/internal/game/cards"
	"github.com/npzr-game/npzr-engine-go/internal/game/rules"
	"go.uber.org/zap"
)

const defaultHandSize = 5

// maxPlayers is fixed by the rules: NPZR is a two-seat game.
const maxPlayers = 2

// Option configures an Engine.
type Option func(*Engine)

// WithSeed fixes the RNG seed for reproducible shuffles. Zero keeps the
// time-based default.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithHandSize overrides the opening hand size.
func WithHandSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.handSize = n
		}
	}
}

// WithCascadeLimit overrides the cascade iteration cap.
func WithCascadeLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.cascadeLimit = n
		}
	}
}

// WithCardSet plays with a custom card set instead of the standard 44 cards.
func WithCardSet(set *cards.Set) Option {
	return func(e *Engine) {
		if set != nil {
			e.set = set
		}
	}
}

// Engine owns one GameState and exposes the public rules operations. It
// assumes single-writer access; the host serializes calls.
type Engine struct {
	logger       *zap.Logger
	seed         int64
	handSize     int
	cascadeLimit int
	set          *cards.Set
	state        *rules.GameState
	replay       *Replay
}

// NewEngine creates an engine with no game yet. A nil logger is replaced by
// a no-op logger.
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger:       logger,
		handSize:     defaultHandSize,
		cascadeLimit: rules.DefaultCascadeLimit,
		set:          cards.DefaultSet(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateGame builds a fresh game in the setup phase with a shuffled deck and
// no players seated yet.
func (e *Engine) CreateGame() error {
	deck, err := cards.NewDeck(e.set, e.seed)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	e.state = &rules.GameState{
		GameID:     uuid.NewString(),
		Deck:       deck,
		Phase:      rules.PhaseSetup,
		TotalCards: e.set.TotalCards(),
	}
	e.logger.Info("game created",
		zap.String("game_id", e.state.GameID),
		zap.String("card_set", e.set.Name),
		zap.Int("deck_size", deck.Size()),
	)
	return nil
}

// AddPlayer seats a player and returns their id. Once the second seat is
// filled the game deals opening hands and enters the playing phase. It fails
// when no game exists, the game has started, or both seats are taken.
func (e *Engine) AddPlayer(name string) (string, error) {
	if e.state == nil {
		return "", fmt.Errorf("add player: no game created")
	}
	if e.state.Phase != rules.PhaseSetup {
		return "", fmt.Errorf("add player: game already started")
	}
	if len(e.state.Players) >= maxPlayers {
		return "", fmt.Errorf("add player: game is full")
	}
	p := rules.NewPlayer(uuid.NewString(), name)
	e.state.Players = append(e.state.Players, p)
	e.logger.Info("player joined",
		zap.String("game_id", e.state.GameID),
		zap.String("player_id", p.ID),
		zap.String("name", name),
	)
	if len(e.state.Players) == maxPlayers {
		e.startGame()
	}
	return p.ID, nil
}

// startGame deals opening hands and opens play.
func (e *Engine) startGame() {
	for i := 0; i < e.handSize; i++ {
		for _, p := range e.state.Players {
			e.state.DrawForPlayer(p)
		}
	}
	e.state.Phase = rules.PhasePlaying
	e.state.Current = 0
	e.logger.Info("game started",
		zap.String("game_id", e.state.GameID),
		zap.Int("hand_size", e.handSize),
		zap.Int("deck_size", e.state.Deck.Size()),
	)
}

// Reset recreates the game with the same seats and configuration.
func (e *Engine) Reset() error {
	if e.state == nil {
		return fmt.Errorf("reset: no game created")
	}
	names := make([]string, 0, len(e.state.Players))
	for _, p := range e.state.Players {
		names = append(names, p.Name)
	}
	if err := e.CreateGame(); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := e.AddPlayer(name); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a fully independent engine for speculative simulation. The
// clone shares only the logger.
func (e *Engine) Clone() *Engine {
	cpy := &Engine{
		logger:       e.logger,
		seed:         e.seed,
		handSize:     e.handSize,
		cascadeLimit: e.cascadeLimit,
		set:          e.set,
	}
	if e.state != nil {
		cpy.state = e.state.Clone()
	}
	return cpy
}

// State exposes the owned GameState for rules-level consumers and tests.
// Mutating it outside the facade voids the single-writer assumption.
func (e *Engine) State() *rules.GameState {
	return e.state
}

// --- queries ---

// GetCurrentPlayer returns the acting player's id, or "" before setup ends.
func (e *Engine) GetCurrentPlayer() string {
	if e.state == nil || len(e.state.Players) < maxPlayers {
		return ""
	}
	return e.state.CurrentPlayer().ID
}

// GetPlayerHand returns views of the player's held cards.
func (e *Engine) GetPlayerHand(playerID string) []CardView {
	if e.state == nil {
		return nil
	}
	p := e.state.PlayerByID(playerID)
	if p == nil {
		return nil
	}
	views := make([]CardView, len(p.Hand))
	for i, card := range p.Hand {
		views[i] = newCardView(card)
	}
	return views
}

// GetPlayerScore returns the characters the player has completed, in
// canonical order.
func (e *Engine) GetPlayerScore(playerID string) []cards.Character {
	if e.state == nil {
		return nil
	}
	p := e.state.PlayerByID(playerID)
	if p == nil {
		return nil
	}
	return p.ScoredCharacters()
}

// GetStacks returns views of every stack in play.
func (e *Engine) GetStacks() []StackView {
	if e.state == nil {
		return nil
	}
	views := make([]StackView, len(e.state.Stacks))
	for i, s := range e.state.Stacks {
		views[i] = newStackView(s)
	}
	return views
}

// GetDeckSize returns the number of cards left in the draw pile.
func (e *Engine) GetDeckSize() int {
	if e.state == nil {
		return 0
	}
	return e.state.Deck.Size()
}

// GetPendingMoves returns the banked relocation credits.
func (e *Engine) GetPendingMoves() int {
	if e.state == nil {
		return 0
	}
	return e.state.PendingMoves
}

// IsGameFinished reports whether a winner has been decided.
func (e *Engine) IsGameFinished() bool {
	return e.state != nil && e.state.Finished()
}

// GetWinner returns the winning player's id, or false while the game runs.
func (e *Engine) GetWinner() (string, bool) {
	if e.state == nil || e.state.Winner == "" {
		return "", false
	}
	return e.state.Winner, true
}

// GetCurrentTurnState returns a view of the in-flight turn, or false between
// turns.
func (e *Engine) GetCurrentTurnState() (TurnView, bool) {
	if e.state == nil || e.state.Turn == nil {
		return TurnView{}, false
	}
	return newTurnView(e.state.Turn), true
}

// CanPlayAnotherCard reports whether the acting player may chain another
// play this turn.
func (e *Engine) CanPlayAnotherCard() bool {
	return e.state != nil && e.state.Turn != nil &&
		e.state.Turn.Phase == rules.TurnPhasePlayCard && e.state.Turn.CanContinue
}

// IsAwaitingMove reports whether the machine is waiting on move-or-skip.
func (e *Engine) IsAwaitingMove() bool {
	return e.state != nil && e.state.Turn != nil &&
		e.state.Turn.Phase == rules.TurnPhaseAwaitMove
}

// GetPossibleNominations enumerates the legal nominations for a card in the
// acting player's hand or on any stack.
func (e *Engine) GetPossibleNominations(cardID string) []cards.Nomination {
	card := e.findCard(cardID)
	if card == nil {
		return nil
	}
	return cards.PossibleNominations(card)
}

// --- mutations ---

// DrawCard draws one card into the acting player's hand and returns a view
// of it, or nil on irrecoverable deck exhaustion.
func (e *Engine) DrawCard() *CardView {
	if e.state == nil || e.state.Finished() || len(e.state.Players) < maxPlayers {
		return nil
	}
	card := e.state.DrawForPlayer(e.state.CurrentPlayer())
	e.recordEvent(ReplayEvent{Kind: EventDraw})
	if card == nil {
		e.logger.Debug("draw failed, deck exhausted", zap.String("game_id", e.state.GameID))
		return nil
	}
	view := newCardView(card)
	return &view
}

// NominateWildCard assigns a nomination to a wild card held by the acting
// player or sitting on a stack. Illegal nominations are rejected without
// touching the card.
func (e *Engine) NominateWildCard(cardID string, nom cards.Nomination) bool {
	if e.state == nil || e.state.Finished() {
		return false
	}
	card := e.findCard(cardID)
	if card == nil {
		return false
	}
	ok := cards.Nominate(card, nom.Character, nom.BodyPart)
	e.recordEvent(ReplayEvent{Kind: EventNominate, CardID: cardID, Nomination: nom})
	if ok {
		e.logger.Debug("wild card nominated",
			zap.String("card", cardID),
			zap.Stringer("character", nom.Character),
			zap.Stringer("body_part", nom.BodyPart),
		)
	}
	return ok
}

// findCard looks the card up in the acting player's hand first, then on
// every stack.
func (e *Engine) findCard(cardID string) *cards.Card {
	if e.state == nil {
		return nil
	}
	if len(e.state.Players) == maxPlayers {
		if card := e.state.CurrentPlayer().CardInHand(cardID); card != nil {
			return card
		}
	}
	for _, s := range e.state.Stacks {
		for _, bp := range cards.BodyParts() {
			for _, card := range s.Piles[bp].Cards {
				if card.ID == cardID {
					return card
				}
			}
		}
	}
	return nil
}

// StartTurn begins the acting player's turn.
func (e *Engine) StartTurn() rules.TurnSignal {
	if e.state == nil || len(e.state.Players) < maxPlayers {
		return rules.SignalEndTurn
	}
	sig := rules.StartTurn(e.state)
	e.recordEvent(ReplayEvent{Kind: EventStartTurn})
	e.logger.Debug("turn started",
		zap.String("game_id", e.state.GameID),
		zap.String("player", e.GetCurrentPlayer()),
		zap.String("signal", string(sig)),
	)
	return sig
}

// PlayCard plays one card through the sequential turn machine.
func (e *Engine) PlayCard(action rules.PlayAction) rules.TurnSignal {
	if e.state == nil {
		return rules.SignalEndTurn
	}
	sig := rules.PlayCard(e.state, action)
	e.recordEvent(ReplayEvent{Kind: EventPlayCard, Play: action})
	e.logger.Debug("card played",
		zap.String("card", action.CardID),
		zap.String("signal", string(sig)),
		zap.Int("pending_moves", e.state.PendingMoves),
	)
	return sig
}

// ExecuteTurnMove spends a banked move while the machine awaits one.
func (e *Engine) ExecuteTurnMove(mv rules.MoveAction) rules.TurnSignal {
	sig, _ := e.executeTurnMove(mv)
	return sig
}

// executeTurnMove records the move and reports whether the rules layer
// accepted it.
func (e *Engine) executeTurnMove(mv rules.MoveAction) (rules.TurnSignal, bool) {
	if e.state == nil {
		return rules.SignalEndTurn, false
	}
	sig, ok := rules.ExecuteTurnMove(e.state, mv)
	e.recordEvent(ReplayEvent{Kind: EventTurnMove, Move: mv})
	return sig, ok
}

// SkipMove declines the awaited move without forfeiting the credit.
func (e *Engine) SkipMove() rules.TurnSignal {
	if e.state == nil {
		return rules.SignalEndTurn
	}
	sig := rules.SkipMove(e.state)
	e.recordEvent(ReplayEvent{Kind: EventSkipMove})
	return sig
}

// EndTurn closes an open turn when the acting player declines to chain
// another play. It is rejected (signalling continue) while a move is
// awaited; move-or-skip must resolve that first.
func (e *Engine) EndTurn() rules.TurnSignal {
	if e.state == nil || e.state.Finished() {
		return rules.SignalEndTurn
	}
	if e.state.Turn == nil {
		return rules.SignalEndTurn
	}
	if e.state.Turn.Phase == rules.TurnPhaseAwaitMove {
		return rules.SignalContinue
	}
	e.forfeitTurn()
	e.recordEvent(ReplayEvent{Kind: EventEndTurn})
	return rules.SignalEndTurn
}

// ExecuteMove performs one banked relocation. With no banked credit it
// returns false and changes nothing. While the turn machine awaits a move
// the relocation flows through it; otherwise the credit is consumed directly
// and completions are reprocessed.
func (e *Engine) ExecuteMove(mv rules.MoveAction) bool {
	if e.state == nil || e.state.Finished() || e.state.PendingMoves <= 0 {
		return false
	}
	if e.IsAwaitingMove() {
		_, ok := e.executeTurnMove(mv)
		return ok
	}
	if !rules.ExecuteMove(e.state, mv) {
		return false
	}
	e.state.PendingMoves--
	rules.ProcessStackCompletions(e.state)
	e.recordEvent(ReplayEvent{Kind: EventRawMove, Move: mv})
	return true
}

// PlayTurn runs a whole turn in one call: start, play the main action,
// resolve any awaited moves with the fixed cascade heuristic, then play the
// chained wild follow-ups while the turn stays alive. It returns true iff
// the main action was played.
func (e *Engine) PlayTurn(action rules.PlayAction, chained ...rules.PlayAction) bool {
	if e.state == nil || e.state.Finished() {
		return false
	}
	if sig := e.StartTurn(); sig == rules.SignalEndTurn {
		return false
	}
	if !e.playAndResolve(action) {
		// The main play was rejected; surrender the turn so the opponent is
		// not blocked by a stuck machine.
		e.EndTurn()
		return false
	}
	for _, next := range chained {
		if e.state.Turn == nil || !e.CanPlayAnotherCard() {
			break
		}
		if !e.playAndResolve(next) {
			e.logger.Debug("chained play rejected", zap.String("card", next.CardID))
			break
		}
	}
	// A turn left alive by a fast card ends here unless a caller-visible
	// await is still pending.
	if e.state.Turn != nil && e.state.Turn.Phase == rules.TurnPhasePlayCard {
		e.EndTurn()
	}
	return true
}

// playAndResolve plays one card and consumes any resulting awaited moves via
// the cascade heuristic, skipping when no relocation helps.
func (e *Engine) playAndResolve(action rules.PlayAction) bool {
	played := 0
	if e.state.Turn != nil {
		played = len(e.state.Turn.CardsPlayed)
	}
	sig := e.PlayCard(action)
	if sig == rules.SignalEndTurn {
		return true
	}
	if e.state.Turn == nil || len(e.state.Turn.CardsPlayed) == played {
		return false // rejected
	}
	for i := 0; i < e.cascadeLimit && e.IsAwaitingMove(); i++ {
		if mv, ok := rules.FindCompletingMove(e.state); ok {
			e.ExecuteTurnMove(mv)
			continue
		}
		e.SkipMove()
	}
	return true
}

// forfeitTurn ends a still-open turn by handing play to the other seat.
func (e *Engine) forfeitTurn() {
	if e.state.Turn == nil || e.state.Finished() {
		return
	}
	e.state.Turn = nil
	e.state.SwitchPlayer()
}
