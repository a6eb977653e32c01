package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/npzr-game/npzr-engine-go/internal/game/cards"
	"github.com/npzr-game/npzr-engine-go/internal/game/rules"
	"go.uber.org/zap"
)

// ReplayEventKind names one recorded engine operation.
type ReplayEventKind int

const (
	EventStartTurn ReplayEventKind = iota
	EventDraw
	EventNominate
	EventPlayCard
	EventTurnMove
	EventSkipMove
	EventEndTurn
	EventRawMove
)

var replayEventNames = map[ReplayEventKind]string{
	EventStartTurn: "START_TURN",
	EventDraw:      "DRAW",
	EventNominate:  "NOMINATE",
	EventPlayCard:  "PLAY_CARD",
	EventTurnMove:  "TURN_MOVE",
	EventSkipMove:  "SKIP_MOVE",
	EventEndTurn:   "END_TURN",
	EventRawMove:   "RAW_MOVE",
}

func (k ReplayEventKind) String() string {
	if name, ok := replayEventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EVENT_%d", int(k))
}

// ReplayEvent is one recorded operation with the state checksum taken after
// it was applied. Re-executing the event sequence on an equally seeded game
// must reproduce every checksum.
type ReplayEvent struct {
	Kind       ReplayEventKind
	Play       rules.PlayAction
	Move       rules.MoveAction
	CardID     string
	Nomination cards.Nomination
	Checksum   string
}

// ReplaySeat records one seated player so a replayed game can reuse the
// original ids.
type ReplaySeat struct {
	ID   string
	Name string
}

// Replay is a recorded game: the seed and seats needed to rebuild the opening
// position plus the ordered operation log. Card ids are deterministic per
// set, so the log fully determines the game.
type Replay struct {
	GameID   string
	Seed     int64
	HandSize int
	Seats    []ReplaySeat
	Events   []ReplayEvent

	cursor int
	mu     sync.RWMutex
}

// NewReplay creates an empty replay shell.
func NewReplay(gameID string) *Replay {
	return &Replay{GameID: gameID}
}

func (r *Replay) record(ev ReplayEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, ev)
}

// Size returns the number of recorded events.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Events)
}

// Rewind resets the playback cursor to the beginning.
func (r *Replay) Rewind() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursor = 0
}

// Next returns the event under the cursor and advances, or nil at the end.
// The returned pointer aliases the live event slice and stays valid only
// until the next recorded append.
func (r *Replay) Next() *ReplayEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cursor >= len(r.Events) {
		return nil
	}
	ev := &r.Events[r.cursor]
	r.cursor++
	return ev
}

// Previous steps the cursor back and returns the event there, or nil at the
// beginning. Like Next, the pointer is invalidated by the next recorded
// append.
func (r *Replay) Previous() *ReplayEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cursor <= 0 {
		return nil
	}
	r.cursor--
	return &r.Events[r.cursor]
}

// EventAt returns the event at the given index, or nil when out of range.
// Like Next, the pointer is invalidated by the next recorded append.
func (r *Replay) EventAt(index int) *ReplayEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.Events) {
		return nil
	}
	return &r.Events[index]
}

// replayMetadata heads a saved replay file.
type replayMetadata struct {
	GameID     string
	Timestamp  time.Time
	Version    int
	EventCount int
}

const replayFileVersion = 1

// SaveToFile writes the replay as a gzipped gob stream named after the game.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("save replay: %w", err)
	}
	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", r.GameID))
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save replay: %w", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	defer gz.Close()
	enc := gob.NewEncoder(gz)

	meta := replayMetadata{
		GameID:     r.GameID,
		Timestamp:  time.Now(),
		Version:    replayFileVersion,
		EventCount: len(r.Events),
	}
	if err := enc.Encode(&meta); err != nil {
		return fmt.Errorf("save replay metadata: %w", err)
	}
	header := struct {
		Seed     int64
		HandSize int
		Seats    []ReplaySeat
	}{r.Seed, r.HandSize, r.Seats}
	if err := enc.Encode(&header); err != nil {
		return fmt.Errorf("save replay header: %w", err)
	}
	for i := range r.Events {
		if err := enc.Encode(&r.Events[i]); err != nil {
			return fmt.Errorf("save replay event %d: %w", i, err)
		}
	}
	return nil
}

// LoadReplayFromFile reads a replay previously written by SaveToFile.
func LoadReplayFromFile(directory, gameID string) (*Replay, error) {
	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", gameID))
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("load replay: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("load replay: %w", err)
	}
	defer gz.Close()
	dec := gob.NewDecoder(gz)

	var meta replayMetadata
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("load replay metadata: %w", err)
	}
	if meta.Version != replayFileVersion {
		return nil, fmt.Errorf("unsupported replay version %d", meta.Version)
	}
	var header struct {
		Seed     int64
		HandSize int
		Seats    []ReplaySeat
	}
	if err := dec.Decode(&header); err != nil {
		return nil, fmt.Errorf("load replay header: %w", err)
	}

	replay := NewReplay(meta.GameID)
	replay.Seed = header.Seed
	replay.HandSize = header.HandSize
	replay.Seats = header.Seats
	for i := 0; i < meta.EventCount; i++ {
		var ev ReplayEvent
		if err := dec.Decode(&ev); err != nil {
			return nil, fmt.Errorf("load replay event %d: %w", i, err)
		}
		replay.Events = append(replay.Events, ev)
	}
	return replay, nil
}

// StartRecording begins logging every mutation on the running game. It fails
// before the game starts, and on a time-based seed, which a replay could not
// reproduce.
func (e *Engine) StartRecording() error {
	if e.state == nil || e.state.Phase == rules.PhaseSetup {
		return fmt.Errorf("start recording: game not started")
	}
	if e.seed == 0 {
		return fmt.Errorf("start recording: reproducible games need a fixed seed")
	}
	replay := NewReplay(e.state.GameID)
	replay.Seed = e.seed
	replay.HandSize = e.handSize
	for _, p := range e.state.Players {
		replay.Seats = append(replay.Seats, ReplaySeat{ID: p.ID, Name: p.Name})
	}
	e.replay = replay
	e.logger.Info("replay recording started", zap.String("game_id", e.state.GameID))
	return nil
}

// StopRecording detaches and returns the recorded replay, or nil when no
// recording was running.
func (e *Engine) StopRecording() *Replay {
	replay := e.replay
	e.replay = nil
	if replay != nil {
		e.logger.Info("replay recording stopped",
			zap.String("game_id", replay.GameID),
			zap.Int("events", replay.Size()),
		)
	}
	return replay
}

// IsRecording reports whether a replay log is attached.
func (e *Engine) IsRecording() bool {
	return e.replay != nil
}

// recordEvent appends the event with the post-state checksum. No-op unless
// recording.
func (e *Engine) recordEvent(ev ReplayEvent) {
	if e.replay == nil {
		return
	}
	ev.Checksum = e.Checksum()
	e.replay.record(ev)
}

// ReplayGame re-executes a recorded game on a fresh engine, verifying the
// state checksum after every event. The returned engine holds the final
// position.
func ReplayGame(logger *zap.Logger, replay *Replay) (*Engine, error) {
	if len(replay.Seats) != maxPlayers {
		return nil, fmt.Errorf("replay game: %d seats recorded, want %d", len(replay.Seats), maxPlayers)
	}
	e := NewEngine(logger, WithSeed(replay.Seed), WithHandSize(replay.HandSize))
	if err := e.CreateGame(); err != nil {
		return nil, fmt.Errorf("replay game: %w", err)
	}
	// Reuse the recorded ids so checksums line up.
	e.state.GameID = replay.GameID
	for _, seat := range replay.Seats {
		e.state.Players = append(e.state.Players, rules.NewPlayer(seat.ID, seat.Name))
	}
	e.startGame()

	for i := range replay.Events {
		ev := &replay.Events[i]
		switch ev.Kind {
		case EventStartTurn:
			e.StartTurn()
		case EventDraw:
			e.DrawCard()
		case EventNominate:
			e.NominateWildCard(ev.CardID, ev.Nomination)
		case EventPlayCard:
			e.PlayCard(ev.Play)
		case EventTurnMove:
			e.ExecuteTurnMove(ev.Move)
		case EventSkipMove:
			e.SkipMove()
		case EventEndTurn:
			e.EndTurn()
		case EventRawMove:
			e.ExecuteMove(ev.Move)
		default:
			return nil, fmt.Errorf("replay game: unknown event kind %d at %d", ev.Kind, i)
		}
		if got := e.Checksum(); got != ev.Checksum {
			return nil, fmt.Errorf("replay game: checksum diverged at event %d (%s)", i, ev.Kind)
		}
	}
	return e, nil
}
