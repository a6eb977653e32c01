package rules

import (
	"testing"

	"github.com/npzr-game/npzr-engine-go/internal/game/cards"
)

// nearComplete builds a stack for the given owner holding a matching head and
// torso, leaving the legs pile open.
func nearComplete(owner string, ch cards.Character, prefix string) *Stack {
	s := NewStack(owner)
	s.AddCard(regularCard(prefix+"-head", ch, cards.BodyPartHead), cards.BodyPartHead)
	s.AddCard(regularCard(prefix+"-torso", ch, cards.BodyPartTorso), cards.BodyPartTorso)
	return s
}

func TestExecuteMoveToExistingStack(t *testing.T) {
	gs := newTestState()
	src := NewStack("p1")
	card := regularCard("ninja-legs-1", cards.CharacterNinja, cards.BodyPartLegs)
	src.AddCard(card, cards.BodyPartLegs)
	dest := NewStack("p1")
	dest.AddCard(regularCard("pirate-head-1", cards.CharacterPirate, cards.BodyPartHead), cards.BodyPartHead)
	gs.Stacks = []*Stack{src, dest}

	ok := ExecuteMove(gs, MoveAction{
		CardID:      card.ID,
		FromStackID: src.ID,
		FromPile:    cards.BodyPartLegs,
		ToStackID:   dest.ID,
		ToPile:      cards.BodyPartLegs,
	})
	if !ok {
		t.Fatal("legal move rejected")
	}

	// Source emptied out and was purged.
	if len(gs.Stacks) != 1 || gs.Stacks[0].ID != dest.ID {
		t.Fatalf("stacks after move = %d, want only destination", len(gs.Stacks))
	}
	pile, _ := dest.Pile(cards.BodyPartLegs)
	if top := pile.Top(); top == nil || top.ID != card.ID {
		t.Fatal("card did not arrive at destination pile")
	}
}

func TestExecuteMoveCreatesNewStack(t *testing.T) {
	gs := newTestState()
	src := NewStack("p2")
	card := regularCard("robot-head-1", cards.CharacterRobot, cards.BodyPartHead)
	src.AddCard(card, cards.BodyPartHead)
	src.AddCard(regularCard("robot-torso-1", cards.CharacterRobot, cards.BodyPartTorso), cards.BodyPartTorso)
	gs.Stacks = []*Stack{src}

	ok := ExecuteMove(gs, MoveAction{
		CardID:      card.ID,
		FromStackID: src.ID,
		FromPile:    cards.BodyPartHead,
		ToStackID:   NewStackTarget,
		ToPile:      cards.BodyPartHead,
	})
	if !ok {
		t.Fatal("move to new stack rejected")
	}
	if len(gs.Stacks) != 2 {
		t.Fatalf("stacks = %d, want 2", len(gs.Stacks))
	}
	// The fresh stack belongs to the mover's current player, not the source owner.
	created := gs.Stacks[1]
	if created.Owner != "p1" {
		t.Fatalf("new stack owner = %s, want p1", created.Owner)
	}
}

func TestExecuteMoveClearsNomination(t *testing.T) {
	gs := newTestState()
	src := NewStack("p1")
	wild := universalCard("wild-universal-1")
	cards.Nominate(wild, cards.CharacterNinja, cards.BodyPartLegs)
	src.AddCard(wild, cards.BodyPartLegs)
	src.AddCard(regularCard("pirate-head-1", cards.CharacterPirate, cards.BodyPartHead), cards.BodyPartHead)
	dest := NewStack("p1")
	dest.AddCard(regularCard("zombie-head-1", cards.CharacterZombie, cards.BodyPartHead), cards.BodyPartHead)
	gs.Stacks = []*Stack{src, dest}

	ok := ExecuteMove(gs, MoveAction{
		CardID:      wild.ID,
		FromStackID: src.ID,
		FromPile:    cards.BodyPartLegs,
		ToStackID:   dest.ID,
		ToPile:      cards.BodyPartLegs,
	})
	if !ok {
		t.Fatal("move rejected")
	}
	if wild.Nomination != nil {
		t.Fatal("moving a wild card must invalidate its nomination")
	}
}

func TestExecuteMoveFailuresLeaveStateUntouched(t *testing.T) {
	gs := newTestState()
	src := NewStack("p1")
	wild := universalCard("wild-universal-1")
	cards.Nominate(wild, cards.CharacterNinja, cards.BodyPartLegs)
	src.AddCard(wild, cards.BodyPartLegs)
	gs.Stacks = []*Stack{src}

	tests := []struct {
		name string
		mv   MoveAction
	}{
		{"missing source stack", MoveAction{CardID: wild.ID, FromStackID: "nope", FromPile: cards.BodyPartLegs, ToStackID: NewStackTarget, ToPile: cards.BodyPartLegs}},
		{"missing card", MoveAction{CardID: "nope", FromStackID: src.ID, FromPile: cards.BodyPartLegs, ToStackID: NewStackTarget, ToPile: cards.BodyPartLegs}},
		{"wrong source pile", MoveAction{CardID: wild.ID, FromStackID: src.ID, FromPile: cards.BodyPartHead, ToStackID: NewStackTarget, ToPile: cards.BodyPartLegs}},
		{"missing destination", MoveAction{CardID: wild.ID, FromStackID: src.ID, FromPile: cards.BodyPartLegs, ToStackID: "nope", ToPile: cards.BodyPartLegs}},
		{"sentinel destination pile", MoveAction{CardID: wild.ID, FromStackID: src.ID, FromPile: cards.BodyPartLegs, ToStackID: NewStackTarget, ToPile: cards.BodyPartWild}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ExecuteMove(gs, tt.mv) {
				t.Fatal("illegal move accepted")
			}
			if len(gs.Stacks) != 1 {
				t.Fatalf("stack count changed: %d", len(gs.Stacks))
			}
			pile, _ := src.Pile(cards.BodyPartLegs)
			top := pile.Top()
			if top == nil || top.ID != wild.ID {
				t.Fatal("card not restored to its origin")
			}
			if top.Nomination == nil {
				t.Fatal("failed move must return the card unchanged, nomination included")
			}
		})
	}
}

func TestCompleteStackScoresAndReclaims(t *testing.T) {
	gs := newTestState()
	s := nearComplete("p1", cards.CharacterNinja, "ninja")
	s.AddCard(regularCard("ninja-legs", cards.CharacterNinja, cards.BodyPartLegs), cards.BodyPartLegs)
	gs.Stacks = []*Stack{s}

	ch, ok := CompleteStack(gs, s.ID)
	if !ok || ch != cards.CharacterNinja {
		t.Fatalf("CompleteStack = %s, %t; want NINJA, true", ch, ok)
	}
	if !gs.PlayerByID("p1").HasScored(cards.CharacterNinja) {
		t.Fatal("owner did not score the character")
	}
	if len(gs.Stacks) != 0 {
		t.Fatal("completed stack must leave play")
	}
	if gs.PendingMoves != 1 {
		t.Fatalf("pending moves = %d, want 1", gs.PendingMoves)
	}
	if len(gs.Reclaimed) != 3 {
		t.Fatalf("reclaimed = %d cards, want 3", len(gs.Reclaimed))
	}
}

func TestCompleteStackRejectsIncomplete(t *testing.T) {
	gs := newTestState()
	s := nearComplete("p1", cards.CharacterNinja, "ninja")
	gs.Stacks = []*Stack{s}

	if _, ok := CompleteStack(gs, s.ID); ok {
		t.Fatal("incomplete stack completed")
	}
	if _, ok := CompleteStack(gs, "missing"); ok {
		t.Fatal("missing stack completed")
	}
	if gs.PendingMoves != 0 {
		t.Fatal("rejected completion must not award moves")
	}
}

func TestProcessStackCompletionsResolvesAll(t *testing.T) {
	gs := newTestState()
	ninja := nearComplete("p1", cards.CharacterNinja, "ninja")
	ninja.AddCard(regularCard("ninja-legs", cards.CharacterNinja, cards.BodyPartLegs), cards.BodyPartLegs)
	robot := nearComplete("p2", cards.CharacterRobot, "robot")
	robot.AddCard(regularCard("robot-legs", cards.CharacterRobot, cards.BodyPartLegs), cards.BodyPartLegs)
	open := nearComplete("p1", cards.CharacterPirate, "pirate")
	gs.Stacks = []*Stack{ninja, robot, open}

	completed := ProcessStackCompletions(gs)
	if len(completed) != 2 {
		t.Fatalf("completed %d stacks, want 2", len(completed))
	}
	if len(gs.Stacks) != 1 || gs.Stacks[0].ID != open.ID {
		t.Fatal("only the open stack should survive")
	}
	if gs.PendingMoves != 2 {
		t.Fatalf("pending moves = %d, want 2", gs.PendingMoves)
	}
}

func TestProcessStackCompletionsDetectsWin(t *testing.T) {
	gs := newTestState()
	p1 := gs.PlayerByID("p1")
	p1.ScoreCharacter(cards.CharacterPirate)
	p1.ScoreCharacter(cards.CharacterZombie)
	p1.ScoreCharacter(cards.CharacterRobot)

	s := nearComplete("p1", cards.CharacterNinja, "ninja")
	s.AddCard(regularCard("ninja-legs", cards.CharacterNinja, cards.BodyPartLegs), cards.BodyPartLegs)
	gs.Stacks = []*Stack{s}

	ProcessStackCompletions(gs)
	if gs.Phase != PhaseFinished {
		t.Fatal("game must finish when a player owns all four characters")
	}
	if gs.Winner != "p1" {
		t.Fatalf("winner = %s, want p1", gs.Winner)
	}
}

func TestFindCompletingMove(t *testing.T) {
	gs := newTestState()
	dest := nearComplete("p1", cards.CharacterZombie, "zombie")
	src := NewStack("p2")
	legs := regularCard("zombie-legs-1", cards.CharacterZombie, cards.BodyPartLegs)
	src.AddCard(legs, cards.BodyPartLegs)
	gs.Stacks = []*Stack{dest, src}

	mv, ok := FindCompletingMove(gs)
	if !ok {
		t.Fatal("no completing move found")
	}
	if mv.CardID != legs.ID || mv.ToStackID != dest.ID || mv.ToPile != cards.BodyPartLegs {
		t.Fatalf("unexpected move %+v", mv)
	}
}

func TestExecuteOptimalMoveConsumesCredit(t *testing.T) {
	gs := newTestState()
	dest := nearComplete("p1", cards.CharacterZombie, "zombie")
	src := NewStack("p2")
	src.AddCard(regularCard("zombie-legs-1", cards.CharacterZombie, cards.BodyPartLegs), cards.BodyPartLegs)
	gs.Stacks = []*Stack{dest, src}
	gs.PendingMoves = 1

	if !ExecuteOptimalMove(gs) {
		t.Fatal("optimal move rejected with credit banked and completion available")
	}
	// The move completed the zombie stack: one credit spent, one earned.
	if gs.PendingMoves != 1 {
		t.Fatalf("pending moves = %d, want 1", gs.PendingMoves)
	}
	if !gs.PlayerByID("p1").HasScored(cards.CharacterZombie) {
		t.Fatal("completion after move did not score")
	}

	// No helpful relocation left: the remaining credit stays banked.
	if ExecuteOptimalMove(gs) {
		t.Fatal("optimal move must decline when nothing completes")
	}
}

func TestExecuteOptimalMoveRequiresCredit(t *testing.T) {
	gs := newTestState()
	gs.Stacks = []*Stack{nearComplete("p1", cards.CharacterZombie, "zombie")}
	if ExecuteOptimalMove(gs) {
		t.Fatal("optimal move must fail with no pending moves")
	}
}

func TestCascadeCompletionsTerminatesUnderArtificialCredit(t *testing.T) {
	gs := newTestState()
	dest := nearComplete("p1", cards.CharacterZombie, "zombie")
	src := NewStack("p2")
	src.AddCard(regularCard("zombie-legs-1", cards.CharacterZombie, cards.BodyPartLegs), cards.BodyPartLegs)
	gs.Stacks = []*Stack{dest, src}
	gs.PendingMoves = 1_000_000

	executed := CascadeCompletions(gs, DefaultCascadeLimit)
	if executed > DefaultCascadeLimit {
		t.Fatalf("cascade executed %d moves, cap is %d", executed, DefaultCascadeLimit)
	}
}
