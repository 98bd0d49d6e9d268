package server

import (
	"testing"

	"github.com/google/uuid"
)

func TestLobbyAdd(t *testing.T) {
	l := NewLobby(2, 3)

	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	if err := l.Add(a, "alice"); err != nil {
		t.Fatal(err)
	}
	if err := l.Add(b, "bob"); err != nil {
		t.Fatal(err)
	}

	if err := l.Add(c, "alice"); err != ErrNameTaken {
		t.Errorf("duplicate name: got %v, want ErrNameTaken", err)
	}

	if err := l.Add(c, "carol"); err != nil {
		t.Fatal(err)
	}
	if err := l.Add(d, "dave"); err != ErrLobbyFull {
		t.Errorf("over capacity: got %v, want ErrLobbyFull", err)
	}

	if l.Len() != 3 {
		t.Errorf("len = %d, want 3", l.Len())
	}
	if !l.Has(a) || l.Has(d) {
		t.Error("membership reported incorrectly")
	}
}

func TestLobbyCanStart(t *testing.T) {
	l := NewLobby(2, 4)
	a, b := uuid.New(), uuid.New()
	l.Add(a, "alice")

	l.SetReady(a)
	if l.CanStart() {
		t.Error("one ready player below minimum should not start")
	}

	l.Add(b, "bob")
	if l.CanStart() {
		t.Error("unready player should block the start")
	}

	l.SetReady(b)
	if !l.CanStart() {
		t.Error("all ready at minimum should start")
	}
}

func TestLobbyRemove(t *testing.T) {
	l := NewLobby(2, 4)
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	l.Add(a, "alice")
	l.Add(b, "bob")
	l.Add(c, "carol")
	l.SetReady(a)
	l.SetReady(c)

	// The only unready player leaving unblocks the start.
	l.Remove(b)
	if l.Has(b) || l.Len() != 2 {
		t.Error("removed player still present")
	}
	if !l.CanStart() {
		t.Error("remaining ready players should be able to start")
	}

	// The name is free again.
	if err := l.Add(uuid.New(), "bob"); err != nil {
		t.Errorf("rejoining with a freed name failed: %v", err)
	}
}

func TestLobbyRoster(t *testing.T) {
	l := NewLobby(2, 4)
	a, b := uuid.New(), uuid.New()
	l.Add(a, "alice")
	l.Add(b, "bob")

	roster := l.Roster()
	if len(roster) != 2 {
		t.Fatalf("roster has %d entries, want 2", len(roster))
	}
	if roster[0].ID != a || roster[0].Name != "alice" {
		t.Errorf("roster[0] = %+v", roster[0])
	}
	if roster[1].ID != b || roster[1].Name != "bob" {
		t.Errorf("roster[1] = %+v", roster[1])
	}
}

func TestLobbyBuildPlayers(t *testing.T) {
	l := NewLobby(2, 4)
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	l.Add(a, "alice")
	l.Add(b, "bob")
	l.Add(c, "carol")

	players := l.BuildPlayers([]int{2, 0, 1})
	if len(players) != 3 {
		t.Fatalf("built %d players, want 3", len(players))
	}
	if players[0].ID != c || players[1].ID != a || players[2].ID != b {
		t.Error("players not in permuted order")
	}
	if players[0].Name != "carol" {
		t.Errorf("players[0].Name = %q, want carol", players[0].Name)
	}
}
