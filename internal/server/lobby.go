package server

import (
	"errors"

	"github.com/KDT2006/termdice/internal/game"
	"github.com/KDT2006/termdice/internal/protocol"
	"github.com/google/uuid"
)

var (
	ErrLobbyFull = errors.New("lobby is full")
	ErrNameTaken = errors.New("name already taken")
)

// Lobby tracks pre-game membership and readiness. Once the match starts the
// coordinator stops routing mutations here.
type Lobby struct {
	min, max int
	order    []uuid.UUID // join order
	names    map[uuid.UUID]string
	ready    map[uuid.UUID]bool
}

func NewLobby(min, max int) *Lobby {
	return &Lobby{
		min:   min,
		max:   max,
		names: make(map[uuid.UUID]string),
		ready: make(map[uuid.UUID]bool),
	}
}

func (l *Lobby) Add(id uuid.UUID, name string) error {
	if len(l.order) >= l.max {
		return ErrLobbyFull
	}
	for _, existing := range l.names {
		if existing == name {
			return ErrNameTaken
		}
	}

	l.order = append(l.order, id)
	l.names[id] = name
	return nil
}

func (l *Lobby) Remove(id uuid.UUID) {
	if _, ok := l.names[id]; !ok {
		return
	}

	delete(l.names, id)
	delete(l.ready, id)
	for i, member := range l.order {
		if member == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

func (l *Lobby) Has(id uuid.UUID) bool {
	_, ok := l.names[id]
	return ok
}

func (l *Lobby) SetReady(id uuid.UUID) {
	if l.Has(id) {
		l.ready[id] = true
	}
}

func (l *Lobby) Len() int {
	return len(l.order)
}

// CanStart reports whether every joined player is ready and the minimum
// player count is met.
func (l *Lobby) CanStart() bool {
	if len(l.order) < l.min {
		return false
	}
	for _, id := range l.order {
		if !l.ready[id] {
			return false
		}
	}
	return true
}

// Roster returns the members in join order.
func (l *Lobby) Roster() []protocol.PlayerInfo {
	roster := make([]protocol.PlayerInfo, 0, len(l.order))
	for _, id := range l.order {
		roster = append(roster, protocol.PlayerInfo{
			ID:        id,
			Name:      l.names[id],
			Connected: true,
		})
	}
	return roster
}

// BuildPlayers constructs the match seats using perm as the turn order over
// the join order.
func (l *Lobby) BuildPlayers(perm []int) []*game.Player {
	players := make([]*game.Player, 0, len(l.order))
	for _, i := range perm {
		id := l.order[i]
		players = append(players, game.NewPlayer(id, l.names[id]))
	}
	return players
}
