package server

import (
	"log/slog"

	"github.com/KDT2006/termdice/internal/config"
	"github.com/KDT2006/termdice/internal/game"
	"github.com/KDT2006/termdice/internal/protocol"
	"github.com/google/uuid"
)

// Coordinator owns the authoritative game state. Exactly one goroutine runs
// its loop, draining the inbound queue strictly in arrival order and
// applying one action fully before the next, so no locks guard the game
// state anywhere.
type Coordinator struct {
	inbound  chan action
	sessions map[uuid.UUID]*session
	lobby    *Lobby
	state    *game.State
	roller   *game.Roller
	policy   game.AutoScorePolicy
	srv      *Server
}

func newCoordinator(srv *Server, cfg *config.Config, roller *game.Roller, policy game.AutoScorePolicy) *Coordinator {
	return &Coordinator{
		inbound:  make(chan action, 256),
		sessions: make(map[uuid.UUID]*session),
		lobby:    NewLobby(cfg.MinPlayers, cfg.MaxPlayers),
		roller:   roller,
		policy:   policy,
		srv:      srv,
	}
}

func (c *Coordinator) run() {
	c.srv.wg.Add(1)
	defer c.srv.wg.Done()

	for {
		select {
		case <-c.srv.endCh:
			slog.Info("coordinator shutting down")
			c.closeAll()
			return
		case a := <-c.inbound:
			c.apply(a)
		}
	}
}

func (c *Coordinator) apply(a action) {
	switch a.kind {
	case actionRegister:
		c.sessions[a.sess.id] = a.sess
	case actionDisconnect:
		c.handleDisconnect(a.sess)
	case actionMessage:
		c.handleMessage(a.sess, a.msg)
	}
}

func (c *Coordinator) handleMessage(sess *session, msg protocol.Message) {
	switch msg.Type {
	case protocol.JoinGame:
		var payload protocol.JoinPayload
		if err := msg.Decode(&payload); err != nil {
			c.terminate(sess, err)
			return
		}
		c.handleJoin(sess, payload.Name)

	case protocol.Ready:
		c.handleReady(sess)

	case protocol.RerollDice:
		var payload protocol.RerollPayload
		if err := msg.Decode(&payload); err != nil {
			c.terminate(sess, err)
			return
		}
		c.handleReroll(sess, game.HoldMask(payload.Hold))

	case protocol.ScoreCategory:
		var payload protocol.ScorePayload
		if err := msg.Decode(&payload); err != nil {
			c.terminate(sess, err)
			return
		}
		c.handleScore(sess, payload.Category)

	case protocol.Chat:
		var payload protocol.ChatPayload
		if err := msg.Decode(&payload); err != nil {
			c.terminate(sess, err)
			return
		}
		c.handleChat(sess, payload.Text)

	case protocol.Leave:
		c.handleDisconnect(sess)

	default:
		slog.Error("received unknown message type", "remote", sess.conn.RemoteAddr(), "type", msg.Type)
		c.reject(sess, "unknown message type")
	}
}

func (c *Coordinator) handleJoin(sess *session, name string) {
	if c.state != nil {
		c.reject(sess, "game already started")
		sess.conn.Close()
		return
	}
	if c.lobby.Has(sess.id) {
		c.reject(sess, "already joined")
		return
	}
	if name == "" {
		c.reject(sess, "name must not be empty")
		return
	}

	if err := c.lobby.Add(sess.id, name); err != nil {
		c.reject(sess, err.Error())
		if err == ErrLobbyFull {
			sess.conn.Close()
		}
		return
	}

	sess.name = name
	slog.Info("player joined", "id", sess.id, "name", name, "players", c.lobby.Len())

	c.sendTo(sess, protocol.Welcome, protocol.WelcomePayload{
		PlayerID: sess.id,
		Roster:   c.lobby.Roster(),
	})
	c.broadcastExcept(sess, protocol.PlayerJoined, protocol.PlayerJoinedPayload{
		ID:   sess.id,
		Name: name,
	})
}

func (c *Coordinator) handleReady(sess *session) {
	if c.state != nil {
		c.reject(sess, "game already started")
		return
	}
	if !c.lobby.Has(sess.id) {
		c.reject(sess, "join the lobby first")
		return
	}

	c.lobby.SetReady(sess.id)
	if c.lobby.CanStart() {
		c.startMatch()
	}
}

func (c *Coordinator) startMatch() {
	// Turn order is randomized exactly once, at this instant.
	players := c.lobby.BuildPlayers(c.roller.Perm(c.lobby.Len()))
	c.state = game.NewState(players, c.roller, c.policy)
	if err := c.state.Start(); err != nil {
		slog.Error("failed to start match", "error", err)
		c.state = nil
		return
	}

	order := make([]protocol.PlayerInfo, 0, len(players))
	for _, p := range players {
		order = append(order, protocol.PlayerInfo{ID: p.ID, Name: p.Name, Connected: p.Connected})
	}

	slog.Info("match started", "players", len(players))
	c.broadcast(protocol.GameStarted, protocol.GameStartedPayload{Order: order})
	c.beginTurn()
}

// beginTurn opens the next turn, crossing out categories for disconnected
// seats on the way, and announces either the turn or the end of the match.
func (c *Coordinator) beginTurn() {
	autos, start := c.state.BeginTurn()
	for _, res := range autos {
		c.broadcastScore(res)
	}

	if start != nil {
		c.broadcast(protocol.TurnStarted, protocol.TurnStartedPayload{
			PlayerID:       start.PlayerID,
			Round:          start.Round,
			Dice:           start.Dice,
			RollsRemaining: start.RollsRemaining,
		})
		return
	}

	c.finishMatch()
}

func (c *Coordinator) finishMatch() {
	standings := c.state.Standings()
	payload := protocol.GameOverPayload{
		Standings: make([]protocol.Standing, 0, len(standings)),
	}
	for _, s := range standings {
		payload.Standings = append(payload.Standings, protocol.Standing{
			PlayerID: s.PlayerID,
			Name:     s.Name,
			Total:    s.Total,
		})
	}

	slog.Info("match finished", "winner", standings[0].Name, "total", standings[0].Total)
	c.broadcast(protocol.GameOver, payload)
	c.srv.scheduleShutdown()
}

func (c *Coordinator) handleReroll(sess *session, hold game.HoldMask) {
	if c.state == nil {
		c.reject(sess, "game not started")
		return
	}

	res, err := c.state.Reroll(sess.id, hold)
	if err != nil {
		c.reject(sess, err.Error())
		return
	}

	c.broadcast(protocol.DiceRolled, protocol.DiceRolledPayload{
		Dice:           res.Dice,
		Held:           res.Held,
		RollsRemaining: res.RollsRemaining,
	})
}

func (c *Coordinator) handleScore(sess *session, category protocol.Category) {
	if c.state == nil {
		c.reject(sess, "game not started")
		return
	}

	res, err := c.state.ScoreCategory(sess.id, category)
	if err != nil {
		c.reject(sess, err.Error())
		return
	}

	c.broadcastScore(res)
	c.beginTurn()
}

func (c *Coordinator) handleChat(sess *session, text string) {
	if sess.name == "" {
		c.reject(sess, "join the lobby first")
		return
	}

	// Pure pass-through, no state.
	c.broadcast(protocol.ChatMessage, protocol.ChatMessagePayload{
		From: sess.id,
		Name: sess.name,
		Text: text,
	})
}

func (c *Coordinator) handleDisconnect(sess *session) {
	if _, ok := c.sessions[sess.id]; !ok {
		sess.conn.Close()
		return
	}

	delete(c.sessions, sess.id)
	close(sess.outbound)
	sess.conn.Close()

	if c.state == nil {
		// Still in the lobby: drop the seat entirely.
		if c.lobby.Has(sess.id) {
			c.lobby.Remove(sess.id)
			slog.Info("player left lobby", "id", sess.id, "name", sess.name)
			c.broadcast(protocol.PlayerLeft, protocol.PlayerLeftPayload{ID: sess.id})
			// The departure may have been the last unready player.
			if c.lobby.CanStart() {
				c.startMatch()
			}
		}
		return
	}

	player := c.state.Player(sess.id)
	if player == nil {
		return
	}

	// Mid-game: the seat stays, flagged disconnected, and its remaining
	// turns are auto-scored so the match never stalls.
	c.state.SetConnected(sess.id, false)
	slog.Info("player disconnected", "id", sess.id, "name", sess.name)
	c.broadcast(protocol.PlayerLeft, protocol.PlayerLeftPayload{ID: sess.id})

	if c.state.IsCurrent(sess.id) {
		res := c.state.AutoScoreCurrent()
		c.broadcastScore(res)
		c.beginTurn()
	}
}

// terminate handles a protocol violation: the session ends without the
// offending action touching game state.
func (c *Coordinator) terminate(sess *session, err error) {
	slog.Error("protocol violation", "remote", sess.conn.RemoteAddr(), "error", err)
	c.handleDisconnect(sess)
}

func (c *Coordinator) broadcastScore(res game.ScoreResult) {
	c.broadcast(protocol.ScoreRecorded, protocol.ScoreRecordedPayload{
		PlayerID: res.PlayerID,
		Category: res.Category,
		Points:   res.Points,
		Bonus:    res.Bonus,
	})
}

func (c *Coordinator) reject(sess *session, reason string) {
	c.sendTo(sess, protocol.ActionRejected, protocol.RejectedPayload{Reason: reason})
}

func (c *Coordinator) sendTo(sess *session, t protocol.MessageType, payload any) {
	msg, err := protocol.NewMessage(t, payload)
	if err != nil {
		slog.Error("failed to encode message", "type", t, "error", err)
		return
	}
	c.deliver(sess, msg)
}

func (c *Coordinator) broadcast(t protocol.MessageType, payload any) {
	c.broadcastExcept(nil, t, payload)
}

func (c *Coordinator) broadcastExcept(skip *session, t protocol.MessageType, payload any) {
	msg, err := protocol.NewMessage(t, payload)
	if err != nil {
		slog.Error("failed to encode broadcast", "type", t, "error", err)
		return
	}

	for _, sess := range c.sessions {
		if sess == skip {
			continue
		}
		c.deliver(sess, msg)
	}
}

// deliver never blocks the coordinator on a slow client. A full outbound
// channel closes the socket; the session's read loop then feeds the normal
// disconnect path.
func (c *Coordinator) deliver(sess *session, msg protocol.Message) {
	select {
	case sess.outbound <- msg:
	default:
		slog.Error("client too slow to receive message, dropping", "remote", sess.conn.RemoteAddr())
		sess.conn.Close()
	}
}

func (c *Coordinator) closeAll() {
	for id, sess := range c.sessions {
		delete(c.sessions, id)
		close(sess.outbound)
		sess.conn.Close()
	}
}
