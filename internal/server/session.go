package server

import (
	"errors"
	"io"
	"log/slog"
	"net"

	"github.com/KDT2006/termdice/internal/protocol"
	"github.com/google/uuid"
)

// session is the per-connection relay: a read loop feeding the coordinator's
// inbound queue and a write loop draining the outbound channel. It owns no
// game state.
type session struct {
	id       uuid.UUID
	conn     net.Conn
	name     string
	outbound chan protocol.Message
}

func newSession(conn net.Conn) *session {
	return &session{
		id:       uuid.New(),
		conn:     conn,
		outbound: make(chan protocol.Message, 16),
	}
}

func (s *Server) readLoop(sess *session) {
	s.wg.Add(1)
	defer s.wg.Done()

	for {
		select {
		case <-s.endCh:
			slog.Info("read loop shutting down", "remote", sess.conn.RemoteAddr())
			return
		default:
			msg, err := protocol.ReadMessage(sess.conn)
			if err != nil {
				if !errors.Is(err, net.ErrClosed) && !errors.Is(err, io.EOF) {
					slog.Error("error reading from client", "remote", sess.conn.RemoteAddr(), "error", err)
				}

				// Socket closure and undecodable input both end the
				// session; the coordinator turns it into a player-left
				// action.
				s.enqueue(action{kind: actionDisconnect, sess: sess})
				return
			}

			s.enqueue(action{kind: actionMessage, sess: sess, msg: msg})
		}
	}
}

func (s *Server) writeLoop(sess *session) {
	s.wg.Add(1)
	defer s.wg.Done()

	for {
		select {
		case <-s.endCh:
			slog.Info("write loop shutting down", "remote", sess.conn.RemoteAddr())
			return
		case msg, ok := <-sess.outbound:
			if !ok {
				return
			}

			if err := protocol.WriteMessage(sess.conn, msg); err != nil {
				if !errors.Is(err, net.ErrClosed) && !errors.Is(err, io.EOF) {
					slog.Error("error writing to client", "remote", sess.conn.RemoteAddr(), "error", err)
				}
				return
			}
		}
	}
}

// enqueue pushes an action into the coordinator's inbound queue unless the
// server is shutting down.
func (s *Server) enqueue(a action) {
	select {
	case s.coordinator.inbound <- a:
	case <-s.endCh:
	}
}
