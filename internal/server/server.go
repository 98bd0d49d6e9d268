package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/KDT2006/termdice/internal/config"
	"github.com/KDT2006/termdice/internal/game"
)

// Server accepts TCP connections and hands them to session gateways. All
// game logic lives behind the Coordinator's inbound queue.
type Server struct {
	ListenAddr string

	coordinator *Coordinator
	endCh       chan struct{}
	wg          sync.WaitGroup
	ln          net.Listener // needed for graceful shutdown
	stopOnce    sync.Once
}

func New(cfg *config.Config) *Server {
	s := &Server{
		ListenAddr: cfg.ListenAddr,
		endCh:      make(chan struct{}),
	}
	s.coordinator = newCoordinator(s, cfg, game.NewEntropyRoller(), autoScorePolicy(cfg))
	return s
}

func autoScorePolicy(cfg *config.Config) game.AutoScorePolicy {
	switch cfg.AutoScorePolicy {
	case config.PolicyHighestOpen:
		return game.HighestOpen
	default:
		return game.LowestOpen
	}
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.ln = ln
	defer ln.Close()

	go s.coordinator.run()

	slog.Info("server is listening", "address", s.ListenAddr)

	for {
		select {
		case <-s.endCh:
			slog.Info("server shutting down")
			s.wg.Wait()
			slog.Info("server shutdown complete")
			return nil
		default:
			conn, err := ln.Accept()
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					slog.Info("listener closed", "address", s.ListenAddr)
					continue
				}

				slog.Error("failed to accept connection", "error", err)
				continue
			}

			slog.Info("accepted connection", "remote", conn.RemoteAddr())
			go s.handleConn(conn)
		}
	}
}

func (s *Server) handleConn(conn net.Conn) {
	sess := newSession(conn)
	s.enqueue(action{kind: actionRegister, sess: sess})

	go s.writeLoop(sess)
	s.readLoop(sess)
}

// scheduleShutdown stops the server shortly after the match ends, leaving
// time for final messages to drain.
func (s *Server) scheduleShutdown() {
	s.stopOnce.Do(func() {
		go func() {
			time.Sleep(2 * time.Second)
			close(s.endCh)
			if s.ln != nil {
				s.ln.Close()
			}
		}()
	})
}

// Stop shuts the server down immediately.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.endCh)
		if s.ln != nil {
			s.ln.Close()
		}
	})
}
