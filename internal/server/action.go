package server

import "github.com/KDT2006/termdice/internal/protocol"

type actionKind byte

const (
	// actionRegister announces a freshly accepted connection.
	actionRegister actionKind = iota
	// actionMessage is a decoded client message.
	actionMessage
	// actionDisconnect is the synthetic "player left" entry a session
	// enqueues when its socket closes, so state mutation still happens
	// only inside the coordinator.
	actionDisconnect
)

// action is one entry in the coordinator's inbound queue.
type action struct {
	kind actionKind
	sess *session
	msg  protocol.Message
}
