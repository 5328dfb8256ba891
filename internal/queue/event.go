// Package queue defines message payloads exchanged over the message broker.
package queue

import "github.com/guuleed/prison-records/internal/repository"

// Event kinds published on the detainee stream.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventStatus  = "status"
)

// DetaineeEvent is published after a detainee is created, edited or moved
// through a status transition.  It carries the fully materialized record
// (resolved room/prison names, age and fine projections) so downstream
// consumers can log or fan out live updates without querying the primary
// database.
type DetaineeEvent struct {
	Kind     string                 `json:"kind"`
	Detainee repository.DetaineeRow `json:"detainee"`
	At       string                 `json:"at"`
}

// HeartbeatEvent is the periodic liveness tick emitted by the server.
type HeartbeatEvent struct {
	At string `json:"at"`
}
