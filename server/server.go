package server

import (
	"chesstris/game"
	"chesstris/troupe"
)

// Server wires the HTTP/WebSocket surface to the actor system. It holds no
// game state of its own; everything is queried from the GameActor.
type Server struct {
	engine       *troupe.Engine
	gameActorPID *troupe.PID
	gameActor    *game.GameActor
}

func NewServer(engine *troupe.Engine, gameActorPID *troupe.PID, gameActor *game.GameActor) *Server {
	return &Server{
		engine:       engine,
		gameActorPID: gameActorPID,
		gameActor:    gameActor,
	}
}

func (s *Server) GetEngine() *troupe.Engine { return s.engine }

func (s *Server) GetGameActorPID() *troupe.PID { return s.gameActorPID }

func (s *Server) GetGameActor() *game.GameActor { return s.gameActor }
