// File: game/game_actor.go
package game

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"chesstris/troupe"
	"chesstris/utils"
)

// GameActor hosts one Simulation: it owns the board, runs the tick loop,
// applies placement events, and fans updates out through a BroadcasterActor.
// All simulation access happens on the actor goroutine, which is what keeps
// the engine's single-threaded contract.
type GameActor struct {
	cfg     utils.Config
	engine  *troupe.Engine
	selfPID *troupe.PID

	board   *Board
	spawner *Spawner
	sim     *Simulation

	broadcasterPID *troupe.PID
	players        map[*websocket.Conn]*playerInfo
	placedByOwner  map[string]int
	lastOwner      string

	ticker         *time.Ticker
	stopTickerCh   chan struct{}
	lastTick       time.Time
	pendingUpdates []interface{}
	gameStateJSON  atomic.Value
}

// playerInfo is the server-side record for a connected client.
type playerInfo struct {
	ID string
	Ws *websocket.Conn
}

// NewGameActor builds the actor and its simulation. The returned value must
// be spawned on the engine before use; keeping the reference around is fine
// for read-only accessors like GetGameStateJSON.
func NewGameActor(cfg utils.Config, engine *troupe.Engine, seed int64) *GameActor {
	a := &GameActor{
		cfg:           cfg,
		engine:        engine,
		board:         NewBoard(cfg.BoardRows, cfg.BoardCols, cfg.HomeDepth),
		spawner:       NewSpawner(cfg, seed),
		players:       make(map[*websocket.Conn]*playerInfo),
		placedByOwner: make(map[string]int),
		stopTickerCh:  make(chan struct{}),
	}
	a.sim = NewSimulation(cfg, PhysicsContext{
		Board:   a.board,
		Spawn:   a.respawnPiece,
		Place:   a.handlePlacement,
		Hint:    a.collectHint,
		Removed: a.collectRemoval,
		Clock:   &mailboxScheduler{actor: a},
	})
	a.updateGameStateJSON()
	return a
}

// Producer returns a troupe producer handing out this instance.
func (a *GameActor) Producer() troupe.Producer {
	return func() troupe.Actor { return a }
}

// BroadcasterPID exposes the broadcaster for the websocket handlers.
func (a *GameActor) BroadcasterPID() *troupe.PID { return a.broadcasterPID }

// Receive is the main message handler.
func (a *GameActor) Receive(ctx troupe.Context) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC recovered in GameActor %s Receive: %v\nStack trace:\n%s\n", a.selfPID, r, string(debug.Stack()))
		}
	}()

	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch m := ctx.Message().(type) {
	case troupe.Started:
		a.broadcasterPID = a.engine.Spawn(troupe.NewProps(NewBroadcasterProducer(a.selfPID)))
		if a.broadcasterPID == nil {
			fmt.Printf("FATAL: GameActor %s failed to spawn BroadcasterActor. Stopping self.\n", a.selfPID)
			a.engine.Stop(a.selfPID)
			return
		}
		a.lastTick = time.Now()
		a.ticker = time.NewTicker(a.cfg.GameTickPeriod)
		go a.runTickerLoop()

	case GameTick:
		a.handleTick()

	case timerFired:
		if !m.timer.cancelled.Load() {
			m.fn()
		}

	case PlayerConnectRequest:
		a.handlePlayerConnect(m.WsConn)

	case PlayerDisconnect:
		a.handlePlayerDisconnect(m.WsConn)

	case SpawnPieceCommand:
		a.handleSpawnCommand(m)

	case GetGhostRequest:
		a.engine.Send(ctx.Sender(), GetGhostResponse{Ghost: a.sim.GhostPreview()}, a.selfPID)

	case GetStateRequest:
		a.engine.Send(ctx.Sender(), GetStateResponse{State: a.buildState()}, a.selfPID)

	case troupe.Stopping:
		if a.ticker != nil {
			a.ticker.Stop()
		}
		select {
		case <-a.stopTickerCh:
		default:
			close(a.stopTickerCh)
		}
		if a.broadcasterPID != nil {
			a.engine.Stop(a.broadcasterPID)
		}

	case troupe.Stopped:

	default:
		fmt.Printf("GameActor %s: unknown message type %T\n", a.selfPID, m)
	}
}

// runTickerLoop feeds GameTick messages into the actor's own mailbox.
func (a *GameActor) runTickerLoop() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC recovered in GameActor %s ticker loop: %v\n", a.selfPID, r)
		}
	}()

	for {
		select {
		case <-a.stopTickerCh:
			return
		case _, ok := <-a.ticker.C:
			if !ok {
				return
			}
			select {
			case <-a.stopTickerCh:
				return
			default:
				a.engine.Send(a.selfPID, GameTick{}, nil)
			}
		}
	}
}

func (a *GameActor) handleTick() {
	now := time.Now()
	dt := now.Sub(a.lastTick).Seconds()
	a.lastTick = now

	a.sim.Tick(dt)

	a.pendingUpdates = append(a.pendingUpdates, GhostUpdate{
		MessageType: "ghostUpdate",
		Ghost:       a.sim.GhostPreview(),
		Cleared:     a.sim.GhostPreview() == nil,
	})

	updates := a.pendingUpdates
	a.pendingUpdates = nil
	a.engine.Send(a.broadcasterPID, BroadcastUpdatesCommand{Updates: updates}, a.selfPID)

	a.updateGameStateJSON()
}

// --- simulation collaborators (all run on the actor goroutine) ---

func (a *GameActor) respawnPiece() *Piece {
	owner := a.lastOwner
	if owner == "" {
		owner = "server"
	}
	return a.spawner.Next(owner)
}

func (a *GameActor) handlePlacement(ev PlacementEvent) {
	a.board.Place(ev)
	a.placedByOwner[ev.OwnerID]++

	snap := a.board.Snapshot()
	snap.MessageType = "boardSnapshot"
	a.pendingUpdates = append(a.pendingUpdates,
		PiecePlaced{MessageType: "piecePlaced", Placement: ev},
		snap,
	)
}

func (a *GameActor) collectHint(hint RenderHint) {
	a.pendingUpdates = append(a.pendingUpdates, PieceUpdate{MessageType: "pieceUpdate", Hint: hint})
}

func (a *GameActor) collectRemoval(pieceID uint64) {
	a.pendingUpdates = append(a.pendingUpdates, PieceRemoved{MessageType: "pieceRemoved", PieceID: pieceID})
}

// --- connection handling ---

func (a *GameActor) handlePlayerConnect(ws *websocket.Conn) {
	if ws == nil {
		return
	}
	info := &playerInfo{ID: uuid.NewString(), Ws: ws}
	a.players[ws] = info
	a.lastOwner = info.ID
	fmt.Printf("GameActor %s: player %s connected (%d online)\n", a.selfPID, info.ID, len(a.players))

	assign := PlayerAssignmentMessage{MessageType: "playerAssignment", PlayerID: info.ID}
	if err := websocket.JSON.Send(ws, &assign); err != nil {
		fmt.Printf("WARN: GameActor %s: failed to send assignment to %s: %v\n", a.selfPID, info.ID, err)
	}
	snap := a.board.Snapshot()
	snap.MessageType = "boardSnapshot"
	if err := websocket.JSON.Send(ws, &snap); err != nil {
		fmt.Printf("WARN: GameActor %s: failed to send board snapshot to %s: %v\n", a.selfPID, info.ID, err)
	}

	a.engine.Send(a.broadcasterPID, AddClient{Conn: ws}, a.selfPID)

	// Kick the lifecycle off for the first arrival.
	if a.sim.LivePiece() == nil {
		a.sim.SpawnPiece(a.spawner.Next(info.ID))
	}
}

func (a *GameActor) handlePlayerDisconnect(ws *websocket.Conn) {
	if ws == nil {
		return
	}
	if info, ok := a.players[ws]; ok {
		fmt.Printf("GameActor %s: player %s disconnected\n", a.selfPID, info.ID)
		delete(a.players, ws)
	}
	a.engine.Send(a.broadcasterPID, RemoveClient{Conn: ws}, a.selfPID)
	_ = ws.Close()
}

func (a *GameActor) handleSpawnCommand(cmd SpawnPieceCommand) {
	owner := cmd.OwnerID
	if owner == "" {
		owner = a.lastOwner
	}
	if owner == "" {
		owner = "server"
	}
	a.lastOwner = owner

	var piece *Piece
	if cmd.Kind != "" {
		piece = a.spawner.NextOfKind(owner, cmd.Kind)
	} else {
		piece = a.spawner.Next(owner)
	}
	a.sim.SpawnPiece(piece)
}

// --- state snapshots ---

func (a *GameActor) buildState() GameState {
	snap := a.board.Snapshot()
	snap.MessageType = "boardSnapshot"

	players := make([]PlayerInfo, 0, len(a.players))
	for _, info := range a.players {
		players = append(players, PlayerInfo{ID: info.ID, Placed: a.placedByOwner[info.ID]})
	}

	var live *Piece
	if p := a.sim.LivePiece(); p != nil {
		cp := *p
		live = &cp
	}

	return GameState{
		Board:      snap,
		Live:       live,
		Ghost:      a.sim.GhostPreview(),
		Dissolving: a.sim.DissolvingCount(),
		Placed:     a.sim.PlacedCount(),
		Players:    players,
	}
}

func (a *GameActor) updateGameStateJSON() {
	jsonBytes, err := json.Marshal(a.buildState())
	if err != nil {
		fmt.Printf("ERROR: GameActor %s: failed to marshal game state: %v\n", a.selfPID, err)
		return
	}
	a.gameStateJSON.Store(jsonBytes)
}

// GetGameStateJSON retrieves the latest marshalled game state for HTTP
// handlers. Safe to call from any goroutine.
func (a *GameActor) GetGameStateJSON() []byte {
	val := a.gameStateJSON.Load()
	jsonBytes, ok := val.([]byte)
	if !ok {
		return []byte(`{"error": "game state unavailable"}`)
	}
	return jsonBytes
}

// --- scheduler plumbing ---

// mailboxScheduler routes timer callbacks through the actor mailbox so they
// execute on the actor goroutine, never concurrently with a tick.
type mailboxScheduler struct {
	actor *GameActor
}

type mailboxTimer struct {
	cancelled atomic.Bool
	timer     *time.Timer
}

func (t *mailboxTimer) Stop() bool {
	first := t.cancelled.CompareAndSwap(false, true)
	if t.timer != nil {
		t.timer.Stop()
	}
	return first
}

func (s *mailboxScheduler) After(d time.Duration, fn func()) Timer {
	t := &mailboxTimer{}
	a := s.actor
	t.timer = time.AfterFunc(d, func() {
		a.engine.Send(a.selfPID, timerFired{timer: t, fn: fn}, nil)
	})
	return t
}
