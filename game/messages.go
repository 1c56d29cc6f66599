// File: game/messages.go
package game

import "golang.org/x/net/websocket"

// --- Message header ---
// Used for identifying message types after unmarshalling from JSON.
type MessageHeader struct {
	MessageType string `json:"messageType"`
}

// --- WebSocket messages (client <-> server) ---

// PlayerAssignmentMessage informs a client of its assigned player ID.
type PlayerAssignmentMessage struct {
	MessageType string `json:"messageType"` // "playerAssignment"
	PlayerID    string `json:"playerId"`
}

// SpawnRequestMessage is the client command asking for a new piece. Kind is
// optional; empty means "surprise me".
type SpawnRequestMessage struct {
	MessageType string `json:"messageType"` // "spawnRequest"
	Kind        string `json:"kind,omitempty"`
}

// GameUpdatesBatch bundles the per-tick updates for network transmission.
type GameUpdatesBatch struct {
	MessageType string        `json:"messageType"` // "gameUpdates"
	Updates     []interface{} `json:"updates"`
}

// PieceUpdate carries a render hint for a live or dissolving piece.
type PieceUpdate struct {
	MessageType string     `json:"messageType"` // "pieceUpdate"
	Hint        RenderHint `json:"hint"`
}

// PiecePlaced signals a successful stick. The board mutation has already
// been applied server-side when this goes out.
type PiecePlaced struct {
	MessageType string         `json:"messageType"` // "piecePlaced"
	Placement   PlacementEvent `json:"placement"`
}

// PieceRemoved signals that a dissolving piece finished fading.
type PieceRemoved struct {
	MessageType string `json:"messageType"` // "pieceRemoved"
	PieceID     uint64 `json:"pieceId"`
}

// GhostUpdate carries the landing preview, or Cleared when nothing falls.
type GhostUpdate struct {
	MessageType string        `json:"messageType"` // "ghostUpdate"
	Ghost       *GhostPreview `json:"ghost,omitempty"`
	Cleared     bool          `json:"cleared,omitempty"`
}

// CellStateUpdate is one board cell in a snapshot.
type CellStateUpdate struct {
	X        int    `json:"x"`
	Z        int    `json:"z"`
	Active   bool   `json:"active"`
	OwnerID  string `json:"ownerId,omitempty"`
	HomeZone bool   `json:"isHomeZone,omitempty"`
}

// BoardSnapshot is the full occupancy state, sent on join and after sticks.
type BoardSnapshot struct {
	MessageType string            `json:"messageType"` // "boardSnapshot"
	Rows        int               `json:"rows"`
	Cols        int               `json:"cols"`
	Cells       []CellStateUpdate `json:"cells"`
}

// --- GameActor messages ---

// GameTick signals the GameActor to perform one simulation step.
type GameTick struct{}

// PlayerConnectRequest tells the GameActor a websocket client arrived.
type PlayerConnectRequest struct {
	WsConn *websocket.Conn
}

// PlayerDisconnect tells the GameActor a client connection was lost.
type PlayerDisconnect struct {
	WsConn *websocket.Conn
}

// SpawnPieceCommand asks the GameActor to install a new falling piece,
// superseding any pending respawn. Empty Kind picks a random one.
type SpawnPieceCommand struct {
	OwnerID string
	Kind    Kind
}

// timerFired routes a scheduler callback through the actor mailbox so it
// runs on the actor goroutine. Cancelled timers are dropped on receipt.
type timerFired struct {
	timer *mailboxTimer
	fn    func()
}

// --- Ask messages (HTTP handlers and tests) ---

// GetGhostRequest asks for the current landing preview.
type GetGhostRequest struct{}

type GetGhostResponse struct {
	Ghost *GhostPreview
}

// GetStateRequest asks for a full serializable state snapshot.
type GetStateRequest struct{}

type GetStateResponse struct {
	State GameState
}

// GameState is the marshalled view served over HTTP and used by tests.
type GameState struct {
	Board      BoardSnapshot `json:"board"`
	Live       *Piece        `json:"live,omitempty"`
	Ghost      *GhostPreview `json:"ghost,omitempty"`
	Dissolving int           `json:"dissolving"`
	Placed     uint64        `json:"placed"`
	Players    []PlayerInfo  `json:"players"`
}

// PlayerInfo is the public slice of a connected player's state.
type PlayerInfo struct {
	ID     string `json:"id"`
	Placed int    `json:"placed"`
}

// --- BroadcasterActor messages ---

// AddClient tells the Broadcaster to start sending updates to a connection.
type AddClient struct {
	Conn *websocket.Conn
}

// RemoveClient tells the Broadcaster to stop sending updates to a connection.
type RemoveClient struct {
	Conn *websocket.Conn
}

// BroadcastUpdatesCommand carries a batch of updates from GameActor to the
// BroadcasterActor.
type BroadcastUpdatesCommand struct {
	Updates []interface{}
}
