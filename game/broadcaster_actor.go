// File: game/broadcaster_actor.go
package game

import (
	"fmt"
	"runtime/debug"

	"golang.org/x/net/websocket"

	"chesstris/troupe"
)

// BroadcasterActor fans per-tick update batches out to every connected
// websocket client. Send failures evict the connection and notify the
// GameActor so player state stays consistent.
type BroadcasterActor struct {
	selfPID      *troupe.PID
	gameActorPID *troupe.PID
	clients      map[*websocket.Conn]bool
}

// NewBroadcasterProducer returns a troupe producer for a broadcaster bound
// to the given GameActor.
func NewBroadcasterProducer(gameActorPID *troupe.PID) troupe.Producer {
	return func() troupe.Actor {
		return &BroadcasterActor{
			gameActorPID: gameActorPID,
			clients:      make(map[*websocket.Conn]bool),
		}
	}
}

func (b *BroadcasterActor) Receive(ctx troupe.Context) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC recovered in BroadcasterActor %s Receive: %v\nStack trace:\n%s\n", b.selfPID, r, string(debug.Stack()))
		}
	}()

	if b.selfPID == nil {
		b.selfPID = ctx.Self()
	}

	switch m := ctx.Message().(type) {
	case troupe.Started:
		fmt.Printf("BroadcasterActor %s: started\n", b.selfPID)

	case AddClient:
		if m.Conn != nil {
			b.clients[m.Conn] = true
			fmt.Printf("BroadcasterActor %s: client added (%d total)\n", b.selfPID, len(b.clients))
		}

	case RemoveClient:
		if _, ok := b.clients[m.Conn]; ok {
			delete(b.clients, m.Conn)
			fmt.Printf("BroadcasterActor %s: client removed (%d total)\n", b.selfPID, len(b.clients))
		}

	case BroadcastUpdatesCommand:
		b.broadcast(ctx, m.Updates)

	case troupe.Stopping:
		fmt.Printf("BroadcasterActor %s: stopping, dropping %d clients\n", b.selfPID, len(b.clients))
		b.clients = make(map[*websocket.Conn]bool)

	case troupe.Stopped:

	default:
		fmt.Printf("BroadcasterActor %s: unknown message type %T\n", b.selfPID, m)
	}
}

func (b *BroadcasterActor) broadcast(ctx troupe.Context, updates []interface{}) {
	if len(updates) == 0 || len(b.clients) == 0 {
		return
	}

	batch := GameUpdatesBatch{MessageType: "gameUpdates", Updates: updates}

	var dead []*websocket.Conn
	for conn := range b.clients {
		if err := websocket.JSON.Send(conn, &batch); err != nil {
			fmt.Printf("BroadcasterActor %s: send failed, evicting client: %v\n", b.selfPID, err)
			dead = append(dead, conn)
		}
	}

	for _, conn := range dead {
		delete(b.clients, conn)
		if b.gameActorPID != nil {
			ctx.Engine().Send(b.gameActorPID, PlayerDisconnect{WsConn: conn}, b.selfPID)
		}
	}
}
