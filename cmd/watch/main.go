// Terminal viewer: subscribes to a running chesstris server and redraws the
// board as ASCII on every update batch.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/lguibr/asciiring/helpers"
	"golang.org/x/net/websocket"

	"chesstris/game"
	"chesstris/render"
)

// viewerState accumulates enough of the update stream to redraw frames.
type viewerState struct {
	playerID string
	board    game.BoardSnapshot
	live     *game.RenderHint
	ghost    *game.GhostPreview
	placed   uint64
}

func (v *viewerState) toGameState() game.GameState {
	st := game.GameState{Board: v.board, Ghost: v.ghost, Placed: v.placed}
	if v.live != nil {
		st.Live = &game.Piece{
			ID:      v.live.PieceID,
			Kind:    v.live.Kind,
			OwnerID: v.live.OwnerID,
			Shape:   game.ShapeFor(v.live.Kind),
			Pos:     v.live.Pos,
			Rot:     v.live.Rot,
			Opacity: v.live.Opacity,
			Scale:   v.live.Scale,
		}
		if v.live.Dissolving {
			st.Live.State = game.StateDissolving
			st.Dissolving = 1
		}
	}
	return st
}

func main() {
	serverURL := flag.String("url", "ws://localhost:3001/subscribe", "server subscribe endpoint")
	spawnKind := flag.String("spawn", "", "request a piece of this kind on connect (T, I, O, L, J, S, Z)")
	flag.Parse()

	conn, err := websocket.Dial(*serverURL, "", "http://localhost/")
	if err != nil {
		fmt.Println("Error connecting to server:", err)
		os.Exit(1)
	}
	defer conn.Close()

	if *spawnKind != "" {
		req := game.SpawnRequestMessage{MessageType: "spawnRequest", Kind: *spawnKind}
		if err := websocket.JSON.Send(conn, &req); err != nil {
			fmt.Println("Error sending spawn request:", err)
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})
	go func() {
		defer close(done)
		runViewer(conn)
	}()

	select {
	case <-interrupt:
		fmt.Println("\nInterrupted, closing connection.")
	case <-done:
	}
}

func runViewer(conn *websocket.Conn) {
	state := &viewerState{}

	for {
		var raw json.RawMessage
		if err := websocket.JSON.Receive(conn, &raw); err != nil {
			fmt.Println("Error reading from server:", err)
			return
		}

		var header game.MessageHeader
		if err := json.Unmarshal(raw, &header); err != nil {
			continue
		}

		switch header.MessageType {
		case "playerAssignment":
			var msg game.PlayerAssignmentMessage
			if err := json.Unmarshal(raw, &msg); err == nil {
				state.playerID = msg.PlayerID
			}
		case "boardSnapshot":
			var snap game.BoardSnapshot
			if err := json.Unmarshal(raw, &snap); err == nil {
				state.board = snap
			}
		case "gameUpdates":
			applyBatch(state, raw)
		}

		helpers.ClearScreen()
		fmt.Printf("chesstris  player=%s\n", state.playerID)
		fmt.Print(render.State(state.toGameState()))
	}
}

func applyBatch(state *viewerState, raw json.RawMessage) {
	var batch struct {
		Updates []json.RawMessage `json:"updates"`
	}
	if err := json.Unmarshal(raw, &batch); err != nil {
		return
	}

	for _, item := range batch.Updates {
		var header game.MessageHeader
		if err := json.Unmarshal(item, &header); err != nil {
			continue
		}
		switch header.MessageType {
		case "pieceUpdate":
			var msg game.PieceUpdate
			if err := json.Unmarshal(item, &msg); err == nil {
				hint := msg.Hint
				state.live = &hint
			}
		case "piecePlaced":
			var msg game.PiecePlaced
			if err := json.Unmarshal(item, &msg); err == nil {
				state.placed++
				state.live = nil
			}
		case "pieceRemoved":
			state.live = nil
		case "boardSnapshot":
			var snap game.BoardSnapshot
			if err := json.Unmarshal(item, &snap); err == nil {
				state.board = snap
			}
		case "ghostUpdate":
			var msg game.GhostUpdate
			if err := json.Unmarshal(item, &msg); err == nil {
				if msg.Cleared {
					state.ghost = nil
				} else {
					state.ghost = msg.Ghost
				}
			}
		}
	}
}
