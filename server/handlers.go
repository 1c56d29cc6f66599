// File: server/handlers.go
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"golang.org/x/net/websocket"

	"chesstris/game"
	"chesstris/render"
)

// HandleSubscribe sets up the WebSocket connection and forwards it to the GameActor.
func (s *Server) HandleSubscribe() func(ws *websocket.Conn) {
	return func(ws *websocket.Conn) {
		connectionAddr := ws.RemoteAddr().String()
		fmt.Printf("HandleSubscribe: new connection from %s\n", connectionAddr)

		defer func() {
			if r := recover(); r != nil {
				fmt.Printf("PANIC recovered in HandleSubscribe for %s: %v\nStack trace:\n%s\n", connectionAddr, r, string(debug.Stack()))
			}
			_ = ws.Close()
		}()

		if s.engine == nil || s.gameActorPID == nil {
			fmt.Printf("HandleSubscribe: engine or GameActorPID is nil, closing %s\n", connectionAddr)
			return
		}

		s.engine.Send(s.gameActorPID, game.PlayerConnectRequest{WsConn: ws}, nil)

		s.readLoop(ws)
	}
}

// readLoop handles reading messages from a single WebSocket connection. Only
// spawn requests are accepted from clients; everything else is logged and
// dropped.
func (s *Server) readLoop(conn *websocket.Conn) {
	connectionAddr := conn.RemoteAddr().String()

	var disconnectSent bool
	defer func() {
		if !disconnectSent {
			s.engine.Send(s.gameActorPID, game.PlayerDisconnect{WsConn: conn}, nil)
			disconnectSent = true
		}
	}()

	for {
		var raw json.RawMessage
		err := websocket.JSON.Receive(conn, &raw)
		if err != nil {
			isClosedErr := strings.Contains(err.Error(), "use of closed network connection") ||
				strings.Contains(err.Error(), "closed") ||
				err == io.EOF
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				fmt.Printf("ReadLoop: read timeout for %s, assuming disconnect\n", connectionAddr)
			} else if !isClosedErr {
				fmt.Printf("ReadLoop: error receiving from %s: %v\n", connectionAddr, err)
			}
			return
		}

		var header game.MessageHeader
		if err := json.Unmarshal(raw, &header); err != nil {
			fmt.Printf("ReadLoop: malformed message from %s: %v\n", connectionAddr, err)
			continue
		}

		switch header.MessageType {
		case "spawnRequest":
			var req game.SpawnRequestMessage
			if err := json.Unmarshal(raw, &req); err != nil {
				fmt.Printf("ReadLoop: bad spawnRequest from %s: %v\n", connectionAddr, err)
				continue
			}
			s.engine.Send(s.gameActorPID, game.SpawnPieceCommand{Kind: game.Kind(req.Kind)}, nil)
		default:
			fmt.Printf("ReadLoop: unknown message type %q from %s\n", header.MessageType, connectionAddr)
		}
	}
}

// HandleGetState serves the latest game state as JSON.
func (s *Server) HandleGetState() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				fmt.Printf("PANIC recovered in HandleGetState: %v\nStack trace:\n%s\n", rec, string(debug.Stack()))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		if s.gameActor == nil {
			http.Error(w, "game not running", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(s.gameActor.GetGameStateJSON()); err != nil {
			fmt.Println("Error writing HTTP game state:", err)
		}
	}
}

// HandleGetAscii serves a plain-text board rendering for quick terminal
// inspection with curl.
func (s *Server) HandleGetAscii() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				fmt.Printf("PANIC recovered in HandleGetAscii: %v\nStack trace:\n%s\n", rec, string(debug.Stack()))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		reply, err := s.engine.Ask(s.gameActorPID, game.GetStateRequest{}, 2*time.Second)
		if err != nil {
			http.Error(w, "state query failed", http.StatusServiceUnavailable)
			return
		}
		resp, ok := reply.(game.GetStateResponse)
		if !ok {
			http.Error(w, "unexpected reply type", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, render.State(resp.State)); err != nil {
			fmt.Println("Error writing ASCII board:", err)
		}
	}
}
