package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/net/websocket"

	"chesstris/game"
	"chesstris/server"
	"chesstris/troupe"
	"chesstris/utils"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (defaults apply when empty)")
	addr := flag.String("addr", ":3001", "listen address")
	flag.Parse()

	cfg, err := utils.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	engine := troupe.NewEngine()
	defer engine.Shutdown(5 * time.Second)

	gameActor := game.NewGameActor(cfg, engine, time.Now().UnixNano())
	gameActorPID := engine.Spawn(troupe.NewProps(gameActor.Producer()))
	if gameActorPID == nil {
		panic("failed to spawn game actor")
	}

	wsServer := server.NewServer(engine, gameActorPID, gameActor)

	http.HandleFunc("/", wsServer.HandleGetState())
	http.HandleFunc("/ascii", wsServer.HandleGetAscii())
	http.Handle("/subscribe", websocket.Handler(wsServer.HandleSubscribe()))

	fmt.Printf("chesstris server listening on %s (board %dx%d, tick %s)\n",
		*addr, cfg.BoardCols, cfg.BoardRows, cfg.GameTickPeriod)

	panic(http.ListenAndServe(*addr, nil))
}
