// File: test/e2e_setup_test.go
package test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"chesstris/game"
	"chesstris/server"
	"chesstris/troupe"
	"chesstris/utils"
)

// E2ESetupResult holds everything a full-stack test needs.
type E2ESetupResult struct {
	Engine       *troupe.Engine
	GameActorPID *troupe.PID
	GameActor    *game.GameActor
	Server       *httptest.Server
	WsURL        string
	Origin       string
	Cfg          utils.Config
}

// FastConfig tunes the engine so pieces land within tens of milliseconds.
func FastConfig() utils.Config {
	cfg := utils.DefaultConfig()
	cfg.GameTickPeriod = 5 * time.Millisecond
	cfg.Gravity = 200.0
	cfg.SpawnHeight = 1.5
	cfg.SpawnDrift = 0
	cfg.RespawnDelay = 20 * time.Millisecond
	return cfg
}

// SetupE2ETest spins up the engine, game actor, and a test websocket server.
func SetupE2ETest(t *testing.T, cfg utils.Config) E2ESetupResult {
	t.Helper()

	engine := troupe.NewEngine()
	gameActor := game.NewGameActor(cfg, engine, 42)
	gameActorPID := engine.Spawn(troupe.NewProps(gameActor.Producer()))
	require.NotNil(t, gameActorPID, "GameActor PID should not be nil")
	time.Sleep(50 * time.Millisecond) // allow the actor and its broadcaster to start

	wsServer := server.NewServer(engine, gameActorPID, gameActor)
	s := httptest.NewServer(websocket.Handler(wsServer.HandleSubscribe()))

	return E2ESetupResult{
		Engine:       engine,
		GameActorPID: gameActorPID,
		GameActor:    gameActor,
		Server:       s,
		WsURL:        "ws" + strings.TrimPrefix(s.URL, "http"),
		Origin:       "http://localhost/",
		Cfg:          cfg,
	}
}

// TeardownE2ETest shuts everything down.
func TeardownE2ETest(t *testing.T, setup E2ESetupResult) {
	t.Helper()
	if setup.Server != nil {
		setup.Server.Close()
	}
	if setup.Engine != nil {
		setup.Engine.Shutdown(2 * time.Second)
	}
}
