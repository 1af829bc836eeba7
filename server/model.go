package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zucenko/quoridor/game"
	"github.com/zucenko/quoridor/model"
)

type GameServer struct {
	GameSessions []*GameSession
	GameRequests chan GameRequest
	Listings     chan chan []GameInfo
	// Released gives back a seat whose player never got connected.
	Released chan *GameSession
	Upgrader     *websocket.Upgrader
	// Rules every new game session is created with.
	Rules game.Rules
	// Tick is the countdown period of new game sessions.
	Tick time.Duration

	// seats handed out per session, connected or about to be
	seated map[*GameSession]int
}

type GameSessionState int

const (
	GS_NEW GameSessionState = iota
	GS_WAIT
	GS_PLAY
	GS_ERR
	GS_OVER
)

// GameSession seats two websocket players at one game. Everything except
// State and Players is owned by the Loop goroutine.
type GameSession struct {
	ID                    string
	Game                  *game.Session
	PlayerSessions        []*PlayerSession
	Errors                chan int
	Events                chan PlayerEvent
	PlayerConnectRequests chan PlayerConnectRequest

	mu       sync.Mutex
	state    GameSessionState
	players  int
	recorder *game.Recorder
	tick     time.Duration
	ticker   *time.Ticker
	ticks    <-chan time.Time
}

type PlayerSessionState int

const (
	PS_NEW PlayerSessionState = iota + 1
	PS_PLAY
	PS_OVER
	PS_ERR
	PS_ERR_SEC
)

type PlayerSession struct {
	State       PlayerSessionState
	Id          int
	GameSession *GameSession
	Conn        *websocket.Conn
	GameOver    chan struct{}

	MessagesToSend chan model.ServerMessage

	DebugInMessages  int
	DebugOutMessages int
	DebugLastMessage time.Time
	DebugLastPing    time.Time
	DebugPings       int
}

// GameInfo is what GET /games reports about one session.
type GameInfo struct {
	ID      string `json:"id"`
	State   string `json:"state"`
	Players int    `json:"players"`
}
