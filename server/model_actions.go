package server

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/quoridor/game"
	"github.com/zucenko/quoridor/model"
)

func NewGameServer(rules game.Rules) *GameServer {
	return &GameServer{
		GameSessions: make([]*GameSession, 0),
		GameRequests: make(chan GameRequest),
		Listings:     make(chan chan []GameInfo),
		Released:     make(chan *GameSession),
		Upgrader:     &websocket.Upgrader{},
		Rules:        rules,
		Tick:         time.Second,
		seated:       make(map[*GameSession]int),
	}
}

func (s *GameServer) HandleHttpCall() http.HandlerFunc {
	timeout := 200 * time.Millisecond
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("HandleHttpCall - Conection received")

		gcas := make(chan GameContextAwaiting, 1)
		select {
		case s.GameRequests <- GameRequest{GameContextAwaiting: gcas}:
		case <-time.After(timeout):
			log.Warn("GameRequests TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		var gca GameContextAwaiting
		select {
		case gca = <-gcas:
			switch gca.ResponseCode {
			case GAME_NOT_FOUND:
				fallthrough
			case GAME_INVALIDE:
				w.WriteHeader(gca.ResponseCode.ToHttp())
				return
			case GAME_READY:
				log.Printf("HandleHttpCall ok, have GameSession %s", gca.GameSession.ID)
			default:
				log.Errorf("gca.ResponseCode not expected:%v", gca.ResponseCode)
			}
		case <-time.After(timeout):
			log.Warnf("HandleHttpCall GameContextAwaiting <- TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			// the seat still arrives, hand it back
			go func() {
				if late := <-gcas; late.GameSession != nil {
					s.Released <- late.GameSession
				}
			}()
			return
		}

		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already answered the request
			log.Printf("HandleHttpCall websocket upgrade err %v", err)
			s.Released <- gca.GameSession
			return
		}
		defer con.Close()

		gameOver := make(chan struct{})
		select {
		case gca.GameSession.PlayerConnectRequests <- PlayerConnectRequest{
			Con:      con,
			GameOver: gameOver}:
		case <-time.After(timeout):
			log.Warnf("HandleHttpCall game %s did not take the player", gca.GameSession.ID)
			s.Released <- gca.GameSession
			return
		}

		<-gameOver
		log.Infof("HandleHttpCall game %s over", gca.GameSession.ID)
	}
}

// HandleListing answers GET /games with every session the server knows.
func (s *GameServer) HandleListing() http.HandlerFunc {
	timeout := 200 * time.Millisecond
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan []GameInfo, 1)
		select {
		case s.Listings <- reply:
		case <-time.After(timeout):
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}
		var infos []GameInfo
		select {
		case infos = <-reply:
		case <-time.After(timeout):
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(infos); err != nil {
			log.Warnf("HandleListing cant encode %v", err)
		}
	}
}

func (s *GameServer) Loop() {
	log.Printf("GameServer.Loop starting")
	for {
		select {
		case gameReq := <-s.GameRequests:
			var gs *GameSession
			for _, candidate := range s.GameSessions {
				st := candidate.State()
				if (st == GS_NEW || st == GS_WAIT) && s.seated[candidate] < 2 {
					gs = candidate
					break
				}
			}
			if gs == nil {
				gs = s.newGameSession()
				log.Infof("create GameSession %s", gs.ID)
				go gs.Loop()
				s.GameSessions = append(s.GameSessions, gs)
			}
			s.seated[gs]++

			gameReq.GameContextAwaiting <- GameContextAwaiting{
				ResponseCode: GAME_READY,
				GameSession:  gs,
			}
		case gs := <-s.Released:
			if s.seated[gs] > 0 {
				s.seated[gs]--
			}
			log.WithField("game", gs.ID).Infof("seat released, %d taken", s.seated[gs])
		case reply := <-s.Listings:
			infos := make([]GameInfo, 0, len(s.GameSessions))
			for _, gs := range s.GameSessions {
				infos = append(infos, GameInfo{ID: gs.ID, State: gs.State().Name(), Players: gs.Players()})
			}
			reply <- infos
		}
	}
}

func (s *GameServer) newGameSession() *GameSession {
	gs := &GameSession{
		ID:                    uuid.NewString(),
		PlayerSessions:        make([]*PlayerSession, 0, 2),
		Errors:                make(chan int, 2),
		Events:                make(chan PlayerEvent, 16),
		PlayerConnectRequests: make(chan PlayerConnectRequest),
		recorder:              &game.Recorder{},
		tick:                  s.Tick,
	}
	if gs.tick <= 0 {
		gs.tick = time.Second
	}
	gs.Game = game.NewSession(s.Rules, gs.recorder, gs)
	return gs
}

func (gs *GameSession) State() GameSessionState {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.state
}

// Players is the number of connected players.
func (gs *GameSession) Players() int {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.players
}

func (gs *GameSession) setState(st GameSessionState) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if gs.state != st {
		log.WithField("game", gs.ID).Debugf("%s -> %s", gs.state.Name(), st.Name())
	}
	gs.state = st
}

// Arm restarts the countdown ticker of the game.
func (gs *GameSession) Arm() {
	gs.Disarm()
	gs.ticker = time.NewTicker(gs.tick)
	gs.ticks = gs.ticker.C
}

func (gs *GameSession) Disarm() {
	if gs.ticker != nil {
		gs.ticker.Stop()
	}
	gs.ticker = nil
	gs.ticks = nil
}

func (gs *GameSession) Loop() {
	log.WithField("game", gs.ID).Info("GameSession.Loop start")
	defer gs.Disarm()
	for {
		select {
		case pcr := <-gs.PlayerConnectRequests:
			gs.addPlayer(pcr.Con, pcr.GameOver)
			if len(gs.PlayerSessions) < 2 {
				gs.setState(GS_WAIT)
				continue
			}
			gs.setState(GS_PLAY)
			if err := gs.Game.Handle(model.StartGame); err != nil {
				log.Errorf("GameSession.Loop cant start: %v", err)
			}
			notifications := gs.recorder.Flush()
			for _, ps := range gs.PlayerSessions {
				ps.State = PS_PLAY
				mes := ps.MakeGameSetupMessage()
				mes.Notifications = notifications
				gs.send(ps, mes)
			}
		case errPlayer := <-gs.Errors:
			log.WithField("game", gs.ID).Warnf("killing GS, player %d gone", errPlayer)
			gs.setState(GS_ERR)
			for _, ps := range gs.PlayerSessions {
				if ps.Id == errPlayer {
					ps.State = PS_ERR
				} else {
					ps.State = PS_ERR_SEC
				}
			}
			gs.end()
			return
		case pe := <-gs.Events:
			messageToPlayer, messageToAll := gs.Turn(pe)
			if messageToPlayer != nil && pe.Player < len(gs.PlayerSessions) {
				gs.send(gs.PlayerSessions[pe.Player], *messageToPlayer)
			}
			gs.broadcast(messageToAll)
		case <-gs.ticks:
			if err := gs.Game.Handle(model.TickElapsed); err != nil {
				log.Warnf("GameSession.Loop tick refused: %v", err)
			}
			gs.broadcast(gs.flush())
		}
	}
}

// Turn runs one player event through the game. The refusal, if any, goes
// to the player only; whatever changed on the board goes to everybody.
func (gs *GameSession) Turn(pe PlayerEvent) (
	messageToPlayer *model.ServerMessage,
	messageToAll *model.ServerMessage) {
	err := gs.check(pe)
	if err == nil {
		err = gs.Game.Handle(pe.Event)
	}
	if err != nil {
		messageToPlayer = &model.ServerMessage{Refused: err.Error()}
	}
	messageToAll = gs.flush()

	switch {
	case gs.Game.State == game.GameOver:
		gs.setState(GS_OVER)
	case gs.Game.Running:
		gs.setState(GS_PLAY)
	}
	return
}

func (gs *GameSession) check(pe PlayerEvent) error {
	if !remote(pe.Event) {
		return fmt.Errorf("%s from a client: %w", pe.Event.Name(), game.ErrWrongMode)
	}
	switch pe.Event {
	case model.StartGame, model.StopGame:
		return nil
	}
	if gs.Game.Running && pe.Player != gs.Game.Active {
		return game.ErrWrongPlayer
	}
	return nil
}

func (gs *GameSession) flush() *model.ServerMessage {
	notifications := gs.recorder.Flush()
	if len(notifications) == 0 {
		return nil
	}
	return &model.ServerMessage{Notifications: notifications}
}

func (gs *GameSession) broadcast(mes *model.ServerMessage) {
	if mes == nil {
		return
	}
	for _, ps := range gs.PlayerSessions {
		gs.send(ps, *mes)
	}
}

func (gs *GameSession) send(ps *PlayerSession, mes model.ServerMessage) {
	select {
	case ps.MessagesToSend <- mes:
	default:
		log.Warnf("GameSession.send player %d not reading, dropping", ps.Id)
		ps.fail()
	}
}

func (gs *GameSession) end() {
	gs.Game.Stop()
	for _, ps := range gs.PlayerSessions {
		close(ps.GameOver)
	}
}

func (gs *GameSession) addPlayer(
	conn *websocket.Conn,
	gameOver chan struct{},
) {
	ps := &PlayerSession{
		State:          PS_NEW,
		Id:             len(gs.PlayerSessions),
		GameSession:    gs,
		Conn:           conn,
		GameOver:       gameOver,
		MessagesToSend: make(chan model.ServerMessage, 10),
	}
	log.WithField("game", gs.ID).Infof("GameSession.addPlayer %d", ps.Id)
	conn.SetPingHandler(
		func(message string) error {
			err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
			ps.DebugLastPing = time.Now()
			ps.DebugPings++
			if err == websocket.ErrCloseSent {
				return nil
			} else if e, ok := err.(net.Error); ok && e.Timeout() {
				return nil
			}
			return err
		})
	go ps.LoopChannelRead()
	go ps.LoopChannelWrite()
	gs.PlayerSessions = append(gs.PlayerSessions, ps)
	gs.mu.Lock()
	gs.players = len(gs.PlayerSessions)
	gs.mu.Unlock()
}

// fail reports the player to its game session once the session is still
// listening.
func (ps *PlayerSession) fail() {
	select {
	case <-ps.GameOver:
	case ps.GameSession.Errors <- ps.Id:
	default:
	}
}

func (ps *PlayerSession) LoopChannelRead() {
	log.Printf("LoopChannelRead %d STARTED", ps.Id)
loop:
	for {
		_, r, err := ps.Conn.NextReader()
		if err != nil {
			select {
			case <-ps.GameOver:
				log.Printf("LoopChannelRead %d closed after game over", ps.Id)
			default:
				log.Printf("LoopChannelRead err reading message from Conn %v", err)
				ps.fail()
			}
			break loop
		}
		cm := &model.ClientMessage{}
		if err = gob.NewDecoder(r).Decode(cm); err != nil {
			log.Warnf("LoopChannelRead cant decode %v", err)
			ps.fail()
			break loop
		}
		ps.DebugLastMessage = time.Now()
		ps.DebugInMessages++

		select {
		case ps.GameSession.Events <- PlayerEvent{Player: ps.Id, Event: cm.Event}:
		default:
			log.Warnf("Dropping %s from player %d, GameSession.Events FULL", cm.Event.Name(), ps.Id)
		}
	}
	log.WithFields(log.Fields{
		"messages": ps.DebugInMessages,
		"last":     ps.DebugLastMessage.Format(time.RFC3339),
		"pings":    ps.DebugPings,
		"lastPing": ps.DebugLastPing.Format(time.RFC3339),
	}).Printf("LoopChannelRead %d ENDED", ps.Id)
}

func (ps *PlayerSession) MakeGameSetupMessage() model.ServerMessage {
	g := ps.GameSession.Game
	return model.ServerMessage{
		Setup: []model.Setup{{
			GameID:    ps.GameSession.ID,
			PlayerKey: ps.Id,
			Players:   g.Players,
			Walls:     append([]model.Wall(nil), g.Walls...),
			Active:    g.Active,
			Countdown: g.Countdown(),
		}},
	}
}

// this function only consumes. no worries about full buffer stuck
func (ps *PlayerSession) LoopChannelWrite() {
	log.Printf("PlayerSession.LoopChannelWrite %d STARTED", ps.Id)
loop:
	for {
		select {
		case <-ps.GameOver:
			break loop
		case mes := <-ps.MessagesToSend:
			w, err := ps.Conn.NextWriter(websocket.BinaryMessage)
			if err != nil {
				log.Warnf("PlayerSession.LoopChannelWrite cant get writer %v", err)
				ps.fail()
				break loop
			}
			if err = gob.NewEncoder(w).Encode(mes); err != nil {
				log.Warnf("PlayerSession.LoopChannelWrite cant encode %v", err)
				ps.fail()
				break loop
			}
			if err = w.Close(); err != nil {
				log.Warnf("PlayerSession.LoopChannelWrite cant flush %v", err)
				ps.fail()
				break loop
			}
			ps.DebugOutMessages++
		}
	}
	log.WithField("messages", ps.DebugOutMessages).Printf("LoopChannelWrite %d ENDED", ps.Id)
}
