package client

import (
	"encoding/gob"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/quoridor/model"
)

// Conn is the client end of a game websocket. Messages from the server
// are decoded onto Messages; Send queues input events.
type Conn struct {
	Conn     *websocket.Conn
	Messages chan model.ServerMessage
	// Closed is closed once the read loop ends.
	Closed chan struct{}

	events chan model.Event
	done   chan struct{}
}

func Dial(url string) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	c := &Conn{
		Conn:     ws,
		Messages: make(chan model.ServerMessage, 32),
		Closed:   make(chan struct{}),
		events:   make(chan model.Event, 10),
		done:     make(chan struct{}),
	}
	go c.LoopChannelRead()
	go c.LoopChannelWrite()
	return c, nil
}

// Send queues an event without blocking.
func (c *Conn) Send(ev model.Event) bool {
	select {
	case c.events <- ev:
		return true
	default:
		log.Warnf("Conn.Send dropping %s", ev.Name())
		return false
	}
}

func (c *Conn) Close() error {
	close(c.done)
	return c.Conn.Close()
}

func (c *Conn) LoopChannelRead() {
	defer close(c.Closed)
	for {
		_, r, err := c.Conn.NextReader()
		if err != nil {
			log.Printf("Conn.LoopChannelRead ENDED %v", err)
			return
		}
		mes := model.ServerMessage{}
		if err = gob.NewDecoder(r).Decode(&mes); err != nil {
			log.Warnf("Conn.LoopChannelRead cant decode %v", err)
			return
		}
		select {
		case c.Messages <- mes:
		case <-c.done:
			return
		}
	}
}

func (c *Conn) LoopChannelWrite() {
	for {
		select {
		case <-c.done:
			return
		case ev := <-c.events:
			w, err := c.Conn.NextWriter(websocket.BinaryMessage)
			if err != nil {
				log.Warnf("Conn.LoopChannelWrite cant get writer %v", err)
				return
			}
			if err = gob.NewEncoder(w).Encode(model.ClientMessage{Event: ev}); err != nil {
				log.Warnf("Conn.LoopChannelWrite cant encode %v", err)
				return
			}
			if err = w.Close(); err != nil {
				log.Warnf("Conn.LoopChannelWrite cant flush %v", err)
				return
			}
		}
	}
}
