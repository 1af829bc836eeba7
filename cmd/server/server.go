package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/quoridor/game"
	"github.com/zucenko/quoridor/model"
	"github.com/zucenko/quoridor/server"
)

type Server struct {
	router     *way.Router
	GameServer *server.GameServer
}

func main() {
	rules := game.DefaultRules()
	flag.IntVar(&rules.TurnSeconds, "turn", rules.TurnSeconds, "seconds per turn")
	flag.BoolVar(&rules.StrictTrapCheck, "strict", false, "also refuse walls that trap the placing player")
	layout := flag.String("layout", "", "start every game from this layout file")
	debug := flag.Bool("debug", os.Getenv("QUORIDOR_DEBUG") != "", "debug logging")
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}
	if *layout != "" {
		l, err := model.LoadLayout(*layout)
		if err != nil {
			log.Fatalf("cant load layout: %v", err)
		}
		rules.Layout = l
	}

	Server := Server{
		GameServer: server.NewGameServer(rules),
	}
	go Server.GameServer.Loop()
	Server.routes()
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("Defaulting to port %s", port)
	}
	log.Fatalln(http.ListenAndServe(":"+port, Server.router))
}
