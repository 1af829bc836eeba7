package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/quoridor/game"
	"github.com/zucenko/quoridor/model"
	"github.com/zucenko/quoridor/tui"
)

func main() {
	rules := game.DefaultRules()
	flag.IntVar(&rules.TurnSeconds, "turn", rules.TurnSeconds, "seconds per turn")
	flag.BoolVar(&rules.StrictTrapCheck, "strict", false, "also refuse walls that trap the placing player")
	layout := flag.String("layout", "", "start from this layout file")
	logFile := flag.String("log", "", "write the log to this file")
	mute := flag.Bool("mute", false, "no sound")
	debug := flag.Bool("debug", os.Getenv("QUORIDOR_DEBUG") != "", "debug logging")
	flag.Parse()

	// the terminal belongs to the board
	log.SetOutput(io.Discard)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.SetOutput(os.Stderr)
			log.Fatalf("cant open log: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}
	if *debug {
		log.SetLevel(log.DebugLevel)
	}
	if *layout != "" {
		l, err := model.LoadLayout(*layout)
		if err != nil {
			log.SetOutput(os.Stderr)
			log.Fatalf("cant load layout: %v", err)
		}
		rules.Layout = l
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatal(err)
	}
	defer screen.Fini()

	var sound tui.Sounder = tui.Silent{}
	if !*mute {
		if sp, err := tui.NewSpeaker(); err != nil {
			log.Warnf("no sound: %v", err)
		} else {
			defer sp.Close()
			sound = sp
		}
	}

	term := tui.NewTerminal(screen, sound)
	runner := game.NewRunner(rules, term)
	runner.Tick = time.Second
	runner.Refused = term.Refused

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tui.Loop(ctx, cancel, screen, term, runner)

	term.Redraw()
	runner.Post(model.StartGame)
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error(err)
	}
}
