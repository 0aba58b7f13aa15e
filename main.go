package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/sqweek/dialog"

	"gotiles/display"
	"gotiles/mapknow"
)

var baseDir string

func main() {
	host := flag.String("host", "", "websocket URL of the game server")
	replay := flag.String("replay", "", "play back a recording instead of connecting")
	pick := flag.Bool("pick", false, "choose a recording with a file dialog")
	speed := flag.Float64("speed", -1, "replay speed multiplier, 0 for as fast as possible")
	term := flag.Bool("term", false, "draw in the terminal instead of a window")
	schema := flag.Bool("schema", false, "print the map message JSON schema and exit")
	check := flag.Bool("check", false, "replay the recordings given as arguments headlessly and exit")
	debugLog := flag.Bool("debug", false, "verbose/debug logging")
	strict := flag.Bool("strict", false, "fail on malformed map records instead of skipping them")
	discord := flag.Bool("discord", false, "publish Discord rich presence")
	flag.Parse()

	baseDir = os.Getenv("PWD")
	if baseDir == "" {
		var err error
		if baseDir, err = os.Getwd(); err != nil {
			fmt.Fprintf(os.Stderr, "get working directory: %v\n", err)
			os.Exit(1)
		}
	}

	if *schema {
		if err := writeSchema(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "schema: %v\n", err)
			os.Exit(1)
		}
		return
	}

	loadSettings()
	if *host != "" {
		gs.Host = *host
	}
	if *speed >= 0 {
		gs.ReplaySpeed = *speed
	}
	gs.Strict = gs.Strict || *strict
	gs.Discord = gs.Discord || *discord

	setupLogging(gs.LogLevel, gs.LogFormat, *debugLog, !*term)
	defer func() {
		if r := recover(); r != nil {
			logError("panic: %v\n%s", r, debug.Stack())
		}
	}()

	if *check {
		if err := checkRecordings(flag.Args(), gs.CheckWorkers, gs.Strict); err != nil {
			logger.WithError(err).Fatal("recording check failed")
		}
		return
	}

	recPath := *replay
	if *pick {
		p, err := dialog.File().Filter("Recordings", "ndjson", "jsonl", "rec").SetStartDir(baseDir).Load()
		if err != nil {
			if err != dialog.ErrCancelled {
				logError("file dialog: %v", err)
			}
			return
		}
		recPath = p
	}
	if recPath != "" && !filepath.IsAbs(recPath) {
		recPath = filepath.Join(baseDir, recPath)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		frames  <-chan []byte
		details string
	)
	if recPath != "" {
		rec, err := loadRecording(recPath)
		if err != nil {
			logger.WithError(err).Fatal("load recording")
		}
		summary := recordingSummary(rec)
		logger.WithField("recording", recPath).Info(summary)
		addNotice("Replaying " + filepath.Base(recPath) + ": " + summary)
		frames = newMoviePlayer(rec, gs.ReplaySpeed).run(ctx)
		details = "Watching a recording"
		gs.LastRecording = recPath
	} else {
		var err error
		frames, err = dialServer(ctx, gs.Host)
		if err != nil {
			logger.WithError(err).Fatal("connect")
		}
		details = "In the dungeon"
	}

	store := mapknow.NewStore(mapknow.Options{Strict: gs.Strict, Logger: logger})
	opts := display.Options{
		MaxRows:    gs.PanelRows,
		ViewRadius: gs.ViewRadius,
		Logger:     logger,
	}
	var panels panelFanout
	var win *ebitenView
	if *term {
		restore, err := openTerm()
		if err != nil {
			logger.WithError(err).Fatal("terminal")
		}
		defer restore()
		tv := newTermView(gs.ViewRadius)
		opts.View, opts.Anim = tv, tv
		panels = append(panels, tv)
		go pollTerm(ctx, cancel)
	} else {
		win = newEbitenView(resolveTheme(gs.Theme), gs.TileSize, gs.ViewRadius)
		opts.View, opts.Minimap, opts.Anim = win, win, win
		panels = append(panels, win)
	}
	stats := newStatsRecorder(baseDir)
	stats.load()
	go stats.run(ctx)
	panels = append(panels, stats)
	if gs.Discord {
		if p := initDiscordRPC(ctx, details); p != nil {
			panels = append(panels, p)
		}
	}
	opts.Panel = panels

	sess := newSession(display.New(store, opts), time.Duration(gs.TickMillis)*time.Millisecond, gs.Strict)
	go func() {
		err := sess.run(ctx, frames)
		if err != nil && !errors.Is(err, context.Canceled) {
			logError("session: %v", err)
			cancel()
		}
	}()

	if win != nil {
		if err := runGame(ctx, win); err != nil {
			logError("ebiten: %v", err)
		}
		cancel()
	} else {
		<-ctx.Done()
	}
	stats.save()
	saveSettings()
}
