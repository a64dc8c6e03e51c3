package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/voicepad/voicepad/internal/audio"
	"github.com/voicepad/voicepad/internal/bus"
	"github.com/voicepad/voicepad/internal/config"
	"github.com/voicepad/voicepad/internal/notify"
	"github.com/voicepad/voicepad/internal/playback"
	"github.com/voicepad/voicepad/internal/session"
	"github.com/voicepad/voicepad/internal/store"
	"github.com/voicepad/voicepad/internal/transcription"
)

// Daemon hosts the session store, recording session, playback controller and
// transcription coordinator, and exposes them over the control socket.
type Daemon struct {
	manager  *config.Manager
	notifier notify.Notifier

	store       *store.Store
	session     *session.Session
	playback    *playback.Controller
	coordinator *transcription.Coordinator

	ctx    context.Context
	cancel context.CancelFunc
}

func New() (*Daemon, error) {
	manager, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	cfg := manager.GetConfig()

	engine, err := audio.NewPipeWireEngine()
	if err != nil {
		return nil, fmt.Errorf("initialize audio engine: %w", err)
	}

	return newDaemon(manager, engine, notify.New(cfg.NotifierType())), nil
}

func newDaemon(manager *config.Manager, engine audio.Engine, notifier notify.Notifier) *Daemon {
	cfg := manager.GetConfig()
	st := store.New()

	coordinator := transcription.NewCoordinator(st, engine, notifier, func() transcription.Config {
		return manager.GetConfig().TranscriptionClientConfig()
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &Daemon{
		manager:     manager,
		notifier:    notifier,
		store:       st,
		session:     session.New(engine, st, coordinator, notifier, cfg.CaptureConfig()),
		playback:    playback.NewController(engine, st, notifier),
		coordinator: coordinator,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (d *Daemon) Run() error {
	if err := bus.CheckExistingDaemon(); err != nil {
		return err
	}

	ln, err := bus.Listen()
	if err != nil {
		return err
	}
	defer ln.Close()

	if err := bus.CreatePidFile(); err != nil {
		return fmt.Errorf("failed to create PID file: %w", err)
	}
	defer bus.RemovePidFile()

	if err := d.manager.StartWatching(d.ctx); err != nil {
		log.Printf("Daemon: config watch unavailable: %v", err)
	}
	defer d.manager.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	go func() {
		sig := <-sigCh
		log.Printf("Daemon: received signal %v, shutting down gracefully", sig)
		d.cancel()
	}()

	// Close the listener when context is done.
	go func() {
		<-d.ctx.Done()
		ln.Close()
	}()

	log.Printf("Daemon: started, listening on socket")

	for {
		c, err := ln.Accept()
		if err != nil {
			if d.ctx.Err() != nil {
				log.Printf("Daemon: shutdown requested")
				d.teardown()
				return nil
			}
			log.Printf("Daemon: accept error: %v", err)
			d.teardown()
			return fmt.Errorf("accept failed: %w", err)
		}
		go d.handle(c)
	}
}

// teardown releases any live capture and sound handles.
func (d *Daemon) teardown() {
	d.session.Close()
	d.playback.Stop()
}

func (d *Daemon) handle(c net.Conn) {
	defer c.Close()

	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		log.Printf("Daemon: client read error: %v", err)
		fmt.Fprintf(c, "ERR read_error: %v\n", err)
		return
	}

	fmt.Fprintf(c, "%s\n", d.dispatch(strings.TrimSpace(line)))
}

// dispatch executes one control command and returns the one-line response.
func (d *Daemon) dispatch(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "ERR empty"
	}

	verb := fields[0]
	switch verb {
	case "record":
		if err := d.session.Start(d.ctx); err != nil {
			return fmt.Sprintf("ERR %v", err)
		}
		return "OK recording"

	case "pause":
		if err := d.session.PauseResume(); err != nil {
			return fmt.Sprintf("ERR %v", err)
		}
		return fmt.Sprintf("OK %s", d.session.Status())

	case "stop":
		if err := d.session.Stop(); err != nil {
			return fmt.Sprintf("ERR %v", err)
		}
		return "OK stopped"

	case "play":
		if len(fields) < 2 {
			return "ERR play requires a recording id"
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return fmt.Sprintf("ERR invalid recording id %q", fields[1])
		}
		if err := d.playback.Play(id); err != nil {
			return fmt.Sprintf("ERR %v", err)
		}
		return fmt.Sprintf("OK playing %d", id)

	case "toggle":
		if err := d.playback.TogglePause(); err != nil {
			return fmt.Sprintf("ERR %v", err)
		}
		return "OK toggled"

	case "halt":
		d.playback.Stop()
		return "OK halted"

	case "list":
		payload, err := json.Marshal(d.store.Snapshot())
		if err != nil {
			return fmt.Sprintf("ERR %v", err)
		}
		return "DATA " + string(payload)

	case "status":
		snap := d.store.Snapshot()
		active := "none"
		if snap.Playback.ActiveID != 0 {
			active = strconv.FormatInt(snap.Playback.ActiveID, 10)
		}
		return fmt.Sprintf("STATUS capture=%s elapsed=%d playback=%s paused=%t recordings=%d",
			snap.Capture.Status, snap.Capture.ElapsedSeconds, active, snap.Playback.IsPaused, len(snap.Recordings))

	case "version":
		return fmt.Sprintf("STATUS proto=%s", bus.ProtoVer)

	case "quit":
		d.cancel()
		return "OK quitting"

	default:
		return fmt.Sprintf("ERR unknown=%q", verb)
	}
}
