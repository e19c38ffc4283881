// Package handlers runs the character terminal on Telnet sessions.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spacegothic/internal/frontend/telnet"
	"github.com/cory-johannsen/spacegothic/internal/game/command"
	"github.com/cory-johannsen/spacegothic/internal/game/session"
)

const maxCallsignLen = 32

const welcomeBanner = telnet.Bold + telnet.BrightRed + `
  S P A C E   G O T H I C` + telnet.Reset + `
` + telnet.BrightYellow + `  Mercenary Registration Terminal` + telnet.Reset + `

  Roll your attributes, spend up to your reroll allowance, and test
  your sidearm on the range. Type ` + telnet.Green + `help` + telnet.Reset + ` once registered.
`

// Terminal implements telnet.SessionHandler: it asks for a callsign, opens a
// simulator session for it and runs the command loop.
type Terminal struct {
	sessions *session.Manager
	store    session.SheetStore
	registry *command.Registry
	logger   *zap.Logger
}

// NewTerminal creates a Terminal. A nil store disables the save command.
//
// Precondition: sessions, registry and logger must be non-nil.
func NewTerminal(sessions *session.Manager, store session.SheetStore, registry *command.Registry, logger *zap.Logger) *Terminal {
	return &Terminal{
		sessions: sessions,
		store:    store,
		registry: registry,
		logger:   logger,
	}
}

// HandleSession implements telnet.SessionHandler.
//
// Postcondition: The session opened for the client is closed on return.
// Returns nil on quit, or the read/write error that ended the connection.
func (t *Terminal) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	start := time.Now()
	if err := conn.WriteLines(welcomeBanner); err != nil {
		return fmt.Errorf("sending welcome: %w", err)
	}

	sess, err := t.register(ctx, conn)
	if err != nil || sess == nil {
		return err
	}
	defer func() {
		if err := t.sessions.Close(sess.UserID); err != nil {
			t.logger.Warn("closing session", zap.Error(err))
		}
	}()

	log := t.logger.With(zap.String("user_id", sess.UserID), zap.String("remote_addr", conn.RemoteAddr()))
	log.Info("mercenary registered", zap.Duration("elapsed", time.Since(start)))
	_ = conn.WriteLine(telnet.Colorf(telnet.BrightGreen, "Welcome, %s. Type 'generate' to roll your attributes.", sess.UserID))

	tc := &terminalContext{ctx: ctx, conn: conn, sess: sess, store: t.store, registry: t.registry, logger: log}
	for {
		if ctx.Err() != nil {
			_ = conn.WriteLine(telnet.Colorize(telnet.Yellow, "Terminal shutting down. Goodbye!"))
			return ctx.Err()
		}
		if err := conn.WritePrompt(telnet.Colorf(telnet.BrightWhite, "[%s]> ", sess.UserID)); err != nil {
			return fmt.Errorf("writing prompt: %w", err)
		}
		line, err := conn.ReadLine()
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		quit, err := tc.dispatch(line)
		if err != nil {
			return err
		}
		if quit {
			log.Info("mercenary quit", zap.Duration("session_duration", time.Since(start)))
			return nil
		}
	}
}

// register prompts until a free callsign opens a session. A nil session with
// a nil error means the client quit.
func (t *Terminal) register(ctx context.Context, conn *telnet.Conn) (*session.Session, error) {
	for ctx.Err() == nil {
		if err := conn.WritePrompt("Callsign: "); err != nil {
			return nil, fmt.Errorf("writing prompt: %w", err)
		}
		line, err := conn.ReadLine()
		if err != nil {
			return nil, fmt.Errorf("reading callsign: %w", err)
		}
		callsign := strings.TrimSpace(line)
		switch {
		case callsign == "":
			continue
		case strings.EqualFold(callsign, "quit"):
			_ = conn.WriteLine(telnet.Colorize(telnet.Cyan, "Goodbye!"))
			return nil, nil
		case len(callsign) > maxCallsignLen || strings.ContainsAny(callsign, " \t"):
			_ = conn.WriteLine(telnet.Colorf(telnet.Red, "Callsigns are one word of at most %d characters.", maxCallsignLen))
			continue
		}
		sess, err := t.sessions.Open(callsign)
		if err != nil {
			_ = conn.WriteLine(telnet.Colorf(telnet.Red, "Callsign %s is already on the terminal.", callsign))
			continue
		}
		return sess, nil
	}
	return nil, ctx.Err()
}

// writeNotice writes msg as a highlighted notice.
func writeNotice(conn *telnet.Conn, msg string) error {
	return conn.WriteLine(telnet.Colorize(telnet.BrightRed, msg))
}

// noticeFor maps a session error to its notice, or "" for internal errors.
func noticeFor(err error) string {
	switch {
	case errors.Is(err, session.ErrNotGenerated):
		return "Generate a character first."
	default:
		return ""
	}
}
