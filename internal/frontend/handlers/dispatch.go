package handlers

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spacegothic/internal/frontend/telnet"
	"github.com/cory-johannsen/spacegothic/internal/game/character"
	"github.com/cory-johannsen/spacegothic/internal/game/combat"
	"github.com/cory-johannsen/spacegothic/internal/game/command"
	"github.com/cory-johannsen/spacegothic/internal/game/inventory"
	"github.com/cory-johannsen/spacegothic/internal/game/session"
)

// terminalContext carries everything a command handler needs.
type terminalContext struct {
	ctx      context.Context
	conn     *telnet.Conn
	sess     *session.Session
	store    session.SheetStore
	registry *command.Registry
	logger   *zap.Logger
	parsed   command.ParseResult
}

// handlerFunc runs one command. quit ends the session cleanly; a non-nil
// error ends it abnormally.
type handlerFunc func(tc *terminalContext) (quit bool, err error)

// Handlers returns the dispatch table keyed by command handler identifier.
func Handlers() map[string]handlerFunc {
	return handlerMap
}

var handlerMap = map[string]handlerFunc{
	command.HandlerGenerate: handleGenerate,
	command.HandlerReroll:   handleReroll,
	command.HandlerTrait:    handleTrait,
	command.HandlerWage:     handleWage,
	command.HandlerSheet:    handleSheet,
	command.HandlerRange:    handleRange,
	command.HandlerFire:     handleFire,
	command.HandlerReload:   handleReload,
	command.HandlerAmmo:     handleAmmo,
	command.HandlerDossier:  handleDossier,
	command.HandlerSave:     handleSave,
	command.HandlerHelp:     handleHelp,
	command.HandlerQuit:     handleQuit,
}

func (tc *terminalContext) dispatch(line string) (bool, error) {
	parsed := command.Parse(line)
	if parsed.Command == "" {
		return false, nil
	}
	cmd, ok := tc.registry.Resolve(parsed.Command)
	if !ok {
		return false, tc.conn.WriteLine(telnet.Colorf(telnet.Red, "Unknown command: %s. Type 'help' for available commands.", parsed.Command))
	}
	fn, ok := handlerMap[cmd.Handler]
	if !ok {
		tc.logger.Error("command has no handler", zap.String("command", cmd.Name))
		return false, tc.conn.WriteLine(telnet.Colorf(telnet.Red, "%s is not available.", cmd.Name))
	}
	tc.parsed = parsed
	return fn(tc)
}

func (tc *terminalContext) usage(cmd string) (bool, error) {
	c, _ := tc.registry.Resolve(cmd)
	return false, tc.conn.WriteLine(telnet.Colorf(telnet.Red, "Usage: %s %s", c.Name, c.Usage))
}

func (tc *terminalContext) write(text string) (bool, error) {
	return false, tc.conn.WriteLines(text)
}

// fail reports err as a notice when it is a known recoverable error, and as
// a generic internal error otherwise.
func (tc *terminalContext) fail(err error) (bool, error) {
	if msg := noticeFor(err); msg != "" {
		return false, writeNotice(tc.conn, msg)
	}
	tc.logger.Error("command failed", zap.Error(err))
	return false, writeNotice(tc.conn, "An internal error occurred. Please try again.")
}

func handleGenerate(tc *terminalContext) (bool, error) {
	return tc.write(RenderCharacter(tc.sess.Generate()))
}

// parseAttributeArg accepts a 1-based sheet number or an attribute name.
func parseAttributeArg(arg string) (character.Attribute, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		return character.ParseAttribute(strconv.Itoa(n - 1))
	}
	return character.ParseAttribute(arg)
}

func handleReroll(tc *terminalContext) (bool, error) {
	if len(tc.parsed.Args) != 1 {
		return tc.usage(command.HandlerReroll)
	}
	a, err := parseAttributeArg(tc.parsed.Args[0])
	if err != nil {
		return false, writeNotice(tc.conn, "Unknown attribute: "+tc.parsed.Args[0])
	}
	st, err := tc.sess.Reroll(a)
	switch {
	case errors.Is(err, character.ErrBudgetExhausted):
		return false, writeNotice(tc.conn, "Reroll limit reached!")
	case err != nil:
		return tc.fail(err)
	}
	return tc.write(telnet.Colorf(telnet.Cyan, "%s rerolled.", a) + "\n" + RenderCharacter(st))
}

func handleTrait(tc *terminalContext) (bool, error) {
	trait, st, err := tc.sess.RollTrait()
	if errors.Is(err, character.ErrBudgetExhausted) {
		return false, writeNotice(tc.conn, "Reroll limit reached!")
	}
	if err != nil {
		return tc.fail(err)
	}
	return tc.write(telnet.Colorf(telnet.Magenta, "Special trait: %s", trait) + "\nRerolls left: " + renderBudget(st.Budget))
}

func handleWage(tc *terminalContext) (bool, error) {
	return tc.write(telnet.Colorf(telnet.BrightYellow, "Monthly wage: %d EU", tc.sess.RollMonthlyWage()))
}

func handleSheet(tc *terminalContext) (bool, error) {
	st := tc.sess.Character()
	if !st.Attributes.Generated() {
		return tc.fail(session.ErrNotGenerated)
	}
	return tc.write(RenderCharacter(st) + "\n" + RenderEngagement(tc.sess.Engagement()))
}

func handleRange(tc *terminalContext) (bool, error) {
	if len(tc.parsed.Args) == 0 {
		return tc.write(RenderEngagement(tc.sess.Engagement()))
	}
	band, err := inventory.ParseRangeBand(tc.parsed.Args[0])
	if err != nil {
		return tc.usage(command.HandlerRange)
	}
	chance := tc.sess.SelectRange(band)
	return tc.write(telnet.Colorf(telnet.Cyan, "Target at %s range. Hit chance %d%%.", band, chance))
}

func handleFire(tc *terminalContext) (bool, error) {
	mode := inventory.FireModeSingle
	if len(tc.parsed.Args) > 0 {
		m, err := inventory.ParseFireMode(tc.parsed.Args[0])
		if err != nil {
			return tc.usage(command.HandlerFire)
		}
		mode = m
	}
	res, mag, err := tc.sess.Fire(mode)
	if errors.Is(err, combat.ErrOutOfAmmo) {
		return false, writeNotice(tc.conn, "Not enough bullets for "+mode.Label()+"!")
	}
	if err != nil {
		return tc.fail(err)
	}
	return tc.write(RenderVolley(res, mag))
}

func handleReload(tc *terminalContext) (bool, error) {
	mag := tc.sess.Reload()
	return tc.write(telnet.Colorize(telnet.Green, "Magazine reloaded.") + "\n" + RenderMagazine(mag))
}

func handleAmmo(tc *terminalContext) (bool, error) {
	return tc.write(RenderMagazine(*tc.sess.Engagement().Magazine))
}

func handleDossier(tc *terminalContext) (bool, error) {
	raw := tc.parsed.RawArgs
	if raw == "" {
		return tc.write(RenderDossier(tc.sess.Dossier()))
	}
	field, value, ok := command.SplitAssignment(raw)
	if !ok || field == "" {
		return tc.usage(command.HandlerDossier)
	}
	if err := tc.sess.SetDossierField(field, value); err != nil {
		if errors.Is(err, character.ErrUnknownDossierField) {
			return false, writeNotice(tc.conn, "Unknown dossier field: "+field)
		}
		return tc.fail(err)
	}
	canon, _ := character.CanonicalDossierField(field)
	if value == "" {
		return tc.write(telnet.Colorf(telnet.Cyan, "%s cleared.", canon))
	}
	return tc.write(telnet.Colorf(telnet.Cyan, "%s set.", canon))
}

func handleSave(tc *terminalContext) (bool, error) {
	if tc.store == nil {
		return false, writeNotice(tc.conn, "Saving is disabled on this terminal.")
	}
	sheet, err := tc.sess.Save(tc.ctx, tc.store)
	if err != nil {
		return tc.fail(err)
	}
	return tc.write(telnet.Colorf(telnet.BrightGreen, "Character sheet saved as %s.", sheet.ID))
}

func handleHelp(tc *terminalContext) (bool, error) {
	return tc.write(RenderHelp(tc.registry))
}

func handleQuit(tc *terminalContext) (bool, error) {
	_ = tc.conn.WriteLine(telnet.Colorize(telnet.Cyan, "Goodbye!"))
	return true, nil
}
