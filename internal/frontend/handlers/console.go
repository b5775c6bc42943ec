package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oubliette-games/oubliette/internal/frontend/telnet"
	"github.com/oubliette-games/oubliette/internal/game/character"
	"github.com/oubliette-games/oubliette/internal/game/command"
	"github.com/oubliette-games/oubliette/internal/game/mutation"
	"github.com/oubliette-games/oubliette/internal/game/species"
	"github.com/oubliette-games/oubliette/internal/storage/postgres"
)

// CharacterStore defines the character persistence operations required by Console.
type CharacterStore interface {
	Create(ctx context.Context, c *character.Character) (*character.Character, error)
	ListByAccount(ctx context.Context, accountID int64) ([]*character.Character, error)
	GetByName(ctx context.Context, accountID int64, name string) (*character.Character, error)
	Save(ctx context.Context, c *character.Character) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Console processes wizard console commands for a logged-in account. One
// Console is shared by all sessions; per-session state lives in the session
// struct.
type Console struct {
	species    *species.Registry
	mutations  *mutation.Registry
	growth     *character.Growth
	characters CharacterStore
	accounts   AccountStore
	registry   *command.Registry
	logger     *zap.Logger
}

// session is the per-connection console state.
type session struct {
	acct    postgres.Account
	current *character.Character
	dirty   bool
}

// NewConsole creates a Console.
//
// Precondition: all arguments must be non-nil.
func NewConsole(
	speciesReg *species.Registry,
	mutationReg *mutation.Registry,
	growth *character.Growth,
	characters CharacterStore,
	accounts AccountStore,
	logger *zap.Logger,
) *Console {
	return &Console{
		species:    speciesReg,
		mutations:  mutationReg,
		growth:     growth,
		characters: characters,
		accounts:   accounts,
		registry:   command.DefaultRegistry(),
		logger:     logger,
	}
}

// Run processes console commands for acct until quit or disconnect.
//
// Postcondition: Returns nil on clean quit, or an error if the session ended abnormally.
func (co *Console) Run(ctx context.Context, conn *telnet.Conn, acct postgres.Account) error {
	start := time.Now()
	sess := &session{acct: acct}

	_ = conn.WriteLine(telnet.Colorize(telnet.Dim, "Type 'help' for console commands."))

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteLine(telnet.Colorize(telnet.Yellow, "Server shutting down. Goodbye!"))
			return ctx.Err()
		default:
		}

		prompt := acct.Username
		if sess.current != nil {
			prompt = sess.current.Name
			if sess.dirty {
				prompt += "*"
			}
		}
		if err := conn.WritePrompt(telnet.Colorf(telnet.BrightWhite, "[%s]> ", prompt)); err != nil {
			return fmt.Errorf("writing prompt: %w", err)
		}

		line, err := conn.ReadLine()
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		parsed := command.Parse(line)
		if parsed.Command == "" {
			continue
		}

		cmd, ok := co.registry.Resolve(parsed.Command)
		if !ok {
			_ = conn.WriteLine(telnet.Colorf(telnet.Red, "I don't know %q. Type 'help' for console commands.", parsed.Command))
			continue
		}

		switch cmd.Handler {
		case command.HandlerQuit:
			if sess.dirty {
				_ = conn.WriteLine(telnet.Colorize(telnet.Yellow, "Unsaved changes discarded."))
			}
			_ = conn.WriteLine(telnet.Colorize(telnet.Cyan, "Goodbye!"))
			co.logger.Info("console session ended",
				zap.String("username", acct.Username),
				zap.Duration("session_duration", time.Since(start)),
			)
			return nil
		case command.HandlerHelp:
			co.showHelp(conn)
		case command.HandlerSpecies:
			co.handleSpecies(conn, parsed.Args)
		case command.HandlerCreate:
			co.handleCreate(ctx, conn, sess, parsed.Args)
		case command.HandlerChars:
			co.handleChars(ctx, conn, sess)
		case command.HandlerLoad:
			co.handleLoad(ctx, conn, sess, parsed.Args)
		case command.HandlerInfo:
			co.handleInfo(conn, sess)
		case command.HandlerLevelUp:
			co.handleLevelUp(conn, sess, parsed.Args)
		case command.HandlerMutate:
			co.handleMutate(conn, sess, parsed.Args)
		case command.HandlerChange:
			co.handleChange(conn, sess, parsed.Args)
		case command.HandlerSave:
			co.handleSave(ctx, conn, sess)
		case command.HandlerDelete:
			co.handleDelete(ctx, conn, sess, parsed.Args)
		case command.HandlerSetRole:
			co.handleSetRole(ctx, conn, sess, parsed.Args)
		default:
			_ = conn.WriteLine(telnet.Colorf(telnet.Red, "Command %q has no console handler.", cmd.Name))
		}
	}
}

func (co *Console) showHelp(conn *telnet.Conn) {
	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.BrightWhite, "Console commands:"))
	b.WriteString("\r\n")
	for _, category := range []string{command.CategorySpecies, command.CategoryCharacter, command.CategorySystem, command.CategoryAdmin} {
		cmds := co.registry.CommandsByCategory()[category]
		for _, c := range cmds {
			name := c.Name
			if len(c.Aliases) > 0 {
				name += " (" + strings.Join(c.Aliases, ", ") + ")"
			}
			b.WriteString(fmt.Sprintf("  %s%-18s%s %s\r\n", telnet.Green, name, telnet.Reset, c.Help))
		}
	}
	_ = conn.Write([]byte(b.String()))
}

// findSpecies resolves a species reference: exact id, abbreviation, then
// name prefix.
func (co *Console) findSpecies(ref string) (*species.Def, bool) {
	if d, ok := co.species.Get(strings.ToLower(ref)); ok {
		return d, true
	}
	if d, ok := co.species.ByAbbrev(ref); ok {
		return d, true
	}
	return co.species.FindByPrefix(ref, false)
}

func (co *Console) handleSpecies(conn *telnet.Conn, args []string) {
	if len(args) == 0 || args[0] == "list" {
		_ = conn.Write([]byte(RenderSpeciesList(co.species)))
		return
	}

	sub := strings.ToLower(args[0])
	rest := args[1:]

	switch sub {
	case "info", "name", "slots":
	default:
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: species [list | info <sp> | name <sp> [plain|adjective|genus] | slots <sp>]"))
		return
	}

	if len(rest) == 0 {
		_ = conn.WriteLine(telnet.Colorf(telnet.Red, "Usage: species %s <species>", sub))
		return
	}

	// Name form may trail the species reference.
	form := species.NamePlain
	ref := strings.Join(rest, " ")
	if sub == "name" {
		switch strings.ToLower(rest[len(rest)-1]) {
		case "adjective":
			form = species.NameAdjective
			ref = strings.Join(rest[:len(rest)-1], " ")
		case "genus":
			form = species.NameGenus
			ref = strings.Join(rest[:len(rest)-1], " ")
		case "plain":
			ref = strings.Join(rest[:len(rest)-1], " ")
		}
	}

	def, ok := co.findSpecies(ref)
	if !ok {
		_ = conn.WriteLine(telnet.Colorf(telnet.Red, "No species matches %q.", ref))
		return
	}

	switch sub {
	case "info":
		_ = conn.Write([]byte(RenderSpeciesInfo(def, co.species)))
	case "name":
		_ = conn.WriteLine(def.DisplayName(form))
	case "slots":
		_ = conn.Write([]byte(RenderSpeciesSlots(def)))
	}
}

func (co *Console) handleCreate(ctx context.Context, conn *telnet.Conn, sess *session, args []string) {
	if len(args) < 2 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: create <name> <species>"))
		return
	}
	name := args[0]
	def, ok := co.findSpecies(strings.Join(args[1:], " "))
	if !ok {
		_ = conn.WriteLine(telnet.Colorf(telnet.Red, "No species matches %q.", strings.Join(args[1:], " ")))
		return
	}

	c, err := co.growth.Build(name, def.ID)
	if err != nil {
		switch {
		case errors.Is(err, character.ErrRemovedSpecies):
			_ = conn.WriteLine(telnet.Colorf(telnet.Red, "%s is no longer playable.", def.Name))
		case errors.Is(err, character.ErrEmptyName):
			_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Character name must not be empty."))
		default:
			_ = conn.WriteLine(telnet.Colorf(telnet.Red, "Creation failed: %v", err))
		}
		return
	}
	c.AccountID = sess.acct.ID

	created, err := co.characters.Create(ctx, c)
	if err != nil {
		if errors.Is(err, postgres.ErrCharacterNameTaken) {
			_ = conn.WriteLine(telnet.Colorf(telnet.Red, "You already have a character named %s.", name))
			return
		}
		co.logger.Error("creating character", zap.Error(err))
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "An internal error occurred. Please try again."))
		return
	}

	sess.current = created
	sess.dirty = false
	_ = conn.WriteLine(telnet.Colorf(telnet.BrightGreen, "Welcome, %s the %s.", created.Name, created.SpeciesName))
	_ = conn.Write([]byte(RenderCharacter(created, co.species)))
}

func (co *Console) handleChars(ctx context.Context, conn *telnet.Conn, sess *session) {
	chars, err := co.characters.ListByAccount(ctx, sess.acct.ID)
	if err != nil {
		co.logger.Error("listing characters", zap.Error(err))
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "An internal error occurred. Please try again."))
		return
	}
	if len(chars) == 0 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Dim, "You have no characters. Use 'create <name> <species>'."))
		return
	}
	for _, c := range chars {
		marker := " "
		if sess.current != nil && c.ID == sess.current.ID {
			marker = "*"
		}
		_ = conn.WriteLine(fmt.Sprintf("%s %s, level %d %s", marker,
			telnet.Colorize(telnet.BrightWhite, c.Name), c.Level, c.SpeciesName))
	}
}

func (co *Console) handleLoad(ctx context.Context, conn *telnet.Conn, sess *session, args []string) {
	if len(args) < 1 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: load <name>"))
		return
	}
	c, err := co.characters.GetByName(ctx, sess.acct.ID, args[0])
	if err != nil {
		if errors.Is(err, postgres.ErrCharacterNotFound) {
			_ = conn.WriteLine(telnet.Colorf(telnet.Red, "No character named %s.", args[0]))
			return
		}
		co.logger.Error("loading character", zap.Error(err))
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "An internal error occurred. Please try again."))
		return
	}
	sess.current = c
	sess.dirty = false
	_ = conn.WriteLine(telnet.Colorf(telnet.BrightGreen, "Loaded %s.", c.Name))
}

// requireCurrent writes a usage hint and returns nil when no character is loaded.
func requireCurrent(conn *telnet.Conn, sess *session) *character.Character {
	if sess.current == nil {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "No character loaded. Use 'create' or 'load' first."))
		return nil
	}
	return sess.current
}

func (co *Console) handleInfo(conn *telnet.Conn, sess *session) {
	c := requireCurrent(conn, sess)
	if c == nil {
		return
	}
	_ = conn.Write([]byte(RenderCharacter(c, co.species)))
}

func (co *Console) handleLevelUp(conn *telnet.Conn, sess *session, args []string) {
	c := requireCurrent(conn, sess)
	if c == nil {
		return
	}
	n := 1
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 1 {
			_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: levelup [n]"))
			return
		}
		n = parsed
	}
	for i := 0; i < n; i++ {
		messages, err := co.growth.LevelUp(c)
		if err != nil {
			_ = conn.WriteLine(telnet.Colorf(telnet.Red, "Level up failed: %v", err))
			return
		}
		_ = conn.WriteLine(telnet.Colorf(telnet.BrightYellow, "You are now level %d.", c.Level))
		for _, msg := range messages {
			_ = conn.WriteLine(telnet.Colorize(telnet.Magenta, msg))
		}
	}
	sess.dirty = true
}

func (co *Console) handleMutate(conn *telnet.Conn, sess *session, args []string) {
	c := requireCurrent(conn, sess)
	if c == nil {
		return
	}
	if len(args) < 1 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: mutate <mutation> [levels]"))
		return
	}
	def, ok := co.mutations.Get(args[0])
	if !ok {
		_ = conn.WriteLine(telnet.Colorf(telnet.Red, "Unknown mutation %q.", args[0]))
		return
	}
	levels := 1
	if len(args) > 1 {
		parsed, err := strconv.Atoi(args[1])
		if err != nil || parsed < 1 {
			_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: mutate <mutation> [levels]"))
			return
		}
		levels = parsed
	}

	gained := c.Mutations.Gain(def, levels, false)
	if gained == 0 {
		_ = conn.WriteLine(telnet.Colorf(telnet.Dim, "%s is already at its maximum level.", def.Name))
		return
	}
	if msg := def.GainMessage(c.Mutations.Level(def.ID)); msg != "" {
		_ = conn.WriteLine(telnet.Colorize(telnet.Magenta, msg))
	} else {
		_ = conn.WriteLine(telnet.Colorf(telnet.Magenta, "You gain %s (level %d).", def.Name, c.Mutations.Level(def.ID)))
	}
	if sdef, ok := co.species.Get(c.Species); ok {
		co.growth.RecalcHP(c, sdef)
		co.growth.RecalcMP(c, sdef)
	}
	sess.dirty = true
}

func (co *Console) handleChange(conn *telnet.Conn, sess *session, args []string) {
	c := requireCurrent(conn, sess)
	if c == nil {
		return
	}
	if len(args) < 1 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: change <species>"))
		return
	}
	def, ok := co.findSpecies(strings.Join(args, " "))
	if !ok {
		_ = conn.WriteLine(telnet.Colorf(telnet.Red, "No species matches %q.", strings.Join(args, " ")))
		return
	}

	report, err := co.growth.ChangeSpecies(c, def.ID)
	if err != nil {
		_ = conn.WriteLine(telnet.Colorf(telnet.Red, "Species change failed: %v", err))
		return
	}

	_ = conn.WriteLine(telnet.Colorf(telnet.BrightYellow, "Your body transforms. You are now a %s!", c.SpeciesName))
	for _, msg := range report.Messages {
		_ = conn.WriteLine(telnet.Colorize(telnet.Magenta, msg))
	}
	sess.dirty = true
}

func (co *Console) handleSave(ctx context.Context, conn *telnet.Conn, sess *session) {
	c := requireCurrent(conn, sess)
	if c == nil {
		return
	}
	if err := co.characters.Save(ctx, c); err != nil {
		co.logger.Error("saving character", zap.Error(err))
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "An internal error occurred. Please try again."))
		return
	}
	sess.dirty = false
	_ = conn.WriteLine(telnet.Colorf(telnet.BrightGreen, "%s saved.", c.Name))
}

func (co *Console) handleDelete(ctx context.Context, conn *telnet.Conn, sess *session, args []string) {
	if len(args) < 1 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: delete <name>"))
		return
	}
	c, err := co.characters.GetByName(ctx, sess.acct.ID, args[0])
	if err != nil {
		if errors.Is(err, postgres.ErrCharacterNotFound) {
			_ = conn.WriteLine(telnet.Colorf(telnet.Red, "No character named %s.", args[0]))
			return
		}
		co.logger.Error("deleting character", zap.Error(err))
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "An internal error occurred. Please try again."))
		return
	}
	if err := co.characters.Delete(ctx, c.ID); err != nil {
		co.logger.Error("deleting character", zap.Error(err))
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "An internal error occurred. Please try again."))
		return
	}
	if sess.current != nil && sess.current.ID == c.ID {
		sess.current = nil
		sess.dirty = false
	}
	_ = conn.WriteLine(telnet.Colorf(telnet.Yellow, "%s is gone.", c.Name))
}

func (co *Console) handleSetRole(ctx context.Context, conn *telnet.Conn, sess *session, args []string) {
	if sess.acct.Role != postgres.RoleAdmin {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "You are not an admin."))
		return
	}
	if len(args) < 2 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: setrole <username> <player|editor|admin>"))
		return
	}
	acct, err := co.accounts.GetByUsername(ctx, args[0])
	if err != nil {
		if errors.Is(err, postgres.ErrAccountNotFound) {
			_ = conn.WriteLine(telnet.Colorf(telnet.Red, "No account named %s.", args[0]))
			return
		}
		co.logger.Error("looking up account", zap.Error(err))
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "An internal error occurred. Please try again."))
		return
	}
	if err := co.accounts.SetRole(ctx, acct.ID, args[1]); err != nil {
		if errors.Is(err, postgres.ErrInvalidRole) {
			_ = conn.WriteLine(telnet.Colorf(telnet.Red, "Invalid role %q.", args[1]))
			return
		}
		co.logger.Error("setting role", zap.Error(err))
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "An internal error occurred. Please try again."))
		return
	}
	_ = conn.WriteLine(telnet.Colorf(telnet.BrightGreen, "%s is now %s.", acct.Username, args[1]))
}
