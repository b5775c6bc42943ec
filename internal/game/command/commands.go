// Package command provides the command registry, parser, and built-in command definitions.
package command

// Categories for organizing commands.
const (
	CategorySpecies   = "species"
	CategoryCharacter = "character"
	CategorySystem    = "system"
	CategoryAdmin     = "admin"
)

// Handler identifiers mapping commands to console handlers.
const (
	HandlerSpecies = "species"
	HandlerCreate  = "create"
	HandlerChars   = "chars"
	HandlerLoad    = "load"
	HandlerInfo    = "info"
	HandlerLevelUp = "levelup"
	HandlerMutate  = "mutate"
	HandlerChange  = "change"
	HandlerSave    = "save"
	HandlerDelete  = "delete"
	HandlerQuit    = "quit"
	HandlerHelp    = "help"
	HandlerSetRole = "setrole"
)

// Command defines a console-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed on the console.
	Help string
	// Category groups the command (species, character, system, admin).
	Category string
	// Handler maps to the console handler.
	Handler string
}

// BuiltinCommands returns all built-in commands for the wizard console.
func BuiltinCommands() []Command {
	return []Command{
		// Species catalog commands
		{Name: "species", Aliases: []string{"sp"}, Help: "Species catalog (species list | info <sp> | name <sp> [form] | slots <sp>)", Category: CategorySpecies, Handler: HandlerSpecies},

		// Character commands
		{Name: "create", Aliases: []string{"cr"}, Help: "Create a character (create <name> <species>)", Category: CategoryCharacter, Handler: HandlerCreate},
		{Name: "chars", Aliases: []string{"ls"}, Help: "List your characters", Category: CategoryCharacter, Handler: HandlerChars},
		{Name: "load", Aliases: nil, Help: "Load a character (load <name>)", Category: CategoryCharacter, Handler: HandlerLoad},
		{Name: "info", Aliases: []string{"sheet"}, Help: "Show the loaded character", Category: CategoryCharacter, Handler: HandlerInfo},
		{Name: "levelup", Aliases: []string{"lv"}, Help: "Advance the loaded character one level (levelup [n])", Category: CategoryCharacter, Handler: HandlerLevelUp},
		{Name: "mutate", Aliases: []string{"mut"}, Help: "Give an acquired mutation (mutate <mutation> [levels])", Category: CategoryCharacter, Handler: HandlerMutate},
		{Name: "change", Aliases: []string{"ch"}, Help: "Change the loaded character's species (change <species>)", Category: CategoryCharacter, Handler: HandlerChange},
		{Name: "save", Aliases: nil, Help: "Persist the loaded character", Category: CategoryCharacter, Handler: HandlerSave},
		{Name: "delete", Aliases: nil, Help: "Delete a character (delete <name>)", Category: CategoryCharacter, Handler: HandlerDelete},

		// System commands
		{Name: "quit", Aliases: []string{"exit"}, Help: "Disconnect from the console", Category: CategorySystem, Handler: HandlerQuit},
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},

		// Admin commands
		{Name: "setrole", Aliases: nil, Help: "Set an account's role (admin only)", Category: CategoryAdmin, Handler: HandlerSetRole},
	}
}
