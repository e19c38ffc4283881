// Package command defines the terminal commands and resolves typed input to them.
package command

// Categories group commands in help output.
const (
	CategoryCharacter = "character"
	CategoryCombat    = "combat"
	CategoryDossier   = "dossier"
	CategorySystem    = "system"
)

// Handler identifiers dispatched by the terminal.
const (
	HandlerGenerate = "generate"
	HandlerReroll   = "reroll"
	HandlerTrait    = "trait"
	HandlerWage     = "wage"
	HandlerSheet    = "sheet"
	HandlerRange    = "range"
	HandlerFire     = "fire"
	HandlerReload   = "reload"
	HandlerAmmo     = "ammo"
	HandlerDossier  = "dossier"
	HandlerSave     = "save"
	HandlerHelp     = "help"
	HandlerQuit     = "quit"
)

// Command is one terminal command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument syntax, empty when the command takes none.
	Usage string
	// Help is the one-line description shown by the help command.
	Help string
	// Category groups the command in help output.
	Category string
	// Handler names the terminal operation the command runs.
	Handler string
}

// BuiltinCommands returns every terminal command in help order.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "generate", Aliases: []string{"gen", "roll"}, Help: "Roll a new set of attributes", Category: CategoryCharacter, Handler: HandlerGenerate},
		{Name: "reroll", Aliases: []string{"rr"}, Usage: "<attribute|1-8>", Help: "Reroll one attribute (uses the reroll budget)", Category: CategoryCharacter, Handler: HandlerReroll},
		{Name: "trait", Aliases: []string{"tr"}, Help: "Roll a special trait (uses the reroll budget)", Category: CategoryCharacter, Handler: HandlerTrait},
		{Name: "wage", Aliases: []string{"pay"}, Help: "Roll the monthly wage in energy units", Category: CategoryCharacter, Handler: HandlerWage},
		{Name: "sheet", Aliases: []string{"stats", "st"}, Help: "Show the character sheet", Category: CategoryCharacter, Handler: HandlerSheet},

		{Name: "range", Aliases: []string{"rng"}, Usage: "<short|medium|long>", Help: "Set the target range band", Category: CategoryCombat, Handler: HandlerRange},
		{Name: "fire", Aliases: []string{"f", "shoot"}, Usage: "[single|semi|full]", Help: "Fire one volley (default single)", Category: CategoryCombat, Handler: HandlerFire},
		{Name: "reload", Aliases: []string{"rl"}, Help: "Refill the magazine", Category: CategoryCombat, Handler: HandlerReload},
		{Name: "ammo", Aliases: []string{"mag"}, Help: "Show the magazine gauge", Category: CategoryCombat, Handler: HandlerAmmo},

		{Name: "dossier", Aliases: []string{"dos"}, Usage: "[<field> = <value>]", Help: "Show the personal dossier or set one field", Category: CategoryDossier, Handler: HandlerDossier},
		{Name: "save", Help: "Save the character sheet", Category: CategoryDossier, Handler: HandlerSave},

		{Name: "help", Aliases: []string{"?", "h"}, Help: "List commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit", "q"}, Help: "Disconnect", Category: CategorySystem, Handler: HandlerQuit},
	}
}
