package cmd

// commands holds the registered commands indexed by their name and aliases.
var commands = map[string]Command{}

// Register registers a command under its name and all of its aliases. A
// command registered earlier under the same name or alias is overwritten.
// Commands are registered during startup, so Register is not safe for
// concurrent use.
func Register(command Command) {
	commands[command.name] = command
	for _, alias := range command.aliases {
		commands[alias] = command
	}
}

// ByAlias looks up a command by one of the names it was registered under.
func ByAlias(alias string) (Command, bool) {
	command, ok := commands[alias]
	return command, ok
}

// Commands returns the registered commands indexed by the names they were
// registered under. Commands with aliases appear once per alias.
func Commands() map[string]Command {
	return commands
}
