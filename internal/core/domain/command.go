package domain

// Command is an external process invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env holds extra "KEY=VALUE" entries on top of the inherited environment.
	Env []string
	// Privileged commands are prefixed with sudo unless already running as root.
	Privileged bool
	// Interactive commands are attached to the controlling terminal.
	Interactive bool
}

// Argv returns the command name followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}
