package cmd

// Source is the source of a command's execution: a player in a park or the
// node's console.
type Source interface {
	// Name returns the user facing name of the source.
	Name() string
	// Park returns the park the source is in. The console is in no park and
	// returns an empty string.
	Park() string
	// SendCommandOutput sends the output of a command back to the source.
	SendCommandOutput(o *Output)
}
