package ports

// Interactor is the line-oriented terminal the shell talks through.
type Interactor interface {
	Output(message string)
	Outputf(format string, args ...interface{})
	Success(message string)
	Warning(message string)
	Error(message string, err error)

	// Prompt writes message and returns the next input line without its
	// line terminator. io.EOF means the input is exhausted.
	Prompt(message string) (string, error)
	Confirm(message string) (bool, error)
}
