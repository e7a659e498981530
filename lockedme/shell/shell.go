// Package shell implements the interactive numbered-menu front end over a
// directory store.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	internal "github.com/ZanzyTHEbar/lockedme/lockedme"
	"github.com/ZanzyTHEbar/lockedme/lockedme/filesystem/types"
	"github.com/ZanzyTHEbar/lockedme/lockedme/ports"
	"github.com/ZanzyTHEbar/lockedme/lockedme/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store is the subset of filesystem.DirectoryStore the shell drives.
type Store interface {
	Dir() string
	ListSorted() ([]string, error)
	Create(name string) (types.Outcome, error)
	Delete(name string) (types.Outcome, error)
	Find(name string) (types.FileEntry, bool, error)
	FindByPattern(pattern string) ([]string, error)
}

const (
	mainList = iota + 1
	mainFileOps
	mainExit
)

const (
	opsAdd = iota + 1
	opsDelete
	opsSearch
	opsFindPattern
	opsBack
)

var (
	errCancelled       = errors.New("operation cancelled")
	errTooManyAttempts = errors.New("too many invalid attempts")
)

// Shell runs the menu loop. It never returns on a failed file operation;
// only end of input, the exit option or context cancellation stop it.
type Shell struct {
	store       Store
	validator   *validation.Validator
	term        ports.Interactor
	logger      zerolog.Logger
	maxAttempts int
}

// New creates a shell. maxAttempts below one falls back to the default.
func New(store Store, validator *validation.Validator, term ports.Interactor, logger zerolog.Logger, maxAttempts int) *Shell {
	if maxAttempts < 1 {
		maxAttempts = internal.DefaultMaxAttempts
	}
	if validator == nil {
		validator = validation.New()
	}

	return &Shell{
		store:       store,
		validator:   validator,
		term:        term,
		logger:      logger.With().Str("session", uuid.NewString()).Logger(),
		maxAttempts: maxAttempts,
	}
}

// Run shows the welcome banner and serves the main menu until the user
// exits or input ends.
func (s *Shell) Run(ctx context.Context) error {
	s.logger.Info().Str("dir", s.store.Dir()).Msg("Shell session started")
	defer s.logger.Info().Msg("Shell session ended")

	s.welcome()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.mainMenu()
		choice, err := s.readChoice(mainList, mainExit)
		switch {
		case errors.Is(err, io.EOF):
			s.goodbye()
			return nil
		case errors.Is(err, errTooManyAttempts):
			s.term.Warning("Too many invalid attempts. Returning to the main menu.")
			continue
		case err != nil:
			return fmt.Errorf("failed to read menu choice: %w", err)
		}

		switch choice {
		case mainList:
			s.listFiles()
		case mainFileOps:
			if err := s.fileOperations(ctx); err != nil {
				if errors.Is(err, io.EOF) {
					s.goodbye()
					return nil
				}
				return err
			}
		case mainExit:
			s.goodbye()
			return nil
		}
	}
}

func (s *Shell) fileOperations(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.fileOperationsMenu()
		choice, err := s.readChoice(opsAdd, opsBack)
		if errors.Is(err, errTooManyAttempts) {
			s.term.Warning("Too many invalid attempts. Returning to the main menu.")
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case opsAdd:
			err = s.addFile()
		case opsDelete:
			err = s.deleteFile()
		case opsSearch:
			err = s.searchFile()
		case opsFindPattern:
			err = s.findByPattern()
		case opsBack:
			return nil
		}

		switch {
		case err == nil:
		case errors.Is(err, errCancelled):
			s.term.Output("Operation cancelled.")
		case errors.Is(err, errTooManyAttempts):
			s.term.Warning("Too many invalid attempts. Operation abandoned.")
		default:
			return err
		}
	}
}

func (s *Shell) welcome() {
	s.term.Output("=========================================")
	s.term.Outputf("    Welcome to %s\n", internal.DefaultAppDisplayName)
	s.term.Output("=========================================")
	s.term.Outputf("Directory: %s\n", s.store.Dir())
	s.term.Output("=========================================")
}

func (s *Shell) goodbye() {
	s.term.Output("=========================================")
	s.term.Outputf("Thank you for using %s!\n", internal.DefaultAppDisplayName)
	s.term.Output("=========================================")
}

func (s *Shell) mainMenu() {
	s.term.Output("")
	s.term.Output("=== Main Menu ===")
	s.term.Output("1. List files in ascending order")
	s.term.Output("2. File operations")
	s.term.Output("3. Exit")
}

func (s *Shell) fileOperationsMenu() {
	s.term.Output("")
	s.term.Output("=== File Operations ===")
	s.term.Output("1. Add a file")
	s.term.Output("2. Delete a file")
	s.term.Output("3. Search for a file")
	s.term.Output("4. Find files by pattern")
	s.term.Output("5. Back to main menu")
}

// readChoice prompts for a menu number, allowing maxAttempts tries.
func (s *Shell) readChoice(min, max int) (int, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		line, err := s.term.Prompt(fmt.Sprintf("Enter your choice (%d-%d): ", min, max))
		if errors.Is(err, ErrLineTooLong) {
			s.rejectLongLine(attempt)
			continue
		}
		if err != nil {
			return 0, err
		}

		choice, err := validation.ParseMenuChoice(line, min, max)
		if err == nil {
			return choice, nil
		}

		s.logger.Debug().Str("input", line).Int("attempt", attempt).Err(err).Msg("Invalid menu choice")
		s.term.Warning(fmt.Sprintf("%s (attempt %d of %d)", err, attempt, s.maxAttempts))
	}
	return 0, errTooManyAttempts
}

func (s *Shell) rejectLongLine(attempt int) {
	s.logger.Debug().Int("attempt", attempt).Msg("Input line too long")
	s.term.Warning(fmt.Sprintf("input is longer than %d bytes (attempt %d of %d)", MaxLineLength, attempt, s.maxAttempts))
}

// readName prompts for a file name until check accepts it, the user types
// a cancel word or the attempts run out. Rejections show a suggested name.
func (s *Shell) readName(prompt string, check func(string) error) (string, error) {
	return s.readInput(prompt, check, func(name string, err error) {
		s.term.Warning(fmt.Sprintf("Invalid file name: %s", validation.Reason(err)))
		s.term.Outputf("Suggestion: %s\n", s.validator.Suggest(name))
	})
}

func (s *Shell) readInput(prompt string, check func(string) error, reject func(string, error)) (string, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		line, err := s.term.Prompt(prompt)
		if errors.Is(err, ErrLineTooLong) {
			s.rejectLongLine(attempt)
			continue
		}
		if err != nil {
			return "", err
		}

		input := strings.TrimSpace(line)
		if isCancelWord(input) {
			return "", errCancelled
		}

		err = check(input)
		if err == nil {
			return input, nil
		}

		s.logger.Debug().Str("input", input).Int("attempt", attempt).Err(err).Msg("Rejected input")
		reject(input, err)
	}
	return "", errTooManyAttempts
}

func (s *Shell) listFiles() {
	s.term.Output("")
	s.term.Output("=== Files in Current Directory (Ascending Order) ===")

	names, err := s.store.ListSorted()
	if err != nil {
		s.term.Error("Could not list files", err)
		return
	}

	if len(names) == 0 {
		s.term.Output("The directory is empty. No files found.")
		return
	}

	s.term.Outputf("Files in directory (%s):\n", s.store.Dir())
	s.term.Outputf("Total files found: %d\n", len(names))
	s.term.Output("----------------------------------------")
	for i, name := range names {
		s.term.Outputf("%d. %s\n", i+1, name)
	}
	s.term.Output("----------------------------------------")
}

func (s *Shell) addFile() error {
	s.term.Output("")
	s.term.Output("=== Add File ===")

	name, err := s.readName("Enter file name to add (or 'cancel'): ", s.validator.Check)
	if err != nil {
		return err
	}

	outcome, err := s.store.Create(name)
	if err != nil {
		s.term.Error(fmt.Sprintf("Could not add file '%s'", name), err)
		return nil
	}

	switch outcome {
	case types.OutcomeCreated:
		s.term.Success(fmt.Sprintf("File '%s' added successfully!", name))
	case types.OutcomeAlreadyExists:
		s.term.Warning(fmt.Sprintf("File '%s' already exists in the directory.", name))
	}
	return nil
}

func (s *Shell) deleteFile() error {
	s.term.Output("")
	s.term.Output("=== Delete File ===")

	name, err := s.readName("Enter file name to delete, case-sensitive (or 'cancel'): ", s.validator.CheckRules)
	if err != nil {
		return err
	}

	ok, err := s.term.Confirm(fmt.Sprintf("Delete '%s'?", name))
	if err != nil {
		return err
	}
	if !ok {
		return errCancelled
	}

	outcome, err := s.store.Delete(name)
	if err != nil {
		s.term.Error(fmt.Sprintf("Could not delete file '%s'", name), err)
		return nil
	}

	switch outcome {
	case types.OutcomeDeleted:
		s.term.Success(fmt.Sprintf("File '%s' deleted successfully!", name))
	case types.OutcomeNotFound:
		s.term.Warning(fmt.Sprintf("File Not Found (FNF): '%s' does not exist.", name))
	case types.OutcomeNotAFile:
		s.term.Warning(fmt.Sprintf("'%s' is not a file.", name))
	}
	return nil
}

func (s *Shell) searchFile() error {
	s.term.Output("")
	s.term.Output("=== Search File ===")

	name, err := s.readName("Enter file name to search, case-sensitive (or 'cancel'): ", s.validator.CheckRules)
	if err != nil {
		return err
	}

	entry, found, err := s.store.Find(name)
	if err != nil {
		s.term.Error(fmt.Sprintf("Could not search for '%s'", name), err)
		return nil
	}
	if !found {
		s.term.Output(fmt.Sprintf("Search Result: File '%s' not found in the directory.", name))
		return nil
	}

	s.term.Success(fmt.Sprintf("Search Result: File '%s' found successfully!", name))
	s.showEntry(entry)
	return nil
}

func (s *Shell) showEntry(entry types.FileEntry) {
	s.term.Output("File Details:")
	s.term.Outputf("  Name: %s\n", entry.Name)
	s.term.Outputf("  Path: %s\n", entry.Path)
	s.term.Outputf("  Size: %s\n", entry.FormattedSize())
	s.term.Outputf("  Last Modified: %s\n", entry.FormattedModTime())
	s.term.Outputf("  Readable: %t\n", entry.Readable)
	s.term.Outputf("  Writable: %t\n", entry.Writable)
	s.term.Outputf("  Executable: %t\n", entry.Executable)
}

func (s *Shell) findByPattern() error {
	s.term.Output("")
	s.term.Output("=== Find Files by Pattern ===")

	pattern, err := s.readInput("Enter part of a file name (or 'cancel'): ",
		func(p string) error {
			if !validation.IsNotEmpty(p) {
				return validation.ErrEmptyInput
			}
			return nil
		},
		func(_ string, _ error) {
			s.term.Warning("Pattern cannot be empty.")
		})
	if err != nil {
		return err
	}

	matches, err := s.store.FindByPattern(pattern)
	if err != nil {
		s.term.Error(fmt.Sprintf("Could not search for '%s'", pattern), err)
		return nil
	}

	if len(matches) == 0 {
		s.term.Output(fmt.Sprintf("No files match '%s'.", pattern))
		return nil
	}

	s.term.Outputf("Found %d file(s) matching '%s':\n", len(matches), pattern)
	for _, name := range matches {
		s.term.Outputf("  %s\n", name)
	}
	return nil
}

func isCancelWord(input string) bool {
	return strings.EqualFold(input, "cancel") || strings.EqualFold(input, "exit")
}
