// Package validation checks and repairs candidate file names before they
// reach the filesystem. Every function is a pure function of its inputs.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ZanzyTHEbar/lockedme/lockedme/filesystem/common"
)

const (
	MaxFileNameLength = 255
	FallbackName      = "unnamed_file"
	DefaultExtension  = ".txt"
	UnsafeCharacters  = `<>:"/\|?*`
)

// Rule identifies the check a name failed.
type Rule int

const (
	RuleNone Rule = iota
	RuleEmpty
	RuleTooLong
	RuleUnsafeCharacter
	RuleReservedName
	RuleFormat
	RuleEdgeCharacter
)

var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

var (
	validNamePattern    = regexp.MustCompile(`^(?:[a-zA-Z0-9][a-zA-Z0-9._\- ]*[a-zA-Z0-9]|[a-zA-Z0-9])$`)
	alphanumericPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	edgeRunPattern      = regexp.MustCompile(`^[.\s]+|[.\s]+$`)
)

var (
	ErrEmptyInput   = errors.New("input cannot be empty")
	ErrNotANumber   = errors.New("not a valid number")
	ErrOutOfRange   = errors.New("value out of range")
	ErrInvalidRange = errors.New("minimum is greater than maximum")
)

// Result is the outcome of validating one name.
type Result struct {
	Valid  bool
	Rule   Rule
	Reason string
}

// Validator checks file names. The zero value applies no extension
// restriction.
type Validator struct {
	allowedExtensions []string
}

// New creates a validator. allowedExtensions, given without leading dots,
// restricts names accepted by Check; empty means any extension.
func New(allowedExtensions ...string) *Validator {
	exts := make([]string, 0, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		if ext = strings.TrimPrefix(strings.TrimSpace(ext), "."); ext != "" {
			exts = append(exts, ext)
		}
	}
	return &Validator{allowedExtensions: exts}
}

// AllowedExtensions returns the configured extension allow-list.
func (v *Validator) AllowedExtensions() []string {
	return append([]string(nil), v.allowedExtensions...)
}

// IsValid reports whether name passes every rule.
func (v *Validator) IsValid(name string) bool {
	return Validate(name).Valid
}

// Validate applies the rules in order and reports the first one violated.
func (v *Validator) Validate(name string) Result {
	return Validate(name)
}

// Check validates name against the rules and the configured extension
// allow-list, returning a validation OpError that carries the reason.
func (v *Validator) Check(name string) error {
	if err := v.CheckRules(name); err != nil {
		return err
	}
	if !HasAllowedExtension(name, v.allowedExtensions) {
		return common.NewOpError("validate", name, common.KindValidation,
			fmt.Errorf("%w: extension must be one of %s", common.ErrInvalidName, strings.Join(v.allowedExtensions, ", ")))
	}
	return nil
}

// CheckRules is Check without the extension allow-list. It suits names of
// files that already exist.
func (v *Validator) CheckRules(name string) error {
	if r := Validate(name); !r.Valid {
		return common.NewOpError("validate", name, common.KindValidation, fmt.Errorf("%w: %s", common.ErrInvalidName, r.Reason))
	}
	return nil
}

// Reason returns the human-readable reason carried by an error from Check.
func Reason(err error) string {
	var opErr *common.OpError
	if errors.As(err, &opErr) && opErr.Err != nil {
		return strings.TrimPrefix(opErr.Err.Error(), common.ErrInvalidName.Error()+": ")
	}
	return err.Error()
}

// Sanitize is the method form of the package function.
func (v *Validator) Sanitize(name string) string {
	return Sanitize(name)
}

// Suggest is the method form of the package function.
func (v *Validator) Suggest(name string) string {
	return Suggest(name)
}

// Validate applies the naming rules in order and returns the first
// violation. A valid name returns Result{Valid: true}.
func Validate(name string) Result {
	if strings.TrimSpace(name) == "" {
		return invalid(RuleEmpty, "Filename cannot be empty")
	}

	if utf8.RuneCountInString(name) > MaxFileNameLength {
		return invalid(RuleTooLong, fmt.Sprintf("Filename too long (max %d characters)", MaxFileNameLength))
	}

	if strings.ContainsAny(name, UnsafeCharacters) {
		return invalid(RuleUnsafeCharacter, `Filename contains invalid characters (< > : " / \ | ? *)`)
	}

	if isReserved(name) {
		return invalid(RuleReservedName, fmt.Sprintf("'%s' is a reserved filename", name))
	}

	if !validNamePattern.MatchString(name) {
		return invalid(RuleFormat, "Filename should start and end with alphanumeric characters")
	}

	// Checked independently of the pattern above.
	if strings.HasPrefix(name, " ") || strings.HasSuffix(name, " ") ||
		strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return invalid(RuleEdgeCharacter, "Filename cannot start or end with spaces or dots")
	}

	return Result{Valid: true, Rule: RuleNone}
}

// IsValid reports whether name passes every naming rule.
func IsValid(name string) bool {
	return Validate(name).Valid
}

func invalid(rule Rule, reason string) Result {
	return Result{Valid: false, Rule: rule, Reason: reason}
}

func isReserved(name string) bool {
	base := name
	if i := strings.LastIndex(name, "."); i >= 0 {
		base = name[:i]
	}
	_, ok := reservedNames[strings.ToUpper(base)]
	return ok
}

// Sanitize turns name into something close to a valid file name: unsafe
// characters become underscores, leading and trailing dots and whitespace
// are stripped and the result is cut to the maximum length.
func Sanitize(name string) string {
	sanitized := strings.TrimSpace(name)

	sanitized = strings.Map(func(r rune) rune {
		if strings.ContainsRune(UnsafeCharacters, r) {
			return '_'
		}
		return r
	}, sanitized)

	sanitized = edgeRunPattern.ReplaceAllString(sanitized, "")

	if utf8.RuneCountInString(sanitized) > MaxFileNameLength {
		sanitized = string([]rune(sanitized)[:MaxFileNameLength])
	}

	if sanitized == "" {
		return FallbackName
	}
	return sanitized
}

// Suggest proposes a usable name for input, adding a .txt extension when
// the sanitized name has none.
func Suggest(name string) string {
	if strings.TrimSpace(name) == "" {
		return FallbackName + DefaultExtension
	}

	suggestion := Sanitize(name)
	if !strings.Contains(suggestion, ".") {
		suggestion += DefaultExtension
	}
	return suggestion
}

// IsNotEmpty reports whether input has any non-whitespace content.
func IsNotEmpty(input string) bool {
	return strings.TrimSpace(input) != ""
}

// IsAlphanumeric reports whether input consists solely of ASCII letters and
// digits.
func IsAlphanumeric(input string) bool {
	return alphanumericPattern.MatchString(input)
}

// IsWithinLength reports whether the trimmed input length, in characters,
// lies within [min, max].
func IsWithinLength(input string, min, max int) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(input))
	return n >= min && n <= max
}

// HasAllowedExtension reports whether name ends with one of the extensions,
// ignoring case. An empty list places no restriction.
func HasAllowedExtension(name string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}

	lower := strings.ToLower(name)
	for _, ext := range allowed {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext != "" && strings.HasSuffix(lower, "."+ext) {
			return true
		}
	}
	return false
}

// ParseMenuChoice parses a trimmed integer and checks it lies within
// [min, max].
func ParseMenuChoice(input string, min, max int) (int, error) {
	if min > max {
		return 0, fmt.Errorf("%w: %d > %d", ErrInvalidRange, min, max)
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("%w: please enter a number (%d-%d)", ErrEmptyInput, min, max)
	}

	choice, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("%w: please enter a valid number (%d-%d)", ErrNotANumber, min, max)
	}

	if choice < min || choice > max {
		return 0, fmt.Errorf("%w: please select a number between %d and %d", ErrOutOfRange, min, max)
	}

	return choice, nil
}
