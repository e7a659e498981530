package types

import (
	"os"
	"time"

	"github.com/ZanzyTHEbar/lockedme/lockedme/filesystem/common"
)

// FileEntry describes a regular file directly inside the store's directory.
// It is computed from the filesystem on every lookup and never cached.
type FileEntry struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
	Readable   bool      `json:"readable"`
	Writable   bool      `json:"writable"`
	Executable bool      `json:"executable"`
}

// NewFileEntry builds a FileEntry from file info. Permission flags come from
// the owner bits of the mode.
func NewFileEntry(path string, info os.FileInfo) FileEntry {
	perm := info.Mode().Perm()
	return FileEntry{
		Name:       info.Name(),
		Path:       path,
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
		Readable:   perm&0o400 != 0,
		Writable:   perm&0o200 != 0,
		Executable: perm&0o100 != 0,
	}
}

// TimestampLayout is the layout used to display modification times.
const TimestampLayout = "2006-01-02 15:04:05"

// FormattedSize returns the human-readable size.
func (e FileEntry) FormattedSize() string {
	return common.FormatFileSize(e.Size)
}

// FormattedModTime returns the modification time in TimestampLayout.
func (e FileEntry) FormattedModTime() string {
	return e.ModifiedAt.Format(TimestampLayout)
}

// Outcome is the non-failure result of a store mutation or lookup.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeDeleted
	OutcomeAlreadyExists
	OutcomeNotFound
	OutcomeNotAFile
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeDeleted:
		return "deleted"
	case OutcomeAlreadyExists:
		return "already exists"
	case OutcomeNotFound:
		return "not found"
	case OutcomeNotAFile:
		return "not a file"
	default:
		return "failed"
	}
}

// Success reports whether the operation changed the directory.
func (o Outcome) Success() bool {
	return o == OutcomeCreated || o == OutcomeDeleted
}
