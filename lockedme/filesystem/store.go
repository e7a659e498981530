package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/lockedme/lockedme/filesystem/common"
	"github.com/ZanzyTHEbar/lockedme/lockedme/filesystem/types"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Operation names recorded in OpError.Op and in log fields.
const (
	OpOpen   = "open"
	OpList   = "list"
	OpCreate = "create"
	OpDelete = "delete"
	OpFind   = "find"
	OpSearch = "search"
)

// DirectoryStore manages the regular files directly inside one directory.
// Subdirectories are never listed, created, deleted or matched. The bound
// directory does not change after construction.
type DirectoryStore struct {
	fs     afero.Fs
	dir    string
	logger zerolog.Logger
}

// New creates a store bound to path. An empty path means the current working
// directory. If path does not name an existing directory the store falls
// back to the current working directory and logs a warning.
func New(fsys afero.Fs, path string, logger zerolog.Logger) *DirectoryStore {
	cwd := workingDirectory()

	dir := cwd
	if path != "" {
		candidate := common.NormalizePath(path)
		if err := checkDirectory(fsys, candidate); err != nil {
			logger.Warn().
				Str("requested", path).
				Str("fallback", cwd).
				Err(err).
				Msg("Directory does not exist, using current directory")
		} else {
			dir = candidate
		}
	}

	return newStore(fsys, dir, logger)
}

// Open is the strict variant of New: it returns an error instead of falling
// back when path is not an existing directory.
func Open(fsys afero.Fs, path string, logger zerolog.Logger) (*DirectoryStore, error) {
	dir := workingDirectory()
	if path != "" {
		dir = common.NormalizePath(path)
	}

	if err := checkDirectory(fsys, dir); err != nil {
		return nil, err
	}

	return newStore(fsys, dir, logger), nil
}

func newStore(fsys afero.Fs, dir string, logger zerolog.Logger) *DirectoryStore {
	return &DirectoryStore{
		fs:     fsys,
		dir:    dir,
		logger: logger.With().Str("dir", dir).Logger(),
	}
}

func workingDirectory() string {
	cwd, err := os.Getwd()
	if err != nil {
		return common.NormalizePath(".")
	}
	return cwd
}

func checkDirectory(fsys afero.Fs, dir string) error {
	info, err := fsys.Stat(dir)
	if err != nil {
		return common.ClassifyFSError(OpOpen, dir, err)
	}
	if !info.IsDir() {
		return common.NewOpError(OpOpen, dir, common.KindNotFound, fmt.Errorf("path is not a directory: %s", dir))
	}
	return nil
}

// Dir returns the absolute directory path the store is bound to.
func (s *DirectoryStore) Dir() string {
	return s.dir
}

// ListNames returns the names of the regular files directly inside the
// directory, in enumeration order.
func (s *DirectoryStore) ListNames() ([]string, error) {
	infos, err := s.readDir(OpList)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if s.isRegular(info) {
			names = append(names, info.Name())
		}
	}

	s.logger.Debug().Str("op", OpList).Int("count", len(names)).Msg("Listed files")
	return names, nil
}

// ListSorted returns ListNames in ascending byte order.
func (s *DirectoryStore) ListSorted() ([]string, error) {
	names, err := s.ListNames()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Count returns the number of regular files in the directory.
func (s *DirectoryStore) Count() (int, error) {
	names, err := s.ListNames()
	if err != nil {
		return 0, err
	}
	return len(names), nil
}

// IsEmpty reports whether the directory holds no regular files.
func (s *DirectoryStore) IsEmpty() (bool, error) {
	n, err := s.Count()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Create makes a new zero-length file. An existing entry of any type with the
// same name yields OutcomeAlreadyExists. The error is non-nil only for
// access and validation failures.
func (s *DirectoryStore) Create(name string) (types.Outcome, error) {
	if err := s.checkName(OpCreate, name); err != nil {
		return types.OutcomeFailed, err
	}

	_, found, err := s.lookup(OpCreate, name)
	if err != nil {
		return types.OutcomeFailed, err
	}
	if found {
		s.logger.Debug().Str("op", OpCreate).Str("name", name).Msg("File already exists")
		return types.OutcomeAlreadyExists, nil
	}

	path := s.path(name)
	f, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return types.OutcomeAlreadyExists, nil
		}
		return types.OutcomeFailed, s.accessFailure(OpCreate, name, err)
	}
	if err := f.Close(); err != nil {
		return types.OutcomeFailed, s.accessFailure(OpCreate, name, err)
	}

	s.logger.Debug().Str("op", OpCreate).Str("name", name).Str("path", path).Msg("File created")
	return types.OutcomeCreated, nil
}

// Delete removes the regular file called name. Missing files yield
// OutcomeNotFound and directories OutcomeNotAFile; neither is an error.
func (s *DirectoryStore) Delete(name string) (types.Outcome, error) {
	if err := s.checkName(OpDelete, name); err != nil {
		return types.OutcomeFailed, err
	}

	info, found, err := s.lookup(OpDelete, name)
	if err != nil {
		return types.OutcomeFailed, err
	}
	if !found {
		return types.OutcomeNotFound, nil
	}
	if !info.Mode().IsRegular() {
		s.logger.Debug().Str("op", OpDelete).Str("name", name).Msg("Refusing to delete non-file entry")
		return types.OutcomeNotAFile, nil
	}

	path := s.path(name)
	if err := s.fs.Remove(path); err != nil {
		// Removed by someone else since the lookup.
		if os.IsNotExist(err) {
			return types.OutcomeNotFound, nil
		}
		return types.OutcomeFailed, s.accessFailure(OpDelete, name, err)
	}

	s.logger.Debug().Str("op", OpDelete).Str("name", name).Str("path", path).Msg("File deleted")
	return types.OutcomeDeleted, nil
}

// Find returns the entry for the regular file called name. The match is
// exact and case-sensitive.
func (s *DirectoryStore) Find(name string) (types.FileEntry, bool, error) {
	if err := s.checkName(OpFind, name); err != nil {
		return types.FileEntry{}, false, err
	}

	info, found, err := s.lookup(OpFind, name)
	if err != nil {
		return types.FileEntry{}, false, err
	}
	if !found || !info.Mode().IsRegular() {
		return types.FileEntry{}, false, nil
	}

	entry := types.NewFileEntry(s.path(name), info)
	entry.Name = name
	return entry, true, nil
}

// FindByPattern returns the file names containing pattern, ignoring case, in
// enumeration order.
func (s *DirectoryStore) FindByPattern(pattern string) ([]string, error) {
	names, err := s.ListNames()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(pattern)
	matches := make([]string, 0)
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), needle) {
			matches = append(matches, name)
		}
	}

	s.logger.Debug().Str("op", OpSearch).Str("pattern", pattern).Int("matches", len(matches)).Msg("Pattern search completed")
	return matches, nil
}

func (s *DirectoryStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *DirectoryStore) checkName(op, name string) error {
	if common.IsSingleElement(name) {
		return nil
	}
	return common.NewOpError(op, name, common.KindValidation,
		fmt.Errorf("%w: must name an entry directly inside %s", common.ErrInvalidName, s.dir))
}

func (s *DirectoryStore) readDir(op string) ([]os.FileInfo, error) {
	f, err := s.fs.Open(s.dir)
	if err != nil {
		return nil, s.accessFailure(op, "", err)
	}
	defer f.Close()

	infos, err := f.Readdir(-1)
	if err != nil {
		return nil, s.accessFailure(op, "", err)
	}
	return infos, nil
}

// lookup finds the direct child called exactly name. Symlinks are resolved
// so the returned info describes the target.
func (s *DirectoryStore) lookup(op, name string) (os.FileInfo, bool, error) {
	infos, err := s.readDir(op)
	if err != nil {
		return nil, false, err
	}

	for _, info := range infos {
		if info.Name() != name {
			continue
		}
		if info.Mode()&os.ModeSymlink == 0 {
			return info, true, nil
		}
		target, err := s.fs.Stat(s.path(name))
		if err != nil {
			// Dangling link: the name is taken but it is not a file.
			return info, true, nil
		}
		return target, true, nil
	}
	return nil, false, nil
}

func (s *DirectoryStore) isRegular(info os.FileInfo) bool {
	if info.Mode().IsRegular() {
		return true
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return false
	}
	target, err := s.fs.Stat(s.path(info.Name()))
	return err == nil && target.Mode().IsRegular()
}

func (s *DirectoryStore) accessFailure(op, name string, err error) error {
	s.logger.Warn().Str("op", op).Str("name", name).Err(err).Msg("Filesystem access failed")
	return common.NewOpError(op, name, common.KindAccess, err)
}
