package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFileEntryFormattedModTime(t *testing.T) {
	entry := FileEntry{ModifiedAt: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)}
	assert.Equal(t, "2024-05-06 07:08:09", entry.FormattedModTime())
}

func TestFileEntryFormattedSize(t *testing.T) {
	assert.Equal(t, "2.00 KB", FileEntry{Size: 2048}.FormattedSize())
}
