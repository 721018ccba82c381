package store

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Backup archives raw response bodies under a separate root so any unit
// of a run can be replayed or debugged later. It is write-only: nothing
// in the pipeline reads archives back. Archive failures are logged and
// never fail the surrounding scrape.
type Backup struct {
	root string
	log  zerolog.Logger
}

// NewBackup returns an archive rooted at dir. An empty dir disables
// archiving.
func NewBackup(dir string, log zerolog.Logger) *Backup {
	return &Backup{root: dir, log: log}
}

// Archive writes body to <root>/<relPath>.<format>.
func (b *Backup) Archive(body []byte, relPath, format string) {
	if b == nil || b.root == "" {
		return
	}

	path := filepath.Join(b.root, filepath.FromSlash(relPath)+"."+format)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		b.log.Warn().Str("path", path).Err(err).Msg("backup dir create failed")
		return
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		b.log.Warn().Str("path", path).Err(err).Msg("backup write failed")
	}
}
