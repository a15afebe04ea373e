package control

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchQuiet is how long the control file must stay unchanged before a
// change is reported. Shell redirection truncates and writes in two steps.
const watchQuiet = 50 * time.Millisecond

// fileWatcher signals when the control file is written or replaced.
// The parent directory is watched so that rename-based writers are seen too.
type fileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	quiet   time.Duration
	changes chan struct{}
	logger  *slog.Logger
}

func newFileWatcher(path string, logger *slog.Logger) (*fileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("resolve control file path: %w", err)
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch control dir: %w", err)
	}

	return &fileWatcher{
		watcher: watcher,
		path:    abs,
		quiet:   watchQuiet,
		changes: make(chan struct{}, 1),
		logger:  logger,
	}, nil
}

// Changes delivers at most one pending notification at a time
func (fw *fileWatcher) Changes() <-chan struct{} {
	return fw.changes
}

// Run forwards relevant events until ctx is cancelled or the watcher is closed.
// A burst of events is reported once, after the file has been quiet.
func (fw *fileWatcher) Run(ctx context.Context) {
	timer := time.NewTimer(fw.quiet)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				timer.Reset(fw.quiet)
			}

		case <-timer.C:
			select {
			case fw.changes <- struct{}{}:
			default:
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("Control file watcher error", "error", err)
		}
	}
}

func (fw *fileWatcher) Close() error {
	return fw.watcher.Close()
}
