package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"

	"mercure-client/internal/client"
	"mercure-client/internal/logging"
	"mercure-client/internal/runstatus"
)

// watchState remembers the last content that reached the hub so rewrites of
// identical bytes are not published again.
type watchState struct {
	path      string
	published *string
	request   publishRequest
}

func (a *App) runWatch(ctx context.Context) error {
	cmd := a.opts.Watch
	path, err := filepath.Abs(cmd.File)
	if err != nil {
		return fmt.Errorf("resolve watched file: %w", err)
	}
	t, err := parseTopic(cmd.Topics)
	if err != nil {
		return err
	}

	lock, err := acquireWatchLock(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			a.logger.Warn("failed to release watch lock", logging.Field("error", err))
		}
	}()

	hubClient, err := a.newClient(cmd.Selectors)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to initialize fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files by rename, so watch the directory.
	watchDir := filepath.Dir(path)
	if err := watcher.Add(watchDir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", watchDir, err)
	}

	state := &watchState{
		path: path,
		request: publishRequest{
			topic:    t,
			privacy:  privacyOf(cmd.Private),
			attempts: cmd.Attempts,
			timeout:  cmd.Timeout,
		},
	}
	a.setRuntimeStatus(runstatus.Watching)
	a.logger.Info("watching file",
		logging.Field("file", path),
		logging.Field("topic", t.Canonical().String()),
		logging.Field("hub", hubClient.HubURL().String()),
	)
	a.publishIfChanged(ctx, hubClient, state)

	for {
		select {
		case <-ctx.Done():
			a.setRuntimeStatus(runstatus.Stopped)
			a.logger.Debug("stopping file watch: context canceled")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				a.setRuntimeStatus(runstatus.Stopped)
				return nil
			}
			a.handleWatchEvent(ctx, hubClient, state, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				a.setRuntimeStatus(runstatus.Stopped)
				return nil
			}
			a.logger.Warn("file watcher error", logging.Field("error", err))
		}
	}
}

func (a *App) handleWatchEvent(ctx context.Context, hubClient *client.Client, state *watchState, event fsnotify.Event) {
	if filepath.Clean(event.Name) != state.path {
		return
	}
	a.logger.Debugf("fsnotify event: op=%s path=%s", event.Op.String(), event.Name)
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	a.publishIfChanged(ctx, hubClient, state)
}

func (a *App) publishIfChanged(ctx context.Context, hubClient *client.Client, state *watchState) {
	content, err := os.ReadFile(state.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			a.logger.Debug("watched file does not exist yet", logging.Field("file", state.path))
			return
		}
		a.logger.Warn("failed to read watched file", logging.Field("file", state.path), logging.Field("error", err))
		return
	}
	data := string(content)
	if state.published != nil && *state.published == data {
		a.logger.Debug("watched file unchanged", logging.Field("file", state.path))
		return
	}

	req := state.request
	req.data = &data
	a.setRuntimeStatus(runstatus.Publishing)
	rev, err := a.publish(ctx, hubClient, req)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		a.setRuntimeStatus(runstatus.PublishFailed)
		a.logger.Error("failed to publish watched file", logging.Field("file", state.path), logging.Field("error", err))
		return
	}
	state.published = &data
	a.setRuntimeStatus(runstatus.Published)
	a.logger.Info("update published",
		logging.Field("file", state.path),
		logging.Field("revision_id", rev.String()),
	)
	_ = a.writeLine(rev.String())
}

// acquireWatchLock makes sure one process at most publishes a given file.
func acquireWatchLock(path string) (*flock.Flock, error) {
	lockPath, err := watchLockPath(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	f := flock.New(lockPath)
	locked, err := f.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire watch lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyWatching, path)
	}
	return f, nil
}

func watchLockPath(path string) (string, error) {
	root, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache directory: %w", err)
	}
	sum := sha256.Sum256([]byte(path))
	return filepath.Join(root, "mercure-client", "locks", hex.EncodeToString(sum[:8])+".lock"), nil
}
