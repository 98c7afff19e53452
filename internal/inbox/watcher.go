// Package inbox watches the workdir inbox directory and loads dropped
// headcount plans (.csv) and exchange documents (.json) into the
// service. Imported files are archived under processed/, rejected ones
// under failed/.
package inbox

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Craig-TribeAI/org-chart-builder/internal/orgservice"
	"github.com/Craig-TribeAI/org-chart-builder/internal/storage"
)

const (
	inboxDir     = "inbox"
	processedDir = "processed"
	failedDir    = "failed"

	// settleDelay debounces partially written drops: the import runs
	// only after the file has been quiet for this long.
	settleDelay = 500 * time.Millisecond
)

// EventCallback is called after each handled drop.
// kind is "imported" or "rejected".
type EventCallback func(kind string, name string)

// Watch starts an fsnotify watcher on {workdir}/inbox and processes
// dropped files until ctx is cancelled. Files already sitting in the
// inbox when the watcher starts are processed too. It calls cb (if
// non-nil) after each handled file.
func Watch(ctx context.Context, svc *orgservice.Service, files storage.Provider, workdir string, logger *slog.Logger, cb EventCallback) error {
	inboxAbs := filepath.Join(workdir, inboxDir)
	if err := os.MkdirAll(inboxAbs, 0o755); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(inboxAbs); err != nil {
		return err
	}

	logger.Info("inbox: started", slog.String("dir", inboxAbs))

	// pending holds file names waiting for their settle timer.
	pending := make(map[string]struct{})
	var settleTimer *time.Timer
	var settleCh <-chan time.Time

	schedule := func() {
		if settleTimer == nil {
			settleTimer = time.NewTimer(settleDelay)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(settleDelay)
		}
	}

	// Sweep files dropped while the server was down.
	if metas, listErr := files.List(inboxDir, ".csv", ".json"); listErr == nil {
		for _, m := range metas {
			pending[filepath.Base(m.Path)] = struct{}{}
		}
		if len(pending) > 0 {
			schedule()
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("inbox: stopped")
			return nil

		case <-settleCh:
			drain(ctx, svc, files, logger, cb, pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			// Only flat drops directly in the inbox are handled.
			if filepath.Dir(ev.Name) != inboxAbs {
				continue
			}
			name := filepath.Base(ev.Name)
			if !handledExt(name) {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				pending[name] = struct{}{}
				schedule()
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				delete(pending, name)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("inbox: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// drain imports every settled file and archives it.
func drain(ctx context.Context, svc *orgservice.Service, files storage.Provider, logger *slog.Logger, cb EventCallback, pending map[string]struct{}) {
	names := make([]string, 0, len(pending))
	for name := range pending {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		delete(pending, name)
		rel := filepath.Join(inboxDir, name)

		data, err := files.Read(rel)
		if err != nil {
			// Gone before we got to it.
			logger.Warn("inbox: read failed", slog.String("name", name), slog.String("error", err.Error()))
			continue
		}

		if impErr := importDrop(ctx, svc, name, data); impErr != nil {
			logger.Warn("inbox: rejected", slog.String("name", name), slog.String("error", impErr.Error()))
			archive(files, logger, rel, failedDir, name)
			if cb != nil {
				cb("rejected", name)
			}
			continue
		}

		logger.Info("inbox: imported", slog.String("name", name))
		archive(files, logger, rel, processedDir, name)
		if cb != nil {
			cb("imported", name)
		}
	}
}

func importDrop(ctx context.Context, svc *orgservice.Service, name string, data []byte) error {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return svc.Import(ctx, data)
	}
	return svc.ImportCSV(ctx, bytes.NewReader(data), name)
}

// archive moves a handled drop out of the inbox, stamping the
// destination so repeated drops of the same name never collide.
func archive(files storage.Provider, logger *slog.Logger, rel, dir, name string) {
	stamped := time.Now().UTC().Format("20060102-150405") + "-" + name
	if err := files.Move(rel, filepath.Join(dir, stamped)); err != nil {
		logger.Warn("inbox: archive failed", slog.String("name", name), slog.String("error", err.Error()))
	}
}

func handledExt(name string) bool {
	ext := filepath.Ext(name)
	return strings.EqualFold(ext, ".csv") || strings.EqualFold(ext, ".json")
}
