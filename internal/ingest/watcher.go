package ingest

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fernwood/gedbase/internal/importer"
	"github.com/fernwood/gedbase/internal/storage"
	"github.com/fernwood/gedbase/internal/store"
)

// EventCallback is called after a watcher-driven import or removal.
// kind is one of "imported", "removed".
type EventCallback func(kind string, tree string)

// Watch starts an fsnotify watcher on the inbox root and processes file
// change events until ctx is cancelled. It calls cb (if non-nil) after
// each successful ingest pass.
//
// New directories created at runtime are automatically added to the watch
// list. Rename events trigger a reconciliation pass that drops checksum
// entries whose files no longer exist on disk.
func Watch(ctx context.Context, db *store.DB, imp *importer.Importer, prov storage.Provider, inboxRoot string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, inboxRoot); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", inboxRoot))

	// reconcileTimer is used to debounce rename reconciliation.
	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(200 * time.Millisecond)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcileAfterRename(db, imp, prov, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// --- Handle new directories: add to watcher ---
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					// Ingest any .ged files already in the new directory.
					ingestNewDir(db, imp, prov, inboxRoot, absPath, logger, cb)
					continue
				}
			}

			// Only process .ged files from here on.
			if !isGedcomPath(absPath) {
				continue
			}

			rel, relErr := filepath.Rel(inboxRoot, absPath)
			if relErr != nil {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, readErr := prov.Read(rel)
				if readErr != nil {
					logger.Warn("watcher: read failed", slog.String("path", rel), slog.String("error", readErr.Error()))
					continue
				}
				if ingErr := ingestFile(db, imp, rel, data, logger); ingErr != nil {
					logger.Warn("watcher: import failed", slog.String("path", rel), slog.String("error", ingErr.Error()))
					continue
				}
				logger.Debug("watcher: imported", slog.String("path", rel))
				if cb != nil {
					cb("imported", TreeName(rel))
				}

			case ev.Op&fsnotify.Remove != 0:
				if delErr := db.ForgetFile(rel); delErr != nil {
					logger.Warn("watcher: forget failed", slog.String("path", rel), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: forgot", slog.String("path", rel))
				if cb != nil {
					cb("removed", TreeName(rel))
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the OLD path only. The new
				// path will arrive as a separate Create event (if it
				// stays within a watched dir). We drop the old entry
				// immediately and schedule a short reconciliation pass
				// to catch any stragglers.
				if delErr := db.ForgetFile(rel); delErr != nil {
					logger.Warn("watcher: rename forget failed", slog.String("path", rel), slog.String("error", delErr.Error()))
				} else {
					logger.Debug("watcher: rename old forgotten", slog.String("path", rel))
					if cb != nil {
						cb("removed", TreeName(rel))
					}
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reconcileAfterRename does a lightweight sync using batch lookups:
// drops checksum entries without a corresponding file on disk, and
// imports on-disk files that are new or changed.
func reconcileAfterRename(db *store.DB, imp *importer.Importer, prov storage.Provider, logger *slog.Logger, cb EventCallback) {
	checksums, err := db.AllFileChecksums()
	if err != nil {
		logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}

	metas, err := prov.List("")
	if err != nil {
		logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]string, len(metas))
	for _, m := range metas {
		disk[m.Path] = m.Checksum
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if delErr := db.ForgetFile(p); delErr == nil {
				logger.Debug("reconcile: removed stale", slog.String("path", p))
				if cb != nil {
					cb("removed", TreeName(p))
				}
			}
		}
	}

	for p, cs := range disk {
		if checksums[p] == cs {
			continue
		}
		data, readErr := prov.Read(p)
		if readErr != nil {
			continue
		}
		if ingErr := ingestFile(db, imp, p, data, logger); ingErr == nil {
			logger.Debug("reconcile: imported", slog.String("path", p))
			if cb != nil {
				cb("imported", TreeName(p))
			}
		}
	}
}

// ingestNewDir imports any .ged files found in a newly created directory.
func ingestNewDir(db *store.DB, imp *importer.Importer, prov storage.Provider, inboxRoot, dirPath string, logger *slog.Logger, cb EventCallback) {
	_ = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !isGedcomPath(path) {
			return nil
		}
		rel, relErr := filepath.Rel(inboxRoot, path)
		if relErr != nil {
			return nil
		}
		data, readErr := prov.Read(rel)
		if readErr != nil {
			return nil
		}
		if ingErr := ingestFile(db, imp, rel, data, logger); ingErr == nil {
			logger.Debug("watcher: imported from new dir", slog.String("path", rel))
			if cb != nil {
				cb("imported", TreeName(rel))
			}
		}
		return nil
	})
}

func isGedcomPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".ged")
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
