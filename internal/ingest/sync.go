// Package ingest feeds GEDCOM files from the inbox directory into the
// import pipeline, both as a startup batch pass and as a live watcher.
package ingest

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fernwood/gedbase/internal/checksum"
	"github.com/fernwood/gedbase/internal/gedcom"
	"github.com/fernwood/gedbase/internal/importer"
	"github.com/fernwood/gedbase/internal/storage"
	"github.com/fernwood/gedbase/internal/store"
)

// Sync walks the inbox and brings the database up to date:
//   - new/changed files are imported into the tree named after the file
//   - files removed from disk have their checksum entry dropped, so a
//     re-added file is imported again
func Sync(db *store.DB, imp *importer.Importer, prov storage.Provider, logger *slog.Logger) error {
	metas, err := prov.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllFileChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := prov.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := ingestFile(db, imp, m.Path, data, logger); err != nil {
			logger.Warn("sync: import failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: imported", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.ForgetFile(p); err != nil {
				logger.Warn("sync: forget failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// TreeName derives the tree name from an inbox file path: the base name
// without its extension.
func TreeName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ingestFile imports every record of one file into its tree. Records that
// already exist are reconciled in place, so re-ingesting a changed file
// updates rather than fails. Individual record errors are logged and
// skipped; the file checksum is only stored when the pass completes.
func ingestFile(db *store.DB, imp *importer.Importer, path string, data []byte, logger *slog.Logger) error {
	treeID, err := db.Tree(TreeName(path))
	if err != nil {
		return err
	}

	for _, rec := range gedcom.SplitRecords(gedcom.NormalizeEndings(string(data))) {
		if strings.TrimSpace(rec) == "" {
			continue
		}
		xref, rtype, err := gedcom.Classify(rec)
		if err != nil {
			logger.Warn("ingest: bad record", slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		if xref == "" {
			xref = string(rtype)
		}

		_, getErr := db.GetRecord(treeID, xref)
		if getErr == nil {
			_, err = imp.UpdateRecord(treeID, rec, false)
		} else {
			_, err = imp.ImportRecord(treeID, rec, false)
		}
		if err != nil {
			logger.Warn("ingest: record failed",
				slog.String("path", path),
				slog.String("xref", xref),
				slog.String("error", err.Error()))
		}
	}

	return db.SetFileChecksum(path, checksum.Sum(data))
}
