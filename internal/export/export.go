// Package export turns an extraction result into downloadable files.
package export

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"

	"oneprompt/internal/extract"
	"oneprompt/internal/types"
	"oneprompt/internal/utils"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DocumentFile = "index.html"
	StyleFile    = "styles.css"
	ScriptFile   = "script.js"
)

// Files lists the artifacts of r: the merged document plus the CSS and JS
// fragments as separate files. Empty streams produce no file.
func Files(r extract.ParsedResult) []types.GeneratedFile {
	var files []types.GeneratedFile
	add := func(name, content string) {
		if content == "" {
			return
		}
		files = append(files, types.GeneratedFile{
			Filename: name,
			Type:     utils.DetermineFileType(name),
			Content:  content,
		})
	}
	add(DocumentFile, r.Document())
	add(StyleFile, r.CSS)
	add(ScriptFile, r.JS)
	return files
}

// WriteDir writes files below dir, creating it if needed. Filenames that
// would escape dir are rejected.
func WriteDir(dir string, files []types.GeneratedFile) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}
	for _, f := range files {
		path, err := safeJoin(dir, f.Filename)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.Wrapf(err, "failed to create subdirectories for %s", f.Filename)
		}
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return errors.Wrapf(err, "failed to write file %s", f.Filename)
		}
		zap.S().Debugf("File saved: %s", path)
	}
	zap.S().Infof("Wrote %d files to %s", len(files), dir)
	return nil
}

// WriteZip streams files to w as a zip archive.
func WriteZip(w io.Writer, files []types.GeneratedFile) error {
	zw := zip.NewWriter(w)
	for _, f := range files {
		if !filepath.IsLocal(f.Filename) {
			return errors.Errorf("invalid file name %q", f.Filename)
		}
		name := filepath.ToSlash(filepath.Clean(f.Filename))
		fw, err := zw.Create(name)
		if err != nil {
			return errors.Wrapf(err, "failed to add %s to archive", name)
		}
		if _, err := io.WriteString(fw, f.Content); err != nil {
			return errors.Wrapf(err, "failed to write %s to archive", name)
		}
	}
	return errors.Wrap(zw.Close(), "failed to finish archive")
}

func safeJoin(dir, name string) (string, error) {
	if !filepath.IsLocal(name) {
		return "", errors.Errorf("invalid file name %q", name)
	}
	return filepath.Join(dir, name), nil
}
