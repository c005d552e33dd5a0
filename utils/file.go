package utils

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const periodLayout = "2006-01"

func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func GetFilenameWithoutExt(path string) (name string) {
	name = filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(path))
	return
}

// TmpPath yields a unique scratch path alongside the final output, so a
// finished product can be moved into place in one rename.
func TmpPath(out string) string {
	return out + "." + uuid.NewString() + ".tmp"
}

// ListPeriodRasters finds the per-period rasters named PREFIX_YYYY-MM.ext in
// a directory, sorted by period. Files whose period part does not parse are
// ignored; they are not acquisitions.
func ListPeriodRasters(dir, prefix, ext string) (files, periods []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	type periodFile struct {
		path   string
		period string
	}
	var found []periodFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		period := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ext)
		if _, e := time.Parse(periodLayout, period); e != nil {
			continue
		}
		found = append(found, periodFile{path: filepath.Join(dir, name), period: period})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].period < found[j].period })
	files = make([]string, len(found))
	periods = make([]string, len(found))
	for i, f := range found {
		files[i] = f.path
		periods[i] = f.period
	}
	return
}
