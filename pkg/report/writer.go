package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fab-weekly/pkg/apperr"
	"fab-weekly/pkg/pivot"
)

const weekHeader = "Week"

// Format selects how cell values are rendered.
type Format int

const (
	Float Format = iota
	Integer
)

// File is one output table.
type File struct {
	Name   string
	Table  pivot.Table
	Format Format
}

// WriteTable writes t as CSV: a Week column followed by the table's columns.
func WriteTable(w io.Writer, t pivot.Table, format Format) error {
	writer := csv.NewWriter(w)
	header := append([]string{weekHeader}, t.Columns...)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, week := range t.Rows {
		record := make([]string, 0, len(header))
		record = append(record, strconv.Itoa(week))
		for _, c := range t.Columns {
			record = append(record, formatValue(t.Value(week, c), format))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteAll writes every file into dir. Files are staged next to their
// destination and renamed only once all of them were written. Existing
// destinations are moved aside first and put back if a rename fails, so a
// failed run leaves earlier outputs untouched.
func WriteAll(dir string, files []File) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperr.OutputWrap(err, "create output directory")
	}

	staged := make([]string, 0, len(files))
	cleanup := func() {
		for _, p := range staged {
			_ = os.Remove(p)
		}
	}

	for _, f := range files {
		tmp, err := stage(dir, f)
		if tmp != "" {
			staged = append(staged, tmp)
		}
		if err != nil {
			cleanup()
			return nil, apperr.OutputWrap(err, fmt.Sprintf("write %s", f.Name))
		}
	}

	var (
		written []string
		backups = make(map[string]string)
	)
	rollback := func() {
		for _, dest := range written {
			_ = os.Remove(dest)
		}
		for dest, bak := range backups {
			_ = os.Rename(bak, dest)
		}
		cleanup()
	}

	for i, f := range files {
		dest := filepath.Join(dir, f.Name)
		bak, err := backup(dest)
		if err != nil {
			rollback()
			return nil, apperr.OutputWrap(err, fmt.Sprintf("back up %s", f.Name))
		}
		if bak != "" {
			backups[dest] = bak
		}
		if err := os.Rename(staged[i], dest); err != nil {
			rollback()
			return nil, apperr.OutputWrap(err, fmt.Sprintf("rename %s", f.Name))
		}
		written = append(written, dest)
	}

	for _, bak := range backups {
		_ = os.Remove(bak)
	}
	return written, nil
}

// backup moves an existing regular file at dest aside and returns its new
// path, or "" when there is nothing to keep.
func backup(dest string) (string, error) {
	info, err := os.Lstat(dest)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", nil
	}
	bak := filepath.Join(filepath.Dir(dest), "."+filepath.Base(dest)+".bak")
	if err := os.Rename(dest, bak); err != nil {
		return "", err
	}
	return bak, nil
}

func stage(dir string, f File) (string, error) {
	tmp, err := os.CreateTemp(dir, "."+f.Name+".*.tmp")
	if err != nil {
		return "", err
	}
	if err := WriteTable(tmp, f.Table, f.Format); err != nil {
		tmp.Close()
		return tmp.Name(), err
	}
	return tmp.Name(), tmp.Close()
}

// formatValue renders integers without a fraction and floats in their
// shortest form, keeping a ".0" on integral floats.
func formatValue(v float64, format Format) string {
	if format == Integer {
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
