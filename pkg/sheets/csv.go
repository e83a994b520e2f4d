package sheets

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"fab-weekly/pkg/models"
)

// CSVSource reads CSV exports of the two sheets.
type CSVSource struct {
	FormsPath   string
	BatchesPath string
}

func (s CSVSource) FormResponses(ctx context.Context) ([]models.FormResponse, error) {
	var rows []models.FormResponse
	if err := readCSV(ctx, s.FormsPath, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s CSVSource) PrintBatches(ctx context.Context) ([]models.PrintBatch, error) {
	var rows []models.PrintBatch
	if err := readCSV(ctx, s.BatchesPath, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func readCSV(ctx context.Context, path string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := Decode(bytes.NewReader(data), out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Decode reads sheet rows into out, a pointer to a slice of tagged structs.
// Header cells are trimmed: the form's "First Name " matches `csv:"First Name"`.
// Rows may be ragged, as Sheets drops trailing empty cells.
func Decode(r io.Reader, out any) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return gocsv.UnmarshalCSV(&headerTrimmer{r: reader}, out)
}

// headerTrimmer trims whitespace around the cells of the first record.
type headerTrimmer struct {
	r       *csv.Reader
	started bool
}

func (h *headerTrimmer) Read() ([]string, error) {
	rec, err := h.r.Read()
	if err != nil {
		return rec, err
	}
	if !h.started {
		h.started = true
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
	}
	return rec, nil
}

func (h *headerTrimmer) ReadAll() ([][]string, error) {
	var all [][]string
	for {
		rec, err := h.Read()
		if err == io.EOF {
			return all, nil
		}
		if err != nil {
			return nil, err
		}
		all = append(all, rec)
	}
}
