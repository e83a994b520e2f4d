// Package sheets reads the order spreadsheet: the "Form Responses 1" sheet
// holding submissions and the "Print Batches" sheet holding what was printed.
package sheets

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"fab-weekly/pkg/apperr"
	"fab-weekly/pkg/massjoin"
	"fab-weekly/pkg/models"
)

// Source returns the raw rows of the two sheets. A sheet without data rows
// comes back as an empty slice; the Client turns that into a NO_DATA error.
type Source interface {
	FormResponses(ctx context.Context) ([]models.FormResponse, error)
	PrintBatches(ctx context.Context) ([]models.PrintBatch, error)
}

// Client exposes the row sets the reports are built from.
type Client struct {
	src    Source
	logger *slog.Logger
}

// NewClient reads through src; a nil logger falls back to slog.Default.
func NewClient(src Source, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{src: src, logger: logger}
}

// FetchTimestamps returns the submission timestamp of every form response.
func (c *Client) FetchTimestamps(ctx context.Context) ([]models.OrderRecord, error) {
	forms, err := c.forms(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.OrderRecord, 0, len(forms))
	for _, f := range forms {
		out = append(out, models.OrderRecord{OrderID: strings.TrimSpace(f.OrderID), Timestamp: f.Timestamp})
	}
	c.logger.Info("retrieved timestamp data", "rows", len(out))
	return out, nil
}

// FetchTimeCourseRows returns timestamp and course of every response that
// names a course. Contact columns are not carried over.
func (c *Client) FetchTimeCourseRows(ctx context.Context) ([]models.OrderRecord, error) {
	forms, err := c.forms(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.OrderRecord, 0, len(forms))
	for _, f := range forms {
		course := strings.TrimSpace(f.Course)
		if course == "" {
			continue
		}
		out = append(out, models.OrderRecord{
			OrderID:   strings.TrimSpace(f.OrderID),
			Timestamp: f.Timestamp,
			Course:    course,
		})
	}
	c.logger.Info("retrieved time course data", "rows", len(out), "without_course", len(forms)-len(out))
	return out, nil
}

// FetchCompletedPrintBatchesWithCourse reads both sheets and returns one
// record per completed FDM submission carrying the printed mass in kg.
func (c *Client) FetchCompletedPrintBatchesWithCourse(ctx context.Context) ([]models.OrderRecord, massjoin.Stats, error) {
	var (
		forms   []models.FormResponse
		batches []models.PrintBatch
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		forms, err = c.forms(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		batches, err = c.batches(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, massjoin.Stats{}, err
	}

	out, stats := massjoin.Join(batches, forms)
	c.logger.Info("retrieved print batch data",
		"rows", len(out),
		"batches", stats.Batches,
		"completed_batches", stats.CompletedBatches,
		"matched", stats.Matched,
	)
	if stats.Unmatched > 0 {
		c.logger.Warn("completed print batches without a matching order",
			"unmatched", stats.Unmatched)
	}
	if stats.InvalidQuantity > 0 {
		c.logger.Warn("print batches with unreadable material quantity counted as 0",
			"invalid_quantity", stats.InvalidQuantity)
	}
	return out, stats, nil
}

func (c *Client) forms(ctx context.Context) ([]models.FormResponse, error) {
	forms, err := c.src.FormResponses(ctx)
	if err != nil {
		return nil, apperr.SourceWrap(err, "read form responses")
	}
	if len(forms) == 0 {
		return nil, apperr.NoData("form responses sheet returned no rows")
	}
	return forms, nil
}

func (c *Client) batches(ctx context.Context) ([]models.PrintBatch, error) {
	batches, err := c.src.PrintBatches(ctx)
	if err != nil {
		return nil, apperr.SourceWrap(err, "read print batches")
	}
	if len(batches) == 0 {
		return nil, apperr.NoData("print batches sheet returned no rows")
	}
	return batches, nil
}
