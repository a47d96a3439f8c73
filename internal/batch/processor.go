// Package batch turns a table of companies into generated outreach paragraphs.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amishk599/synergy/internal/ai"
	"github.com/amishk599/synergy/internal/model"
	"github.com/amishk599/synergy/internal/session"
)

// Options tunes a Processor.
type Options struct {
	// MaxRows is the largest batch accepted; larger batches are rejected whole.
	MaxRows int
	// KeepPartial appends rows generated before a completion failure.
	// When false a failed pass leaves the table unchanged.
	KeepPartial bool
}

// Report describes one pass.
type Report struct {
	Total   int               // records received
	Rows    []model.ResultRow // rows appended to the table
	Skipped []string          // companies rejected by the record filter
}

// Processor owns the pipeline for a batch:
// validate → build prompt → complete → accumulate.
type Processor struct {
	completer model.Completer
	filter    model.RecordFilter
	notifier  model.Notifier
	opts      Options
	logger    *slog.Logger
}

// NewProcessor creates a processor wired with all its dependencies.
func NewProcessor(
	completer model.Completer,
	filter model.RecordFilter,
	notifier model.Notifier,
	opts Options,
	logger *slog.Logger,
) *Processor {
	return &Processor{
		completer: completer,
		filter:    filter,
		notifier:  notifier,
		opts:      opts,
		logger:    logger,
	}
}

// Process generates one row per accepted record, in input order, and returns
// table with those rows appended.
//
// A batch larger than MaxRows is rejected with *model.TooManyRowsError and
// the table is returned unchanged. An empty firm description or an empty
// batch is a no-op. Records rejected by the filter are reported through the
// notifier and skipped. The first completion failure stops the pass and is
// returned as *model.CompletionError; see Options.KeepPartial for what
// happens to rows generated before it.
func (p *Processor) Process(
	ctx context.Context,
	records []model.CompanyRecord,
	firm string,
	prompt model.PromptConfig,
	table session.Table,
) (session.Table, Report, error) {
	report := Report{Total: len(records)}

	if len(records) > p.opts.MaxRows {
		err := &model.TooManyRowsError{Count: len(records), Limit: p.opts.MaxRows}
		p.notify(model.Notice{
			Kind: model.NoticeTooManyRows,
			Message: fmt.Sprintf("The company file contains more than %d rows. Please limit your input to %d companies.",
				p.opts.MaxRows, p.opts.MaxRows),
		})
		return table, report, err
	}

	if len(records) == 0 || firm == "" {
		p.logger.Debug("nothing to process", "records", len(records), "has_firm", firm != "")
		return table, report, nil
	}

	var produced []model.ResultRow
	for _, rec := range records {
		if err := p.filter.Check(rec); err != nil {
			var tooLong *model.DescriptionTooLongError
			if !errors.As(err, &tooLong) {
				return table, report, fmt.Errorf("checking %s: %w", rec.Name, err)
			}
			p.notify(model.Notice{
				Kind:    model.NoticeDescriptionTooLong,
				Company: rec.Name,
				Message: fmt.Sprintf("The description for %s exceeds %d words. Please reduce the length.", rec.Name, tooLong.Limit),
			})
			report.Skipped = append(report.Skipped, rec.Name)
			continue
		}

		messages := ai.BuildMessages(prompt, rec, firm)
		section, err := p.completer.Complete(ctx, messages)
		if err != nil {
			cerr := &model.CompletionError{Company: rec.Name, Err: err}
			if p.opts.KeepPartial {
				report.Rows = produced
				p.logger.Warn("completion failed, keeping generated rows",
					"company", rec.Name, "kept", len(produced), "error", err)
				return table.Append(produced...), report, cerr
			}
			p.logger.Warn("completion failed, discarding pass",
				"company", rec.Name, "discarded", len(produced), "error", err)
			return table, report, cerr
		}

		p.logger.Debug("generated section", "company", rec.Name)
		produced = append(produced, model.ResultRow{CompanyName: rec.Name, PersonalizedSection: section})
	}

	report.Rows = produced
	p.logger.Info("processed batch",
		"records", len(records),
		"generated", len(produced),
		"skipped", len(report.Skipped),
	)
	return table.Append(produced...), report, nil
}

func (p *Processor) notify(notice model.Notice) {
	if err := p.notifier.Notify(notice); err != nil {
		p.logger.Error("notify failed", "kind", notice.Kind, "error", err)
	}
}
