// Package iorepair implements repair.Repairer on top of the tidwall JSON
// tools, so documents are edited in place instead of being decoded and
// encoded again.
package iorepair

import (
	"context"
	"log/slog"

	"github.com/gnames/cfgrepair/internal/iofs"
	"github.com/gnames/cfgrepair/pkg/config"
	"github.com/gnames/cfgrepair/pkg/repair"
	"golang.org/x/sync/errgroup"
)

// Repairer reads, repairs and writes back configuration documents.
type Repairer struct {
	dryRun bool
	jobs   int
	write  func(path string, data []byte) error
}

// New creates a Repairer that follows cfg.Repair.DryRun and
// cfg.JobsNumber.
func New(cfg *config.Config) *Repairer {
	jobs := cfg.JobsNumber
	if jobs < 1 {
		jobs = 1
	}
	return &Repairer{
		dryRun: cfg.Repair.DryRun,
		jobs:   jobs,
		write:  iofs.WriteFile,
	}
}

// Repair runs the repair pass on the document at path. If the repaired
// document cannot be written, the result with its removals is returned
// together with the error.
func (r *Repairer) Repair(path string) (*repair.Result, error) {
	data, err := iofs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, removals, err := Clean(data)
	if err != nil {
		return nil, withPath(path, err)
	}

	res := &repair.Result{
		Path:     path,
		Removals: removals,
		Changed:  len(removals) > 0,
		DryRun:   r.dryRun,
	}
	for _, v := range removals {
		slog.Info("Removed default from required column",
			"path", path,
			"table", v.Table,
			"column", v.Column,
			"default", v.Default,
		)
	}

	switch {
	case !res.Changed:
		slog.Info("No changes needed", "path", path)
		return res, nil
	case r.dryRun:
		slog.Info("Dry run, document is not written",
			"path", path, "removals", len(removals))
		return res, nil
	}

	if err = r.write(path, doc); err != nil {
		res.Err = err
		return res, err
	}
	res.Written = true
	slog.Info("Document updated", "path", path, "removals", len(removals))

	return res, nil
}

// RepairFiles runs Repair on every path, at most JobsNumber at a time.
// A failed document does not stop the others.
func (r *Repairer) RepairFiles(
	ctx context.Context,
	paths []string,
) ([]repair.Result, error) {
	res := make([]repair.Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				res[i] = repair.Result{Path: path, Err: err}
				return err
			}
			out, err := r.Repair(path)
			if err != nil {
				slog.Error("Repair failed", "path", path, "error", err)
				if out == nil {
					out = &repair.Result{Path: path, DryRun: r.dryRun}
				}
				out.Err = err
			}
			res[i] = *out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, nil
}
