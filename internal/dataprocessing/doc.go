// Package dataprocessing is the reconciliation and derivation engine of the
// TrialPulse dashboard.
//
// It takes the three clinical-trial exports (enrollment summary, site monthly
// summary, site-master data) as raw tables, normalizes their column names
// across known synonym sets, reshapes the ragged month-named columns of the
// monthly summary into long form, merges sites into an activation timeline,
// and derives the projection, COSL and screen-failure analytics.
//
// The package follows a strict degradation policy: structural problems with
// an input file abort a generation run, but a missing column, an unparseable
// date or an unrecognized month header never raise; the affected derived
// table is omitted with a typed reason and every other analysis proceeds.
//
// The main entry point is Generator.Generate, which produces an immutable
// domain.Snapshot in one shot:
//
//	gen := dataprocessing.NewGenerator(logger, cfg.Dashboard)
//	snapshot, err := gen.Generate(ctx, inputs, params)
package dataprocessing
