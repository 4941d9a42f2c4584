// Package progress is the external collaborator spec.md §6 names but does
// not specify: it turns byte counts into structured log lines for whoever
// is watching the CLI run.
package progress

import "go.uber.org/zap"

// Reporter logs periodic progress updates. It has no teacher analogue —
// the teacher never reports progress — so it is written in the general
// shape of a small stateful wrapper around a collaborator, the way the
// teacher's ModelPpm wraps its decoder and allocator.
type Reporter struct {
	log   *zap.SugaredLogger
	every uint64
	last  uint64
}

// New returns a Reporter that logs through log, emitting an update at most
// once per every bytes processed.
func New(log *zap.SugaredLogger, every uint64) *Reporter {
	if every == 0 {
		every = 1 << 20
	}
	return &Reporter{log: log, every: every}
}

// Update logs a progress line for done out of total bytes, plus the
// model's current arena footprint. Per spec.md §9's third Open Question,
// it is a no-op when total is zero: the source's progress bar divides by
// total, which would panic on empty input, so the driver must not even
// attempt an update in that case.
func (r *Reporter) Update(done, total uint64, usedMiB uint32) {
	if total == 0 {
		return
	}
	if done < total && done-r.last < r.every {
		return
	}
	r.last = done
	percent := float64(done) / float64(total) * 100
	r.log.Infow("progress",
		"done", done,
		"total", total,
		"percent", percent,
		"usedMiB", usedMiB,
	)
}

// Done logs a final completion line unconditionally, even for empty input,
// since it does not divide by total.
func (r *Reporter) Done(total uint64) {
	r.log.Infow("complete", "total", total)
}
