package study

import (
	"context"
	"log/slog"
)

// Reporter receives finished session results.
type Reporter interface {
	SubmitSessionResult(ctx context.Context, result SessionResult) error
}

// OnComplete hands the result to the reporter. Delivery is best effort: the
// learner has already finished, so a failure is logged and dropped.
func OnComplete(ctx context.Context, r Reporter, c *Completion) {
	if r == nil || c == nil {
		return
	}
	log := slog.Default().With("session", c.SessionID, "mode", string(c.Result.Mode))
	if err := r.SubmitSessionResult(ctx, c.Result); err != nil {
		log.Warn("submit session result failed", "err", err, "results", len(c.Result.CardResults))
		return
	}
	log.Info("session result submitted",
		"results", len(c.Result.CardResults),
		"seconds", c.Result.TotalTimeSpentSec)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, result SessionResult) error

func (f ReporterFunc) SubmitSessionResult(ctx context.Context, result SessionResult) error {
	return f(ctx, result)
}
