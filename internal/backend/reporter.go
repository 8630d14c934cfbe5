package backend

import (
	"context"
	"errors"

	"github.com/abhisek/lexiz/internal/study"
)

// FanOut delivers each result to every non-nil reporter. Every reporter is
// tried; the errors are joined.
func FanOut(reporters ...study.Reporter) study.Reporter {
	var live []study.Reporter
	for _, r := range reporters {
		if r != nil {
			live = append(live, r)
		}
	}
	return study.ReporterFunc(func(ctx context.Context, res study.SessionResult) error {
		var errs []error
		for _, r := range live {
			if err := r.SubmitSessionResult(ctx, res); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
