package practice

import (
	"github.com/abhisek/lexiz/internal/study/pacing"
)

// pacingFireMsg delivers a Lightning timer expiry. Stale handles are
// rejected by the controller.
type pacingFireMsg struct {
	Handle pacing.Handle
}

// feedbackDoneMsg ends the answer feedback pause. Seq guards against pauses
// that were started before a restart or a quit.
type feedbackDoneMsg struct {
	Seq int
}

// spokenMsg reports whether pronunciation played.
type spokenMsg struct {
	OK bool
}
