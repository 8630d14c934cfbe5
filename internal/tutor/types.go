package tutor

// Speaker identifies who wrote a turn.
type Speaker string

const (
	Learner Speaker = "learner"
	Tutor   Speaker = "tutor"
)

// Turn is one message in a practice conversation.
type Turn struct {
	Speaker Speaker
	Text    string
}

// Conversation is the state a reply is generated from.
type Conversation struct {
	Topic string
	// Level is a CEFR level, A1 through C2.
	Level string
	// Summary condenses turns that were dropped from History.
	Summary string
	History []Turn
}

// Reply is the tutor's answer to a learner message.
type Reply struct {
	Text string
	// Correction is the learner's message rewritten correctly, or "" when
	// it needed no changes or no correction was asked for.
	Correction  string
	Explanation string
}
