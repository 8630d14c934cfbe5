package tutor

import (
	"fmt"
	"strings"
)

func buildSystemPrompt(c Conversation, correct bool) string {
	var b strings.Builder

	b.WriteString("You are a friendly English conversation partner for a Russian-speaking learner.\n")
	level := c.Level
	if level == "" {
		level = "B1"
	}
	fmt.Fprintf(&b, "Learner level (CEFR): %s. Use vocabulary and grammar a %s learner can follow.\n", level, level)
	if c.Topic != "" {
		fmt.Fprintf(&b, "Conversation topic: %s. Keep the conversation on this topic.\n", c.Topic)
	}
	if c.Summary != "" {
		fmt.Fprintf(&b, "\nEarlier in this conversation:\n%s\n", c.Summary)
	}

	b.WriteString(`
Instructions:
1. Reply naturally in 1-3 sentences and end with a question that keeps the learner talking.
2. Write plain text only. No markdown, no HTML.`)
	if correct {
		b.WriteString(`
3. If the learner's last message has grammar, spelling, or word choice mistakes, put the corrected message in "correction" and explain the main fix briefly in "explanation". If it is already correct, leave both empty.`)
	} else {
		b.WriteString(`
3. Do not correct the learner. Leave "correction" and "explanation" empty.`)
	}
	return b.String()
}

const compressionSystemPrompt = `You are summarizing an English practice conversation so it can continue with less context. Keep names, facts the learner shared, and the current thread of discussion.`

func buildCompressionUserMessage(turns []Turn) string {
	var b strings.Builder

	b.WriteString("Turns:\n")
	for _, t := range turns {
		fmt.Fprintf(&b, "- %s: %s\n", t.Speaker, t.Text)
	}

	b.WriteString(`
Instructions:
Summarize these turns in 2-4 sentences. Do not include corrections or advice.`)

	return b.String()
}
