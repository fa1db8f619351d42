package llm

import (
	"strings"
)

func clipText(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// clipTail keeps the newest part of text.
func clipTail(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[len(runes)-limit:]))
}

func formatHistory(history []Exchange) string {
	parts := make([]string, 0, len(history))
	for _, h := range history {
		parts = append(parts, "User: "+h.User+"\nAI: "+h.AI)
	}
	return strings.Join(parts, "\n\n")
}

func buildStepPrompt(req AnswerRequest) string {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		question = DefaultQuestion
	}
	var b strings.Builder
	b.WriteString("You are a helpful tech assistant for seniors.\n")
	b.WriteString("Given the following context (from text, image, document, or voice), answer the user's tech question in a clear, short, step-by-step, and friendly way.\n")
	b.WriteString("ALWAYS answer in the following strict format: Each step must start with 'Step 1:', 'Step 2:', etc., with each step on a new line. ")
	b.WriteString("Do NOT add any introduction, summary, or text before or after the steps. Only output the steps.\n")
	b.WriteString("If the text is unclear or seems like a screenshot, summarize the main points and mention if the text is hard to read, but still use the step format.\n")
	b.WriteString("\nExtracted context:\n")
	b.WriteString(clipText(req.Context, maxContextChars))
	if history := clipTail(formatHistory(req.History), maxHistoryChars); history != "" {
		b.WriteString("\n\nChat history:\n")
		b.WriteString(history)
	}
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n")
	return b.String()
}
