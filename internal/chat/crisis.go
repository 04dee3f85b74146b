package chat

import "strings"

// Substrings that route a message straight to the safe reply. The completion
// API is never contacted when one of these is present.
var crisisKeywords = []string{
	"kill myself",
	"i want to die",
	"suicid",
	"end my life",
	"i can't go on",
	"hurt myself",
}

const crisisMessage = "I'm really sorry you're feeling this way. If you are in immediate danger, please call emergency services (e.g., 911) now. " +
	"If you are in the US, call or text 988 for the Suicide & Crisis Lifeline. " +
	"Please consider contacting someone you trust or a local crisis hotline."

func detectCrisis(text string) bool {
	lower := strings.ToLower(text)
	for _, k := range crisisKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func crisisReply() *Reply {
	return &Reply{Emotional: crisisMessage}
}
