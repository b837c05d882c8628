package cache

const (
	// SWOTActiveQuestionsKey holds the ordered list of active SWOT prompts.
	SWOTActiveQuestionsKey = "swot:questions:active"
	SWOTPattern            = "swot:*"
)
