package config

const (
	// MaxConversationTitleLength is the maximum length for conversation
	// titles. Limited to 255 to fit in a VARCHAR(255)-sized column and
	// provide reasonable UX (titles should be short and descriptive).
	MaxConversationTitleLength = 255

	// MaxMessageLength caps a single user message. Large enough for
	// pasted documents while keeping prompts inside provider context
	// windows.
	MaxMessageLength = 100_000
)
