package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// Analytics interaction modes
	AnalyticsModeAsk      = "ask"
	AnalyticsModeChat     = "chat"
	AnalyticsModeFeedback = "feedback"

	// Retrieval depth per flow
	AskTopK             = 8
	ChatTopK            = 12
	OfflineValidateTopK = 5

	// Token framing for locally rendered stream text
	StreamChunkSize = 8

	DefaultMaxMessagesPerSession = 15
)
