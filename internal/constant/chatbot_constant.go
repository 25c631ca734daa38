package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"

	// Greeting inserted as the first assistant turn of every new session.
	SessionGreeting = "Hi, how can I help you ?"

	// In-process topic carrying dispatched booking actions to the task sink.
	ActionResultTopic = "agent_action_results"
)
