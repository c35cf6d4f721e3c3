package config

const (
	// MaxProjectNameLength is the maximum length for project names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxProjectNameLength = 255

	// MaxUsernameLength matches the users.username column.
	MaxUsernameLength = 255

	// MaxPasswordLength is bcrypt's input limit; longer inputs are rejected
	// rather than silently truncated.
	MaxPasswordLength = 72

	// MaxAgentRunVersionLength matches the agent_runs.version column.
	MaxAgentRunVersionLength = 50
)
