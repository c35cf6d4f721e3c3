package models

import (
	"time"

	"virtualcto/internal/config"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// AgentRun is a record of one agent execution inside a project.
// Runs are removed together with their project.
type AgentRun struct {
	ID        string    `json:"id" db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	Input     *string   `json:"input,omitempty" db:"input"`
	Output    *string   `json:"output,omitempty" db:"output"`
	Version   *string   `json:"version,omitempty" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Validate implements validation.Validatable
func (r *AgentRun) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ProjectID, validation.Required),
		validation.Field(&r.Version, validation.RuneLength(0, config.MaxAgentRunVersionLength)),
	)
}
