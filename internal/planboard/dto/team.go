package dto

import "github.com/gofrs/uuid"

type TeamLight struct {
	ID        uuid.UUID       `json:"id"`
	ProjectId uuid.UUID       `json:"project_id"`
	Name      string          `json:"name"`
	Teammates []TeammateLight `json:"teammates,omitempty"`
}

type TeammateLight struct {
	ID     uuid.UUID  `json:"id"`
	TeamId uuid.UUID  `json:"team_id"`
	UserId uuid.UUID  `json:"user_id"`
	User   *UserLight `json:"user_detail,omitempty" extensions:"x-nullable"`
}
