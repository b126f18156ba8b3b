package dto

import (
	"time"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/types"
	"github.com/gofrs/uuid"
)

type SprintLight struct {
	ID        uuid.UUID     `json:"id"`
	ProjectId uuid.UUID     `json:"project_id"`
	Title     string        `json:"title"`
	StartDate types.CalDate `json:"start_date"`
	EndDate   types.CalDate `json:"end_date"`
	Status    string        `json:"status"`

	// Длительность в днях, границы не учитываются
	Duration int `json:"duration"`
}

type Sprint struct {
	SprintLight
	Goal       string     `json:"goal"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty" extensions:"x-nullable"`
	CreatedBy  *UserLight `json:"created_by_detail,omitempty" extensions:"x-nullable"`
}
