package dto

import (
	"time"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/types"
	"github.com/gofrs/uuid"
)

type StatusLight struct {
	ID         uuid.UUID        `json:"id"`
	ProjectId  uuid.UUID        `json:"project_id"`
	Label      string           `json:"label"`
	StatusType types.StatusType `json:"status_type"`
	Position   int              `json:"position"`
}

type TicketLight struct {
	ID       uuid.UUID `json:"id"`
	SprintId uuid.UUID `json:"sprint_id"`
	StatusId uuid.UUID `json:"status_id"`
	Title    string    `json:"title"`
	Position int       `json:"position"`
}

type Ticket struct {
	TicketLight
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Status      *StatusLight `json:"status_detail,omitempty" extensions:"x-nullable"`
	CreatedBy   *UserLight   `json:"created_by_detail,omitempty" extensions:"x-nullable"`
	Assignees   []UserLight  `json:"assignees,omitempty"`
}

type TicketTracker struct {
	ID           uuid.UUID  `json:"id"`
	TicketId     uuid.UUID  `json:"ticket_id"`
	PrevStatusId *uuid.UUID `json:"prev_status_id" extensions:"x-nullable"`
	NewStatusId  uuid.UUID  `json:"new_status_id"`
	TimeTaken    int        `json:"time_taken"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedBy    *UserLight `json:"updated_by_detail,omitempty" extensions:"x-nullable"`
}

// BoardColumn - колонка доски вместе с карточками в порядке позиций.
type BoardColumn struct {
	Status  StatusLight   `json:"status"`
	Pinned  bool          `json:"pinned"`
	Tickets []TicketLight `json:"tickets"`
}
