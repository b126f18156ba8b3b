package dao

import (
	"time"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dto"
	"github.com/gofrs/uuid"
)

// Ticket - карточка на доске спринта. Позиция задает порядок внутри
// колонки; непрерывность значений позиций не гарантируется.
type Ticket struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SprintId uuid.UUID `gorm:"type:uuid;index" json:"sprint_id"`
	StatusId uuid.UUID `gorm:"type:uuid;index" json:"status_id"`

	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int    `json:"position" gorm:"default:0;index"`

	CreatedById uuid.UUID `gorm:"type:uuid" json:"created_by_id"`

	Sprint    *Sprint `gorm:"foreignKey:SprintId" json:"-" extensions:"x-nullable"`
	Status    *Status `gorm:"foreignKey:StatusId" json:"status_detail,omitempty" extensions:"x-nullable"`
	CreatedBy *User   `gorm:"foreignKey:CreatedById" json:"created_by_detail,omitempty" extensions:"x-nullable"`

	Assignees []TicketAssignee `gorm:"foreignKey:TicketId" json:"-"`
}

func (Ticket) TableName() string { return "tickets" }

func (t *Ticket) ToLightDTO() *dto.TicketLight {
	if t == nil {
		return nil
	}
	return &dto.TicketLight{
		ID:       t.ID,
		SprintId: t.SprintId,
		StatusId: t.StatusId,
		Title:    t.Title,
		Position: t.Position,
	}
}

func (t *Ticket) ToDTO() *dto.Ticket {
	if t == nil {
		return nil
	}
	res := dto.Ticket{
		TicketLight: *t.ToLightDTO(),
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Status:      t.Status.ToLightDTO(),
		CreatedBy:   t.CreatedBy.ToLightDTO(),
	}
	for _, a := range t.Assignees {
		if a.Teammate != nil && a.Teammate.User != nil {
			res.Assignees = append(res.Assignees, *a.Teammate.User.ToLightDTO())
		}
	}
	return &res
}

// TicketTracker - журнал переходов карточки между колонками. Строки
// только добавляются; запись о переходе создается до перезаписи статуса
// карточки. Затраченное время накапливается в последней строке, чья
// новая колонка совпадает с текущей колонкой карточки.
type TicketTracker struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TicketId     uuid.UUID  `gorm:"type:uuid;index" json:"ticket_id"`
	PrevStatusId *uuid.UUID `gorm:"type:uuid" json:"prev_status_id" extensions:"x-nullable"`
	NewStatusId  uuid.UUID  `gorm:"type:uuid;index" json:"new_status_id"`

	UpdatedById uuid.UUID `gorm:"type:uuid" json:"updated_by_id"`

	// Накопленное время в минутах в рамках этого пребывания в колонке
	TimeTaken int `json:"time_taken" gorm:"default:0"`

	Ticket    *Ticket `gorm:"foreignKey:TicketId" json:"-" extensions:"x-nullable"`
	UpdatedBy *User   `gorm:"foreignKey:UpdatedById" json:"updated_by_detail,omitempty" extensions:"x-nullable"`
}

func (TicketTracker) TableName() string { return "ticket_trackers" }

func (t *TicketTracker) ToDTO() *dto.TicketTracker {
	if t == nil {
		return nil
	}
	return &dto.TicketTracker{
		ID:           t.ID,
		TicketId:     t.TicketId,
		PrevStatusId: t.PrevStatusId,
		NewStatusId:  t.NewStatusId,
		TimeTaken:    t.TimeTaken,
		CreatedAt:    t.CreatedAt,
		UpdatedBy:    t.UpdatedBy.ToLightDTO(),
	}
}

// TicketAssignee - связь карточки с участником команды. Пара
// (ticket, teammate) уникальна: повторное назначение отклоняется.
type TicketAssignee struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TicketId   uuid.UUID `gorm:"type:uuid;uniqueIndex:ticket_assignee_idx,priority:1" json:"ticket_id"`
	TeammateId uuid.UUID `gorm:"type:uuid;uniqueIndex:ticket_assignee_idx,priority:2" json:"teammate_id"`

	AssignedById uuid.UUID `gorm:"type:uuid" json:"assigned_by_id"`

	Ticket     *Ticket   `gorm:"foreignKey:TicketId" json:"-" extensions:"x-nullable"`
	Teammate   *Teammate `gorm:"foreignKey:TeammateId" json:"teammate_detail,omitempty" extensions:"x-nullable"`
	AssignedBy *User     `gorm:"foreignKey:AssignedById" json:"assigned_by_detail,omitempty" extensions:"x-nullable"`
}

func (TicketAssignee) TableName() string { return "ticket_assignees" }
