package dao

import (
	"time"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dto"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/types"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Sprint - итерация работы над проектом. Даты хранятся без времени суток,
// границы включительные. Архивация выполняется мягким удалением: спринт
// пропадает из выборок, но остается восстановимым до жесткой очистки.
type Sprint struct {
	ID        uuid.UUID      `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty" extensions:"x-nullable"`

	ProjectId uuid.UUID `gorm:"type:uuid;index" json:"project_id"`
	Title     string    `json:"title"`
	Goal      string    `json:"goal"`

	StartDate types.CalDate `json:"start_date"`
	EndDate   types.CalDate `json:"end_date"`

	Status string `json:"status" gorm:"default:inactive"`

	CreatedById uuid.UUID `gorm:"type:uuid" json:"created_by_id"`

	Project   *Project `gorm:"foreignKey:ProjectId" json:"-" extensions:"x-nullable"`
	CreatedBy *User    `gorm:"foreignKey:CreatedById" json:"created_by_detail,omitempty" extensions:"x-nullable"`
}

func (Sprint) TableName() string { return "sprints" }

// Duration возвращает число дней между началом и концом спринта без учета
// самих границ: спринт с 1 по 6 января длится 5 дней.
func (s *Sprint) Duration() int {
	return types.DaysBetween(s.StartDate, s.EndDate)
}

func (s *Sprint) ToLightDTO() *dto.SprintLight {
	if s == nil {
		return nil
	}
	return &dto.SprintLight{
		ID:        s.ID,
		ProjectId: s.ProjectId,
		Title:     s.Title,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		Status:    s.Status,
		Duration:  s.Duration(),
	}
}

func (s *Sprint) ToDTO() *dto.Sprint {
	if s == nil {
		return nil
	}
	res := dto.Sprint{
		SprintLight: *s.ToLightDTO(),
		Goal:        s.Goal,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		CreatedBy:   s.CreatedBy.ToLightDTO(),
	}
	if s.DeletedAt.Valid {
		res.ArchivedAt = &s.DeletedAt.Time
	}
	return &res
}
