package dao

import (
	"time"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dto"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type Team struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId uuid.UUID `gorm:"type:uuid;index;uniqueIndex:team_name_idx,priority:1" json:"project_id"`
	Name      string    `gorm:"uniqueIndex:team_name_idx,priority:2" json:"name"`

	Project   *Project   `gorm:"foreignKey:ProjectId" json:"-" extensions:"x-nullable"`
	Teammates []Teammate `gorm:"foreignKey:TeamId" json:"teammates,omitempty"`
}

func (Team) TableName() string { return "teams" }

func (t *Team) BeforeDelete(tx *gorm.DB) error {
	if err := tx.Where("teammate_id IN (?)",
		tx.Select("id").Where("team_id = ?", t.ID).Model(&Teammate{})).
		Delete(&TicketAssignee{}).Error; err != nil {
		return err
	}
	return tx.Where("team_id = ?", t.ID).Delete(&Teammate{}).Error
}

func (t *Team) ToLightDTO() *dto.TeamLight {
	if t == nil {
		return nil
	}
	res := dto.TeamLight{
		ID:        t.ID,
		ProjectId: t.ProjectId,
		Name:      t.Name,
	}
	for _, tm := range t.Teammates {
		res.Teammates = append(res.Teammates, *tm.ToLightDTO())
	}
	return &res
}

// Teammate - участник команды проекта. Один пользователь может состоять
// в нескольких командах, но в одной команде встречается не более одного
// раза.
type Teammate struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TeamId uuid.UUID `gorm:"type:uuid;uniqueIndex:team_member_idx,priority:1" json:"team_id"`
	UserId uuid.UUID `gorm:"type:uuid;uniqueIndex:team_member_idx,priority:2" json:"user_id"`

	Team *Team `gorm:"foreignKey:TeamId" json:"-" extensions:"x-nullable"`
	User *User `gorm:"foreignKey:UserId" json:"user_detail,omitempty" extensions:"x-nullable"`
}

func (Teammate) TableName() string { return "teammates" }

func (t *Teammate) BeforeDelete(tx *gorm.DB) error {
	return tx.Where("teammate_id = ?", t.ID).Delete(&TicketAssignee{}).Error
}

func (t *Teammate) ToLightDTO() *dto.TeammateLight {
	if t == nil {
		return nil
	}
	return &dto.TeammateLight{
		ID:     t.ID,
		TeamId: t.TeamId,
		UserId: t.UserId,
		User:   t.User.ToLightDTO(),
	}
}
