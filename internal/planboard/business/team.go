package business

import (
	"errors"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/apierrors"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dao"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// CreateTeam создает команду проекта.
func (b *Business) CreateTeam(project dao.Project, name string) (*dao.Team, error) {
	team := dao.Team{
		ID:        dao.GenUUID(),
		ProjectId: project.ID,
		Name:      name,
	}
	if err := b.db.Create(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// DeleteTeam удаляет команду вместе с участниками и их назначениями на
// карточки.
func (b *Business) DeleteTeam(team *dao.Team) error {
	return b.db.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(team).Error
	})
}

// AddTeammate добавляет пользователя в команду.
func (b *Business) AddTeammate(team dao.Team, user dao.User) (*dao.Teammate, error) {
	teammate := dao.Teammate{
		ID:     dao.GenUUID(),
		TeamId: team.ID,
		UserId: user.ID,
	}
	if err := b.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&dao.Teammate{}).
			Where("team_id = ? AND user_id = ?", team.ID, user.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apierrors.ErrTeammateAssigned
		}
		return tx.Create(&teammate).Error
	}); err != nil {
		return nil, err
	}
	return &teammate, nil
}

// RemoveTeammate исключает участника из команды и снимает его назначения.
func (b *Business) RemoveTeammate(teammate *dao.Teammate) error {
	return b.db.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(teammate).Error
	})
}

// AssignTicket назначает карточку участнику команды. Участник должен
// состоять в команде того же проекта, что и спринт карточки; повторное
// назначение той же пары отклоняется.
func (b *Business) AssignTicket(ticket dao.Ticket, teammateId uuid.UUID, assignedBy dao.User) (*dao.TicketAssignee, error) {
	var sprint dao.Sprint
	if err := b.db.Unscoped().Where("id = ?", ticket.SprintId).First(&sprint).Error; err != nil {
		return nil, err
	}

	var teammate dao.Teammate
	if err := b.db.Preload("Team").Where("id = ?", teammateId).First(&teammate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrTeammateNotFound
		}
		return nil, err
	}
	if teammate.Team == nil || teammate.Team.ProjectId != sprint.ProjectId {
		return nil, apierrors.ErrTeammateWrongProject
	}

	assignee := dao.TicketAssignee{
		ID:           dao.GenUUID(),
		TicketId:     ticket.ID,
		TeammateId:   teammate.ID,
		AssignedById: assignedBy.ID,
	}
	if err := b.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&dao.TicketAssignee{}).
			Where("ticket_id = ? AND teammate_id = ?", ticket.ID, teammate.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apierrors.ErrTeammateAssigned
		}
		return tx.Create(&assignee).Error
	}); err != nil {
		return nil, err
	}
	return &assignee, nil
}

// UnassignTicket снимает назначение карточки с участника. Снятие
// отсутствующего назначения не ошибка: итоговое состояние то же.
func (b *Business) UnassignTicket(ticketId, teammateId uuid.UUID) error {
	return b.db.Where("ticket_id = ? AND teammate_id = ?", ticketId, teammateId).
		Delete(&dao.TicketAssignee{}).Error
}
