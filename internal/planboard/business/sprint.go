package business

import (
	"errors"
	"time"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/apierrors"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dao"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/types"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// hasSprintOverlap проверяет пересечение диапазона дат с живыми спринтами
// проекта. Границы включительные: спринт, заканчивающийся в день начала
// другого, уже пересекается с ним. excludeId исключает спринт из проверки
// при изменении его собственных дат.
func hasSprintOverlap(tx *gorm.DB, projectId uuid.UUID, start, end types.CalDate, excludeId *uuid.UUID) (bool, error) {
	query := tx.Model(&dao.Sprint{}).
		Where("project_id = ?", projectId).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeId != nil {
		query = query.Where("id <> ?", *excludeId)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateSprint создает спринт проекта. Метод принимает проект, автора и заполненный спринт без идентификатора. Возвращает созданный спринт или ошибку пересечения дат.
func (b *Business) CreateSprint(project dao.Project, user dao.User, sprint dao.Sprint) (*dao.Sprint, error) {
	if types.DaysBetween(sprint.StartDate, sprint.EndDate) < 0 {
		return nil, apierrors.ErrSprintTimeWindow
	}

	sprint.ID = dao.GenUUID()
	sprint.ProjectId = project.ID
	sprint.Status = types.SprintInactive
	sprint.CreatedById = user.ID

	if err := b.db.Transaction(func(tx *gorm.DB) error {
		overlap, err := hasSprintOverlap(tx, project.ID, sprint.StartDate, sprint.EndDate, nil)
		if err != nil {
			return err
		}
		if overlap {
			return apierrors.ErrSprintDatesOverlap
		}
		return tx.Create(&sprint).Error
	}); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// UpdateSprint изменяет заголовок, цель и даты спринта. При изменении дат
// спринт исключается из проверки пересечения, иначе он конфликтовал бы сам
// с собой.
func (b *Business) UpdateSprint(sprint *dao.Sprint, title, goal *string, start, end *types.CalDate) error {
	if title != nil {
		sprint.Title = *title
	}
	if goal != nil {
		sprint.Goal = *goal
	}
	if start != nil {
		sprint.StartDate = *start
	}
	if end != nil {
		sprint.EndDate = *end
	}
	if types.DaysBetween(sprint.StartDate, sprint.EndDate) < 0 {
		return apierrors.ErrSprintTimeWindow
	}

	return b.db.Transaction(func(tx *gorm.DB) error {
		if start != nil || end != nil {
			overlap, err := hasSprintOverlap(tx, sprint.ProjectId, sprint.StartDate, sprint.EndDate, &sprint.ID)
			if err != nil {
				return err
			}
			if overlap {
				return apierrors.ErrSprintDatesOverlap
			}
		}
		return tx.Select("title", "goal", "start_date", "end_date", "updated_at").
			Updates(sprint).Error
	})
}

// StartSprint делает спринт активным. В проекте одновременно активен не
// более чем один спринт: все прочие активные спринты в той же транзакции
// переводятся в завершенные.
func (b *Business) StartSprint(sprint *dao.Sprint) error {
	return b.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&dao.Sprint{}).
			Where("project_id = ? AND status = ? AND id <> ?",
				sprint.ProjectId, types.SprintActive, sprint.ID).
			Update("status", types.SprintCompleted).Error; err != nil {
			return err
		}

		sprint.Status = types.SprintActive
		return tx.Model(sprint).Update("status", types.SprintActive).Error
	})
}

// CompleteSprint переводит активный спринт в завершенные.
func (b *Business) CompleteSprint(sprint *dao.Sprint) error {
	sprint.Status = types.SprintCompleted
	return b.db.Model(sprint).Update("status", types.SprintCompleted).Error
}

// ArchiveSprint мягко удаляет спринт. Архивировать можно только спринт в
// состоянии inactive: активные и завершенные спринты - часть истории
// проекта.
func (b *Business) ArchiveSprint(sprint *dao.Sprint) error {
	return b.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("status = ?", types.SprintInactive).Delete(sprint)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apierrors.ErrSprintNotInactive
		}
		return nil
	})
}

// RestoreSprint возвращает архивный спринт. Даты спринта заново проверяются
// на пересечение: за время в архиве место могло быть занято.
func (b *Business) RestoreSprint(projectId uuid.UUID, sprintId uuid.UUID) (*dao.Sprint, error) {
	var sprint dao.Sprint
	if err := b.db.Unscoped().
		Where("project_id = ? AND id = ? AND deleted_at IS NOT NULL", projectId, sprintId).
		First(&sprint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrSprintNotFound
		}
		return nil, err
	}

	if err := b.db.Transaction(func(tx *gorm.DB) error {
		overlap, err := hasSprintOverlap(tx, sprint.ProjectId, sprint.StartDate, sprint.EndDate, nil)
		if err != nil {
			return err
		}
		if overlap {
			return apierrors.ErrSprintDatesOverlap
		}
		return tx.Unscoped().Model(&sprint).Update("deleted_at", nil).Error
	}); err != nil {
		return nil, err
	}

	sprint.DeletedAt = gorm.DeletedAt{}
	return &sprint, nil
}

// PurgeSprint окончательно удаляет архивный спринт вместе с карточками,
// журналом переходов и назначениями.
func (b *Business) PurgeSprint(projectId uuid.UUID, sprintId uuid.UUID) error {
	var sprint dao.Sprint
	if err := b.db.Unscoped().
		Where("project_id = ? AND id = ? AND deleted_at IS NOT NULL", projectId, sprintId).
		First(&sprint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierrors.ErrSprintNotFound
		}
		return err
	}
	return b.db.Transaction(func(tx *gorm.DB) error {
		return purgeSprint(tx, sprint.ID)
	})
}

func purgeSprint(tx *gorm.DB, sprintId uuid.UUID) error {
	ticketIds := tx.Select("id").Where("sprint_id = ?", sprintId).Model(&dao.Ticket{})
	if err := tx.Where("ticket_id IN (?)", ticketIds).Delete(&dao.TicketTracker{}).Error; err != nil {
		return err
	}
	if err := tx.Where("ticket_id IN (?)", ticketIds).Delete(&dao.TicketAssignee{}).Error; err != nil {
		return err
	}
	if err := tx.Where("sprint_id = ?", sprintId).Delete(&dao.Ticket{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("id = ?", sprintId).Delete(&dao.Sprint{}).Error
}

// PurgeExpiredSprints удаляет архивные спринты, пролежавшие в архиве дольше
// retention. Вызывается регулярным заданием обслуживания.
func (b *Business) PurgeExpiredSprints(retention time.Duration) (int, error) {
	var expired []dao.Sprint
	deadline := time.Now().Add(-retention)
	if err := b.db.Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", deadline).
		Find(&expired).Error; err != nil {
		return 0, err
	}

	purged := 0
	for _, sprint := range expired {
		if err := b.db.Transaction(func(tx *gorm.DB) error {
			return purgeSprint(tx, sprint.ID)
		}); err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}
