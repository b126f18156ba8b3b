package business

import (
	"errors"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/apierrors"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dao"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/types"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// StatusOrder - требуемая позиция колонки при перестановке доски.
type StatusOrder struct {
	StatusId uuid.UUID `json:"status_id" validate:"required"`
	Position int       `json:"position" validate:"min=0"`
}

// TicketOrder - требуемое положение карточки: колонка и позиция внутри нее.
type TicketOrder struct {
	TicketId uuid.UUID `json:"ticket_id" validate:"required"`
	StatusId uuid.UUID `json:"status_id" validate:"required"`
	Position int       `json:"position" validate:"min=0"`
}

// CreateStatus добавляет колонку в конец доски проекта.
func (b *Business) CreateStatus(project dao.Project, label string, statusType types.StatusType) (*dao.Status, error) {
	status := dao.Status{
		ID:         dao.GenUUID(),
		ProjectId:  project.ID,
		Label:      label,
		StatusType: statusType,
	}
	if err := b.db.Transaction(func(tx *gorm.DB) error {
		var maxPos *int
		if err := tx.Model(&dao.Status{}).
			Where("project_id = ?", project.ID).
			Select("max(position)").Scan(&maxPos).Error; err != nil {
			return err
		}
		if maxPos != nil {
			status.Position = *maxPos + 1
		}
		return tx.Create(&status).Error
	}); err != nil {
		return nil, err
	}
	return &status, nil
}

// RenameStatus изменяет подпись колонки.
func (b *Business) RenameStatus(status *dao.Status, label string) error {
	status.Label = label
	return b.db.Model(status).Update("label", label).Error
}

// DeleteStatus удаляет колонку доски. Колонка с карточками не удаляется,
// даже если все ее карточки принадлежат архивным спринтам.
func (b *Business) DeleteStatus(status *dao.Status) error {
	return b.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&dao.Ticket{}).
			Where("status_id = ?", status.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apierrors.ErrStatusNotEmpty
		}
		return tx.Delete(status).Error
	})
}

// ReorderStatuses применяет новый порядок колонок доски одним пакетом.
// Позиции задаются абсолютно, применяются все или ни одной. Колонки, не
// вошедшие в пакет, сохраняют прежние позиции.
func (b *Business) ReorderStatuses(projectId uuid.UUID, orders []StatusOrder) error {
	if len(orders) == 0 {
		return nil
	}
	return b.db.Transaction(func(tx *gorm.DB) error {
		for _, order := range orders {
			res := tx.Model(&dao.Status{}).
				Where("id = ? AND project_id = ?", order.StatusId, projectId).
				Update("position", order.Position)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apierrors.ErrStatusNotFound
			}
		}
		return nil
	})
}

// CreateTicket создает карточку в колонке вместе с начальной записью
// журнала переходов: так затраченное время можно накапливать и до первого
// перемещения карточки.
func (b *Business) CreateTicket(sprint dao.Sprint, user dao.User, status dao.Status, title, description string) (*dao.Ticket, error) {
	if status.ProjectId != sprint.ProjectId {
		return nil, apierrors.ErrStatusNotFound
	}

	ticket := dao.Ticket{
		ID:          dao.GenUUID(),
		SprintId:    sprint.ID,
		StatusId:    status.ID,
		Title:       title,
		Description: description,
		CreatedById: user.ID,
	}

	if err := b.db.Transaction(func(tx *gorm.DB) error {
		var maxPos *int
		if err := tx.Model(&dao.Ticket{}).
			Where("sprint_id = ? AND status_id = ?", sprint.ID, status.ID).
			Select("max(position)").Scan(&maxPos).Error; err != nil {
			return err
		}
		if maxPos != nil {
			ticket.Position = *maxPos + 1
		}
		if err := tx.Create(&ticket).Error; err != nil {
			return err
		}
		return tx.Create(&dao.TicketTracker{
			ID:          dao.GenUUID(),
			TicketId:    ticket.ID,
			NewStatusId: status.ID,
			UpdatedById: user.ID,
		}).Error
	}); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ReorderTickets применяет пакет перемещений карточек одной транзакцией.
// При смене колонки запись журнала переходов создается до перезаписи
// статуса карточки; перемещение внутри колонки журнал не трогает.
func (b *Business) ReorderTickets(sprint dao.Sprint, user dao.User, orders []TicketOrder) error {
	if len(orders) == 0 {
		return nil
	}
	return b.db.Transaction(func(tx *gorm.DB) error {
		for _, order := range orders {
			var ticket dao.Ticket
			if err := tx.Where("id = ? AND sprint_id = ?", order.TicketId, sprint.ID).
				First(&ticket).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierrors.ErrTicketNotFound
				}
				return err
			}

			if order.StatusId == ticket.StatusId {
				if err := tx.Model(&ticket).Update("position", order.Position).Error; err != nil {
					return err
				}
				continue
			}

			var status dao.Status
			if err := tx.Where("id = ? AND project_id = ?", order.StatusId, sprint.ProjectId).
				First(&status).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierrors.ErrStatusNotFound
				}
				return err
			}

			prev := ticket.StatusId
			if err := tx.Create(&dao.TicketTracker{
				ID:           dao.GenUUID(),
				TicketId:     ticket.ID,
				PrevStatusId: &prev,
				NewStatusId:  status.ID,
				UpdatedById:  user.ID,
			}).Error; err != nil {
				return err
			}

			if err := tx.Model(&ticket).Updates(map[string]interface{}{
				"status_id": status.ID,
				"position":  order.Position,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// AddTimeTaken накапливает затраченное время на карточке. Время принимается
// только пока карточка стоит в обычной колонке: в начальных и конечных
// колонках работа не ведется. Минуты добавляются к последней записи журнала,
// чья колонка совпадает с текущей колонкой карточки.
func (b *Business) AddTimeTaken(ticket dao.Ticket, user dao.User, minutes int) (*dao.TicketTracker, error) {
	if minutes < types.MinTimeTaken || minutes > types.MaxTimeTaken {
		return nil, apierrors.ErrTimeTakenOutOfRange
	}

	var tracker dao.TicketTracker
	if err := b.db.Transaction(func(tx *gorm.DB) error {
		var status dao.Status
		if err := tx.Where("id = ?", ticket.StatusId).First(&status).Error; err != nil {
			return err
		}
		if !status.StatusType.Tracked() {
			return apierrors.ErrTimeTrackingDisabled
		}

		if err := tx.Where("ticket_id = ? AND new_status_id = ?", ticket.ID, ticket.StatusId).
			Order("created_at DESC").
			First(&tracker).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierrors.ErrTrackerNotFound
			}
			return err
		}

		tracker.TimeTaken += minutes
		return tx.Model(&tracker).Update("time_taken", tracker.TimeTaken).Error
	}); err != nil {
		return nil, err
	}
	return &tracker, nil
}

// GetBoard собирает доску спринта: колонки проекта в порядке позиций и
// карточки каждой колонки в порядке позиций.
func (b *Business) GetBoard(sprint dao.Sprint) ([]dao.Status, map[uuid.UUID][]dao.Ticket, error) {
	var statuses []dao.Status
	if err := b.db.Where("project_id = ?", sprint.ProjectId).
		Order("position, created_at").
		Find(&statuses).Error; err != nil {
		return nil, nil, err
	}

	var tickets []dao.Ticket
	if err := b.db.Where("sprint_id = ?", sprint.ID).
		Order("position, created_at").
		Find(&tickets).Error; err != nil {
		return nil, nil, err
	}

	byStatus := make(map[uuid.UUID][]dao.Ticket, len(statuses))
	for _, t := range tickets {
		byStatus[t.StatusId] = append(byStatus[t.StatusId], t)
	}
	return statuses, byStatus, nil
}
