package business

import (
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/apierrors"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dao"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/types"
	"gorm.io/gorm"
)

// Колонки, с которыми создается доска нового проекта
var defaultStatuses = []struct {
	Label string
	Type  types.StatusType
}{
	{"Запланировано", types.StatusTypeStart},
	{"В работе", types.StatusTypeNormal},
	{"Готово", types.StatusTypeEnd},
}

// CreateProject создает проект с доской из колонок по умолчанию и ролью
// администратора проекта, назначенной автору.
func (b *Business) CreateProject(user dao.User, project dao.Project) (*dao.Project, error) {
	project.ID = dao.GenUUID()
	project.CreatedById = user.ID

	if err := b.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&dao.Project{}).
			Where("name = ?", project.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apierrors.ErrProjectNameConflict
		}
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		for i, s := range defaultStatuses {
			if err := tx.Create(&dao.Status{
				ID:         dao.GenUUID(),
				ProjectId:  project.ID,
				Label:      s.Label,
				StatusType: s.Type,
				Position:   i,
			}).Error; err != nil {
				return err
			}
		}

		admin := dao.Role{
			ID:          dao.GenUUID(),
			ProjectId:   project.ID,
			Name:        "admin",
			Description: "Администратор проекта",
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		// Admin role gets the full default permission matrix
		for _, resource := range types.DefaultResources {
			for _, action := range types.DefaultActions {
				if err := tx.Create(&dao.RolePermission{
					ID:       dao.GenUUID(),
					RoleId:   admin.ID,
					Resource: resource,
					Action:   action,
				}).Error; err != nil {
					return err
				}
			}
		}
		return tx.Create(&dao.UserProjectRole{
			ID:        dao.GenUUID(),
			UserId:    user.ID,
			ProjectId: project.ID,
			RoleId:    admin.ID,
		}).Error
	}); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject изменяет атрибуты проекта.
func (b *Business) UpdateProject(project *dao.Project) error {
	return b.db.Select("name", "description", "start_date", "end_date", "updated_at").
		Updates(project).Error
}

// DeleteProject удаляет проект со всем содержимым. Защита от случайного
// удаления: имя проекта должно быть повторено в подтверждении.
func (b *Business) DeleteProject(project *dao.Project, confirmName string) error {
	if confirmName != project.Name {
		return apierrors.ErrProjectNameMismatch
	}
	return b.db.Transaction(func(tx *gorm.DB) error {
		var sprints []dao.Sprint
		if err := tx.Unscoped().Where("project_id = ?", project.ID).
			Find(&sprints).Error; err != nil {
			return err
		}
		for _, sprint := range sprints {
			if err := purgeSprint(tx, sprint.ID); err != nil {
				return err
			}
		}
		return tx.Delete(project).Error
	})
}
