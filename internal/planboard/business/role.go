package business

import (
	"errors"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/apierrors"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dao"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// CreateRole создает роль проекта вместе с набором разрешений. Шлюз доступа
// не интерпретирует пары (resource, action): их состав целиком определяется
// административным инструментарием.
func (b *Business) CreateRole(project dao.Project, name, description string, permissions []dao.RolePermission) (*dao.Role, error) {
	role := dao.Role{
		ID:          dao.GenUUID(),
		ProjectId:   project.ID,
		Name:        name,
		Description: description,
	}
	if err := b.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&role).Error; err != nil {
			return err
		}
		return createPermissions(tx, role.ID, permissions)
	}); err != nil {
		return nil, err
	}
	return &role, nil
}

// UpdateRole изменяет описание роли и, если передан новый набор, полностью
// заменяет ее разрешения.
func (b *Business) UpdateRole(role *dao.Role, name, description *string, permissions []dao.RolePermission) error {
	if name != nil {
		role.Name = *name
	}
	if description != nil {
		role.Description = *description
	}
	return b.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("name", "description", "updated_at").Updates(role).Error; err != nil {
			return err
		}
		if permissions == nil {
			return nil
		}
		if err := tx.Where("role_id = ?", role.ID).Delete(&dao.RolePermission{}).Error; err != nil {
			return err
		}
		return createPermissions(tx, role.ID, permissions)
	})
}

func createPermissions(tx *gorm.DB, roleId uuid.UUID, permissions []dao.RolePermission) error {
	seen := make(map[[2]string]struct{}, len(permissions))
	for _, p := range permissions {
		key := [2]string{p.Resource, p.Action}
		if _, ok := seen[key]; ok {
			return apierrors.ErrPermissionExists
		}
		seen[key] = struct{}{}

		p.ID = dao.GenUUID()
		p.RoleId = roleId
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteRole удаляет роль вместе с разрешениями и назначениями.
func (b *Business) DeleteRole(role *dao.Role) error {
	return b.db.Delete(role).Error
}

// AssignRole назначает пользователю роль в проекте. У пользователя не может
// быть двух ролей в одном проекте: повторное назначение отклоняется, для
// смены роли есть ReassignRole.
func (b *Business) AssignRole(user dao.User, role dao.Role) (*dao.UserProjectRole, error) {
	upr := dao.UserProjectRole{
		ID:        dao.GenUUID(),
		UserId:    user.ID,
		ProjectId: role.ProjectId,
		RoleId:    role.ID,
	}
	if err := b.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&dao.UserProjectRole{}).
			Where("user_id = ? AND project_id = ?", user.ID, role.ProjectId).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apierrors.ErrRoleAlreadyAssigned
		}
		return tx.Create(&upr).Error
	}); err != nil {
		return nil, err
	}
	return &upr, nil
}

// ReassignRole заменяет роль пользователя в проекте, сохраняя строку
// назначения. Отсутствующее назначение не создается.
func (b *Business) ReassignRole(user dao.User, role dao.Role) (*dao.UserProjectRole, error) {
	var upr dao.UserProjectRole
	if err := b.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND project_id = ?", user.ID, role.ProjectId).
			First(&upr).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierrors.ErrRoleAssignmentMissing
			}
			return err
		}
		upr.RoleId = role.ID
		return tx.Model(&upr).Update("role_id", role.ID).Error
	}); err != nil {
		return nil, err
	}
	return &upr, nil
}

// RevokeRole снимает с пользователя роль в проекте.
func (b *Business) RevokeRole(userId, projectId uuid.UUID) error {
	res := b.db.Where("user_id = ? AND project_id = ?", userId, projectId).
		Delete(&dao.UserProjectRole{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierrors.ErrRoleAssignmentMissing
	}
	return nil
}

// GetProjectMembers возвращает участников проекта с их ролями.
func (b *Business) GetProjectMembers(projectId uuid.UUID) ([]dao.UserProjectRole, error) {
	var members []dao.UserProjectRole
	if err := b.db.Where("project_id = ?", projectId).
		Preload("User").
		Preload("Role.Permissions").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
