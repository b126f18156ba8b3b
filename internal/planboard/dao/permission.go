package dao

import (
	"errors"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// GetProjectRole возвращает назначение роли пользователя в проекте.
// Суперпользователи ролей не требуют и проверяются выше.
func GetProjectRole(db *gorm.DB, userId, projectId uuid.UUID) (*UserProjectRole, error) {
	var upr UserProjectRole
	if err := db.Where("user_id = ? AND project_id = ?", userId, projectId).
		Preload("Role").First(&upr).Error; err != nil {
		return nil, err
	}
	return &upr, nil
}

// HasPermission отвечает, разрешено ли пользователю действие над ресурсом
// в проекте. Отсутствие роли или отсутствие пары (resource, action) в
// таблице разрешений роли означает отказ; неизвестные пары не отличаются
// от запрещенных.
func HasPermission(db *gorm.DB, userId, projectId uuid.UUID, resource, action string) (bool, error) {
	upr, err := GetProjectRole(db, userId, projectId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	var count int64
	if err := db.Model(&RolePermission{}).
		Where("role_id = ? AND resource = ? AND action = ?", upr.RoleId, resource, action).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
