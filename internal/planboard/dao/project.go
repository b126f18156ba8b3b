package dao

import (
	"time"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dto"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/types"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Имя проекта уникально: оно используется как подтверждение при удалении
	Name        string `json:"name" gorm:"uniqueIndex"`
	Description string `json:"description"`

	StartDate *types.CalDate `json:"start_date" extensions:"x-nullable"`
	EndDate   *types.CalDate `json:"end_date" extensions:"x-nullable"`

	CreatedById uuid.UUID `gorm:"type:uuid" json:"created_by_id"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedById" json:"created_by_detail,omitempty" extensions:"x-nullable"`

	Roles    []Role   `gorm:"foreignKey:ProjectId" json:"-"`
	Statuses []Status `gorm:"foreignKey:ProjectId" json:"-"`
	Teams    []Team   `gorm:"foreignKey:ProjectId" json:"-"`
}

func (Project) TableName() string { return "projects" }

// Проект является корневым агрегатом: вместе с ним удаляются роли,
// спринты, колонки и команды.
func (p *Project) BeforeDelete(tx *gorm.DB) error {
	if err := tx.Where("role_id IN (?)",
		tx.Select("id").Where("project_id = ?", p.ID).Model(&Role{})).
		Delete(&RolePermission{}).Error; err != nil {
		return err
	}

	for _, model := range []any{
		&UserProjectRole{}, &Role{}, &Team{}, &Status{},
	} {
		if err := tx.Where("project_id = ?", p.ID).Delete(model).Error; err != nil {
			return err
		}
	}

	return tx.Unscoped().Where("project_id = ?", p.ID).Delete(&Sprint{}).Error
}

func (p *Project) ToLightDTO() *dto.ProjectLight {
	if p == nil {
		return nil
	}
	return &dto.ProjectLight{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
	}
}

func (p *Project) ToDTO() *dto.Project {
	if p == nil {
		return nil
	}
	return &dto.Project{
		ProjectLight: *p.ToLightDTO(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		CreatedBy:    p.CreatedBy.ToLightDTO(),
	}
}

type Role struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId   uuid.UUID `gorm:"type:uuid;index;uniqueIndex:role_name_idx,priority:1" json:"project_id"`
	Name        string    `gorm:"uniqueIndex:role_name_idx,priority:2" json:"name"`
	Description string    `json:"description"`

	Project     *Project         `gorm:"foreignKey:ProjectId" json:"-" extensions:"x-nullable"`
	Permissions []RolePermission `gorm:"foreignKey:RoleId" json:"permissions,omitempty"`
}

func (Role) TableName() string { return "roles" }

func (r *Role) BeforeDelete(tx *gorm.DB) error {
	if err := tx.Where("role_id = ?", r.ID).Delete(&RolePermission{}).Error; err != nil {
		return err
	}
	return tx.Where("role_id = ?", r.ID).Delete(&UserProjectRole{}).Error
}

func (r *Role) ToDTO() *dto.Role {
	if r == nil {
		return nil
	}
	role := dto.Role{
		ID:          r.ID,
		ProjectId:   r.ProjectId,
		Name:        r.Name,
		Description: r.Description,
	}
	for _, p := range r.Permissions {
		role.Permissions = append(role.Permissions, dto.RolePermission{Resource: p.Resource, Action: p.Action})
	}
	return &role
}

// RolePermission - строка таблицы разрешений роли. Набор допустимых пар
// (resource, action) задается административным инструментарием и для
// шлюза доступа является непрозрачным.
type RolePermission struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	RoleId   uuid.UUID `gorm:"type:uuid;uniqueIndex:role_permission_idx,priority:1" json:"role_id"`
	Resource string    `gorm:"uniqueIndex:role_permission_idx,priority:2" json:"resource"`
	Action   string    `gorm:"uniqueIndex:role_permission_idx,priority:3" json:"action"`

	Role *Role `gorm:"foreignKey:RoleId" json:"-" extensions:"x-nullable"`
}

func (RolePermission) TableName() string { return "role_permissions" }

// UserProjectRole - назначение роли пользователю в проекте. У пользователя
// не может быть более одной роли в проекте: переназначение перезаписывает.
type UserProjectRole struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserId    uuid.UUID `gorm:"type:uuid;uniqueIndex:user_project_role_idx,priority:1" json:"user_id"`
	ProjectId uuid.UUID `gorm:"type:uuid;uniqueIndex:user_project_role_idx,priority:2;index" json:"project_id"`
	RoleId    uuid.UUID `gorm:"type:uuid" json:"role_id"`

	User    *User    `gorm:"foreignKey:UserId" json:"member,omitempty" extensions:"x-nullable"`
	Project *Project `gorm:"foreignKey:ProjectId" json:"-" extensions:"x-nullable"`
	Role    *Role    `gorm:"foreignKey:RoleId" json:"role_detail,omitempty" extensions:"x-nullable"`
}

func (UserProjectRole) TableName() string { return "user_project_roles" }

type Status struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId  uuid.UUID        `gorm:"type:uuid;index" json:"project_id"`
	Label      string           `json:"label"`
	StatusType types.StatusType `json:"status_type" gorm:"default:0"`

	// Порядок колонки на доске. Непрерывность значений не гарантируется.
	Position int `json:"position" gorm:"default:0;index"`

	Project *Project `gorm:"foreignKey:ProjectId" json:"-" extensions:"x-nullable"`
}

func (Status) TableName() string { return "statuses" }

func (s *Status) ToLightDTO() *dto.StatusLight {
	if s == nil {
		return nil
	}
	return &dto.StatusLight{
		ID:         s.ID,
		ProjectId:  s.ProjectId,
		Label:      s.Label,
		StatusType: s.StatusType,
		Position:   s.Position,
	}
}
