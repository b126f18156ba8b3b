package dto

import (
	"time"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/types"
	"github.com/gofrs/uuid"
)

type ProjectLight struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	StartDate   *types.CalDate `json:"start_date" extensions:"x-nullable"`
	EndDate     *types.CalDate `json:"end_date" extensions:"x-nullable"`
}

type Project struct {
	ProjectLight
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	CreatedBy *UserLight `json:"created_by_detail,omitempty" extensions:"x-nullable"`
}

type Role struct {
	ID          uuid.UUID        `json:"id"`
	ProjectId   uuid.UUID        `json:"project_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Permissions []RolePermission `json:"permissions,omitempty"`
}

type RolePermission struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// ProjectMember - участник проекта с назначенной ролью.
type ProjectMember struct {
	Member *UserLight `json:"member"`
	Role   *Role      `json:"role"`
}
