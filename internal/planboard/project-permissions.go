// Пакет предоставляет middleware для защиты API endpoints в приложении Planboard.
// Он проверяет права доступа пользователей на основе ролей проекта и выдает ошибки, если права отсутствуют.
//
// Основные возможности:
//   - Загрузка проекта из URL в контекст запроса.
//   - Проверка прав доступа к проектам по таблице разрешений роли.
//   - Разграничение прав для суперпользователей и обычных участников.
package planboard

import (
	"errors"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/apierrors"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dao"
	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type ProjectContext struct {
	AuthContext
	Project dao.Project
}

func (s *Services) ProjectMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		projectId := c.Param("projectId")
		authContext := c.(AuthContext)

		id, err := uuid.FromString(projectId)
		if err != nil {
			return EErrorDefined(c, apierrors.ErrProjectNotFound)
		}

		var project dao.Project
		if err := s.db.Joins("CreatedBy").
			Where("projects.id = ?", id).
			First(&project).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return EErrorDefined(c, apierrors.ErrProjectNotFound)
			}
			return EError(c, err)
		}

		return next(ProjectContext{authContext, project})
	}
}

// RequirePermission строит middleware, пропускающий запрос только если роль
// пользователя в проекте содержит пару (resource, action). Суперпользователи
// проходят любую проверку. Отказ не различает отсутствие роли, отсутствие
// разрешения и неизвестную пару.
func (s *Services) RequirePermission(resource, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			projectContext, ok := c.(ProjectContext)
			if !ok {
				return EError(c, errors.New("wrong context"))
			}

			if projectContext.User.IsSuperuser {
				return next(c)
			}

			has, err := dao.HasPermission(s.db,
				projectContext.User.ID, projectContext.Project.ID,
				resource, action)
			if err != nil {
				return EError(c, err)
			}
			if !has {
				return EErrorDefined(c, apierrors.ErrProjectForbidden)
			}
			return next(c)
		}
	}
}
