package planboard

import (
	"errors"
	"net/http"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/apierrors"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dao"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dto"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/types"
	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func bindSprintId(c echo.Context) (uuid.UUID, error) {
	return uuid.FromString(c.Param("sprintId"))
}

type SprintContext struct {
	ProjectContext
	Sprint dao.Sprint
}

func (s *Services) SprintMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sprintId := c.Param("sprintId")
		projectContext := c.(ProjectContext)

		var sprint dao.Sprint
		if err := s.db.Joins("CreatedBy").
			Where("sprints.project_id = ?", projectContext.Project.ID).
			Where("sprints.id = ?", sprintId).
			First(&sprint).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return EErrorDefined(c, apierrors.ErrSprintNotFound)
			}
			return EError(c, err)
		}
		return next(SprintContext{projectContext, sprint})
	}
}

func (s *Services) AddSprintServices(g *echo.Group) {
	projectGroup := g.Group("projects/:projectId", s.ProjectMiddleware)

	projectGroup.GET("/sprints/", s.getSprintList,
		s.RequirePermission(types.ResourceSprint, types.ActionView))
	projectGroup.POST("/sprints/", s.createSprint,
		s.RequirePermission(types.ResourceSprint, types.ActionEdit))

	projectGroup.GET("/sprints/archive/", s.getArchivedSprintList,
		s.RequirePermission(types.ResourceSprint, types.ActionView))
	projectGroup.POST("/sprints/archive/:sprintId/restore/", s.restoreSprint,
		s.RequirePermission(types.ResourceSprint, types.ActionManage))
	projectGroup.DELETE("/sprints/archive/:sprintId/", s.purgeSprint,
		s.RequirePermission(types.ResourceSprint, types.ActionDelete))

	sprintGroup := projectGroup.Group("/sprints/:sprintId", s.SprintMiddleware)

	sprintGroup.GET("/", s.getSprint,
		s.RequirePermission(types.ResourceSprint, types.ActionView))
	sprintGroup.PATCH("/", s.updateSprint,
		s.RequirePermission(types.ResourceSprint, types.ActionEdit))
	sprintGroup.POST("/start/", s.startSprint,
		s.RequirePermission(types.ResourceSprint, types.ActionManage))
	sprintGroup.POST("/complete/", s.completeSprint,
		s.RequirePermission(types.ResourceSprint, types.ActionManage))
	sprintGroup.POST("/archive/", s.archiveSprint,
		s.RequirePermission(types.ResourceSprint, types.ActionManage))
}

type SprintRequest struct {
	Title     string         `json:"title" validate:"required,min=1,max=150"`
	Goal      string         `json:"goal"`
	StartDate *types.CalDate `json:"start_date"`
	EndDate   *types.CalDate `json:"end_date"`
}

// getSprintList godoc
// @id getSprintList
// @Summary Спринты: получение списка спринтов проекта
// @Description Возвращает живые спринты проекта в порядке дат начала. Архивные спринты не включаются
// @Tags Sprint
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Success 200 {array} dto.SprintLight "Список спринтов"
// @Failure 403 {object} apierrors.DefinedError "Доступ запрещен"
// @Router /api/auth/projects/{projectId}/sprints/ [get]
func (s *Services) getSprintList(c echo.Context) error {
	project := c.(ProjectContext).Project

	var sprints []dao.Sprint
	if err := s.db.Where("project_id = ?", project.ID).
		Order("start_date").
		Find(&sprints).Error; err != nil {
		return EError(c, err)
	}

	res := make([]dto.SprintLight, len(sprints))
	for i, sp := range sprints {
		res[i] = *sp.ToLightDTO()
	}
	return c.JSON(http.StatusOK, res)
}

// getArchivedSprintList godoc
// @id getArchivedSprintList
// @Summary Спринты: получение архива спринтов проекта
// @Description Возвращает архивные спринты проекта. Они доступны для восстановления до истечения срока хранения
// @Tags Sprint
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Success 200 {array} dto.Sprint "Архивные спринты"
// @Failure 403 {object} apierrors.DefinedError "Доступ запрещен"
// @Router /api/auth/projects/{projectId}/sprints/archive/ [get]
func (s *Services) getArchivedSprintList(c echo.Context) error {
	project := c.(ProjectContext).Project

	var sprints []dao.Sprint
	if err := s.db.Unscoped().Joins("CreatedBy").
		Where("sprints.project_id = ? AND sprints.deleted_at IS NOT NULL", project.ID).
		Order("sprints.deleted_at DESC").
		Find(&sprints).Error; err != nil {
		return EError(c, err)
	}

	res := make([]dto.Sprint, len(sprints))
	for i, sp := range sprints {
		res[i] = *sp.ToDTO()
	}
	return c.JSON(http.StatusOK, res)
}

// createSprint godoc
// @id createSprint
// @Summary Спринты: создание спринта
// @Description Создает спринт проекта. Даты не могут пересекаться с датами других живых спринтов проекта, границы включительные
// @Tags Sprint
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param data body SprintRequest true "Данные спринта"
// @Success 201 {object} dto.Sprint "Созданный спринт"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 409 {object} apierrors.DefinedError "Спринт с пересекающимися датами уже существует"
// @Router /api/auth/projects/{projectId}/sprints/ [post]
func (s *Services) createSprint(c echo.Context) error {
	project := c.(ProjectContext).Project
	user := c.(ProjectContext).User

	var req SprintRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrSprintRequestValidate)
	}
	if req.StartDate == nil || req.EndDate == nil {
		return EErrorDefined(c, apierrors.ErrSprintBadRequest)
	}

	sprint, err := s.business.CreateSprint(project, *user, dao.Sprint{
		Title:     req.Title,
		Goal:      req.Goal,
		StartDate: *req.StartDate,
		EndDate:   *req.EndDate,
	})
	if err != nil {
		return EError(c, err)
	}
	sprint.CreatedBy = user
	return c.JSON(http.StatusCreated, sprint.ToDTO())
}

// getSprint godoc
// @id getSprint
// @Summary Спринты: получение спринта
// @Description Возвращает спринт по идентификатору
// @Tags Sprint
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param sprintId path string true "ID спринта"
// @Success 200 {object} dto.Sprint "Спринт"
// @Failure 404 {object} apierrors.DefinedError "Спринт не найден"
// @Router /api/auth/projects/{projectId}/sprints/{sprintId}/ [get]
func (s *Services) getSprint(c echo.Context) error {
	sprint := c.(SprintContext).Sprint
	return c.JSON(http.StatusOK, sprint.ToDTO())
}

// updateSprint godoc
// @id updateSprint
// @Summary Спринты: изменение спринта
// @Description Изменяет заголовок, цель и даты спринта. Новые даты проверяются на пересечение, сам спринт из проверки исключается
// @Tags Sprint
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param sprintId path string true "ID спринта"
// @Param data body SprintRequest true "Новые данные спринта"
// @Success 200 {object} dto.Sprint "Обновленный спринт"
// @Failure 409 {object} apierrors.DefinedError "Спринт с пересекающимися датами уже существует"
// @Router /api/auth/projects/{projectId}/sprints/{sprintId}/ [patch]
func (s *Services) updateSprint(c echo.Context) error {
	sprint := c.(SprintContext).Sprint

	var req SprintRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrSprintRequestValidate)
	}

	if err := s.business.UpdateSprint(&sprint, &req.Title, &req.Goal, req.StartDate, req.EndDate); err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, sprint.ToDTO())
}

// startSprint godoc
// @id startSprint
// @Summary Спринты: запуск спринта
// @Description Делает спринт активным. Прочие активные спринты проекта в той же транзакции становятся завершенными
// @Tags Sprint
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param sprintId path string true "ID спринта"
// @Success 200 {object} dto.Sprint "Активный спринт"
// @Failure 404 {object} apierrors.DefinedError "Спринт не найден"
// @Router /api/auth/projects/{projectId}/sprints/{sprintId}/start/ [post]
func (s *Services) startSprint(c echo.Context) error {
	sprint := c.(SprintContext).Sprint

	if err := s.business.StartSprint(&sprint); err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, sprint.ToDTO())
}

// completeSprint godoc
// @id completeSprint
// @Summary Спринты: завершение спринта
// @Description Переводит спринт в завершенные
// @Tags Sprint
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param sprintId path string true "ID спринта"
// @Success 200 {object} dto.Sprint "Завершенный спринт"
// @Failure 404 {object} apierrors.DefinedError "Спринт не найден"
// @Router /api/auth/projects/{projectId}/sprints/{sprintId}/complete/ [post]
func (s *Services) completeSprint(c echo.Context) error {
	sprint := c.(SprintContext).Sprint

	if err := s.business.CompleteSprint(&sprint); err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, sprint.ToDTO())
}

// archiveSprint godoc
// @id archiveSprint
// @Summary Спринты: архивация спринта
// @Description Мягко удаляет неактивный спринт. Активные и завершенные спринты архивировать нельзя
// @Tags Sprint
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param sprintId path string true "ID спринта"
// @Success 204 "Спринт архивирован"
// @Failure 409 {object} apierrors.DefinedError "Архивировать можно только неактивный спринт"
// @Router /api/auth/projects/{projectId}/sprints/{sprintId}/archive/ [post]
func (s *Services) archiveSprint(c echo.Context) error {
	sprint := c.(SprintContext).Sprint

	if err := s.business.ArchiveSprint(&sprint); err != nil {
		return EError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// restoreSprint godoc
// @id restoreSprint
// @Summary Спринты: восстановление спринта из архива
// @Description Возвращает архивный спринт. Даты заново проверяются на пересечение с живыми спринтами
// @Tags Sprint
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param sprintId path string true "ID спринта"
// @Success 200 {object} dto.Sprint "Восстановленный спринт"
// @Failure 404 {object} apierrors.DefinedError "Спринт не найден"
// @Failure 409 {object} apierrors.DefinedError "Спринт с пересекающимися датами уже существует"
// @Router /api/auth/projects/{projectId}/sprints/archive/{sprintId}/restore/ [post]
func (s *Services) restoreSprint(c echo.Context) error {
	project := c.(ProjectContext).Project

	sprintId, err := bindSprintId(c)
	if err != nil {
		return EErrorDefined(c, apierrors.ErrSprintNotFound)
	}

	sprint, err := s.business.RestoreSprint(project.ID, sprintId)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, sprint.ToDTO())
}

// purgeSprint godoc
// @id purgeSprint
// @Summary Спринты: окончательное удаление спринта
// @Description Безвозвратно удаляет архивный спринт вместе с карточками и журналом переходов
// @Tags Sprint
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param sprintId path string true "ID спринта"
// @Success 204 "Спринт удален"
// @Failure 404 {object} apierrors.DefinedError "Спринт не найден"
// @Router /api/auth/projects/{projectId}/sprints/archive/{sprintId}/ [delete]
func (s *Services) purgeSprint(c echo.Context) error {
	project := c.(ProjectContext).Project

	sprintId, err := bindSprintId(c)
	if err != nil {
		return EErrorDefined(c, apierrors.ErrSprintNotFound)
	}

	if err := s.business.PurgeSprint(project.ID, sprintId); err != nil {
		return EError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
