package planboard

import (
	"net/http"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dao"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dto"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/types"
	"github.com/labstack/echo/v4"
)

func (s *Services) AddProjectServices(g *echo.Group) {
	g.GET("projects/", s.getProjectList)
	g.POST("projects/", s.createProject)

	projectGroup := g.Group("projects/:projectId", s.ProjectMiddleware)

	projectGroup.GET("/", s.getProject,
		s.RequirePermission(types.ResourceProject, types.ActionView))
	projectGroup.PATCH("/", s.updateProject,
		s.RequirePermission(types.ResourceProject, types.ActionEdit))
	projectGroup.DELETE("/", s.deleteProject,
		s.RequirePermission(types.ResourceProject, types.ActionDelete))

	projectGroup.GET("/members/", s.getProjectMemberList,
		s.RequirePermission(types.ResourceProject, types.ActionView))
}

type ProjectRequest struct {
	Name        string         `json:"name" validate:"required,projectName"`
	Description string         `json:"description"`
	StartDate   *types.CalDate `json:"start_date"`
	EndDate     *types.CalDate `json:"end_date"`
}

// getProjectList godoc
// @id getProjectList
// @Summary Проекты: получение списка проектов
// @Description Возвращает проекты, в которых пользователю назначена роль. Суперпользователь видит все проекты.
// @Tags Project
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.ProjectLight "Список проектов"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Failure 500 {object} apierrors.DefinedError "Ошибка сервера"
// @Router /api/auth/projects/ [get]
func (s *Services) getProjectList(c echo.Context) error {
	user := c.(AuthContext).User

	query := s.db.Order("projects.created_at")
	if !user.IsSuperuser {
		query = query.
			Joins("JOIN user_project_roles ON user_project_roles.project_id = projects.id").
			Where("user_project_roles.user_id = ?", user.ID)
	}

	var projects []dao.Project
	if err := query.Find(&projects).Error; err != nil {
		return EError(c, err)
	}

	res := make([]dto.ProjectLight, len(projects))
	for i, p := range projects {
		res[i] = *p.ToLightDTO()
	}
	return c.JSON(http.StatusOK, res)
}

// createProject godoc
// @id createProject
// @Summary Проекты: создание проекта
// @Description Создает проект с доской по умолчанию и назначает автору роль администратора
// @Tags Project
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param data body ProjectRequest true "Данные проекта"
// @Success 201 {object} dto.Project "Созданный проект"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 409 {object} apierrors.DefinedError "Проект с таким именем уже существует"
// @Router /api/auth/projects/ [post]
func (s *Services) createProject(c echo.Context) error {
	user := c.(AuthContext).User

	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return EError(c, err)
	}

	project, err := s.business.CreateProject(*user, dao.Project{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return EError(c, err)
	}
	project.CreatedBy = user
	return c.JSON(http.StatusCreated, project.ToDTO())
}

// getProject godoc
// @id getProject
// @Summary Проекты: получение проекта
// @Description Возвращает проект по идентификатору
// @Tags Project
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Success 200 {object} dto.Project "Проект"
// @Failure 403 {object} apierrors.DefinedError "Доступ запрещен"
// @Failure 404 {object} apierrors.DefinedError "Проект не найден"
// @Router /api/auth/projects/{projectId}/ [get]
func (s *Services) getProject(c echo.Context) error {
	project := c.(ProjectContext).Project
	return c.JSON(http.StatusOK, project.ToDTO())
}

// updateProject godoc
// @id updateProject
// @Summary Проекты: изменение проекта
// @Description Изменяет имя, описание и даты проекта
// @Tags Project
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param data body ProjectRequest true "Новые данные проекта"
// @Success 200 {object} dto.Project "Обновленный проект"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 403 {object} apierrors.DefinedError "Доступ запрещен"
// @Router /api/auth/projects/{projectId}/ [patch]
func (s *Services) updateProject(c echo.Context) error {
	project := c.(ProjectContext).Project

	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return EError(c, err)
	}

	project.Name = req.Name
	project.Description = req.Description
	project.StartDate = req.StartDate
	project.EndDate = req.EndDate

	if err := s.business.UpdateProject(&project); err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, project.ToDTO())
}

type DeleteProjectRequest struct {
	ConfirmName string `json:"confirm_name"`
}

// deleteProject godoc
// @id deleteProject
// @Summary Проекты: удаление проекта
// @Description Удаляет проект со всем содержимым. Требует повторения имени проекта в подтверждении
// @Tags Project
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param data body DeleteProjectRequest true "Подтверждение имени проекта"
// @Success 204 "Проект удален"
// @Failure 400 {object} apierrors.DefinedError "Введенное имя проекта не совпадает"
// @Failure 403 {object} apierrors.DefinedError "Доступ запрещен"
// @Router /api/auth/projects/{projectId}/ [delete]
func (s *Services) deleteProject(c echo.Context) error {
	project := c.(ProjectContext).Project

	var req DeleteProjectRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}

	if err := s.business.DeleteProject(&project, req.ConfirmName); err != nil {
		return EError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// getProjectMemberList godoc
// @id getProjectMemberList
// @Summary Проекты: получение участников проекта
// @Description Возвращает участников проекта с их ролями
// @Tags Project
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Success 200 {array} dto.ProjectMember "Участники проекта"
// @Failure 403 {object} apierrors.DefinedError "Доступ запрещен"
// @Router /api/auth/projects/{projectId}/members/ [get]
func (s *Services) getProjectMemberList(c echo.Context) error {
	project := c.(ProjectContext).Project

	members, err := s.business.GetProjectMembers(project.ID)
	if err != nil {
		return EError(c, err)
	}

	res := make([]dto.ProjectMember, len(members))
	for i, m := range members {
		res[i] = dto.ProjectMember{
			Member: m.User.ToLightDTO(),
			Role:   m.Role.ToDTO(),
		}
	}
	return c.JSON(http.StatusOK, res)
}
