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

type TeamContext struct {
	ProjectContext
	Team dao.Team
}

func (s *Services) TeamMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		teamId := c.Param("teamId")
		projectContext := c.(ProjectContext)

		var team dao.Team
		if err := s.db.Preload("Teammates.User").
			Where("project_id = ?", projectContext.Project.ID).
			Where("id = ?", teamId).
			First(&team).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return EErrorDefined(c, apierrors.ErrTeamNotFound)
			}
			return EError(c, err)
		}
		return next(TeamContext{projectContext, team})
	}
}

func (s *Services) AddTeamServices(g *echo.Group) {
	projectGroup := g.Group("projects/:projectId", s.ProjectMiddleware)

	projectGroup.GET("/teams/", s.getTeamList,
		s.RequirePermission(types.ResourceTeam, types.ActionView))
	projectGroup.POST("/teams/", s.createTeam,
		s.RequirePermission(types.ResourceTeam, types.ActionManage))

	teamGroup := projectGroup.Group("/teams/:teamId", s.TeamMiddleware)
	teamGroup.GET("/", s.getTeam,
		s.RequirePermission(types.ResourceTeam, types.ActionView))
	teamGroup.DELETE("/", s.deleteTeam,
		s.RequirePermission(types.ResourceTeam, types.ActionManage))
	teamGroup.POST("/teammates/", s.addTeammate,
		s.RequirePermission(types.ResourceTeam, types.ActionManage))
	teamGroup.DELETE("/teammates/:teammateId/", s.removeTeammate,
		s.RequirePermission(types.ResourceTeam, types.ActionManage))

	ticketGroup := projectGroup.Group("/sprints/:sprintId",
		s.SprintMiddleware).Group("/tickets/:ticketId", s.TicketMiddleware)
	ticketGroup.POST("/assignees/", s.assignTicket,
		s.RequirePermission(types.ResourceTicket, types.ActionEdit))
	ticketGroup.DELETE("/assignees/:teammateId/", s.unassignTicket,
		s.RequirePermission(types.ResourceTicket, types.ActionEdit))
}

type TeamRequest struct {
	Name string `json:"name" validate:"required,teamName"`
}

type TeammateRequest struct {
	UserId string `json:"user_id" validate:"required,uuid4"`
}

type AssignTicketRequest struct {
	TeammateId string `json:"teammate_id" validate:"required,uuid4"`
}

// getTeamList godoc
// @id getTeamList
// @Summary Команды: получение команд проекта
// @Description Возвращает команды проекта вместе с участниками
// @Tags Team
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Success 200 {array} dto.TeamLight "Команды проекта"
// @Failure 403 {object} apierrors.DefinedError "Доступ запрещен"
// @Router /api/auth/projects/{projectId}/teams/ [get]
func (s *Services) getTeamList(c echo.Context) error {
	project := c.(ProjectContext).Project

	var teams []dao.Team
	if err := s.db.Preload("Teammates.User").
		Where("project_id = ?", project.ID).
		Order("created_at").
		Find(&teams).Error; err != nil {
		return EError(c, err)
	}

	res := make([]dto.TeamLight, len(teams))
	for i, t := range teams {
		res[i] = *t.ToLightDTO()
	}
	return c.JSON(http.StatusOK, res)
}

// createTeam godoc
// @id createTeam
// @Summary Команды: создание команды
// @Description Создает команду проекта
// @Tags Team
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param data body TeamRequest true "Данные команды"
// @Success 201 {object} dto.TeamLight "Созданная команда"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Router /api/auth/projects/{projectId}/teams/ [post]
func (s *Services) createTeam(c echo.Context) error {
	project := c.(ProjectContext).Project

	var req TeamRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrTeamRequestValidate)
	}

	team, err := s.business.CreateTeam(project, req.Name)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusCreated, team.ToLightDTO())
}

// getTeam godoc
// @id getTeam
// @Summary Команды: получение команды
// @Description Возвращает команду с участниками
// @Tags Team
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param teamId path string true "ID команды"
// @Success 200 {object} dto.TeamLight "Команда"
// @Failure 404 {object} apierrors.DefinedError "Команда не найдена"
// @Router /api/auth/projects/{projectId}/teams/{teamId}/ [get]
func (s *Services) getTeam(c echo.Context) error {
	team := c.(TeamContext).Team
	return c.JSON(http.StatusOK, team.ToLightDTO())
}

// deleteTeam godoc
// @id deleteTeam
// @Summary Команды: удаление команды
// @Description Удаляет команду вместе с участниками и их назначениями на карточки
// @Tags Team
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param teamId path string true "ID команды"
// @Success 204 "Команда удалена"
// @Failure 404 {object} apierrors.DefinedError "Команда не найдена"
// @Router /api/auth/projects/{projectId}/teams/{teamId}/ [delete]
func (s *Services) deleteTeam(c echo.Context) error {
	team := c.(TeamContext).Team

	if err := s.business.DeleteTeam(&team); err != nil {
		return EError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// addTeammate godoc
// @id addTeammate
// @Summary Команды: добавление участника
// @Description Добавляет пользователя в команду. Повторное добавление отклоняется
// @Tags Team
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param teamId path string true "ID команды"
// @Param data body TeammateRequest true "Пользователь"
// @Success 201 {object} dto.TeammateLight "Участник команды"
// @Failure 404 {object} apierrors.DefinedError "Пользователь не найден"
// @Failure 409 {object} apierrors.DefinedError "Участник уже состоит в команде"
// @Router /api/auth/projects/{projectId}/teams/{teamId}/teammates/ [post]
func (s *Services) addTeammate(c echo.Context) error {
	team := c.(TeamContext).Team

	var req TeammateRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrTeamRequestValidate)
	}

	var user dao.User
	if err := s.db.Where("id = ?", req.UserId).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EErrorDefined(c, apierrors.ErrUserNotFound)
		}
		return EError(c, err)
	}

	teammate, err := s.business.AddTeammate(team, user)
	if err != nil {
		return EError(c, err)
	}
	teammate.User = &user
	return c.JSON(http.StatusCreated, teammate.ToLightDTO())
}

// removeTeammate godoc
// @id removeTeammate
// @Summary Команды: исключение участника
// @Description Исключает участника из команды и снимает его назначения на карточки
// @Tags Team
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param teamId path string true "ID команды"
// @Param teammateId path string true "ID участника"
// @Success 204 "Участник исключен"
// @Failure 404 {object} apierrors.DefinedError "Участник не найден"
// @Router /api/auth/projects/{projectId}/teams/{teamId}/teammates/{teammateId}/ [delete]
func (s *Services) removeTeammate(c echo.Context) error {
	team := c.(TeamContext).Team

	var teammate dao.Teammate
	if err := s.db.Where("team_id = ?", team.ID).
		Where("id = ?", c.Param("teammateId")).
		First(&teammate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EErrorDefined(c, apierrors.ErrTeammateNotFound)
		}
		return EError(c, err)
	}

	if err := s.business.RemoveTeammate(&teammate); err != nil {
		return EError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// assignTicket godoc
// @id assignTicket
// @Summary Команды: назначение карточки участнику
// @Description Назначает карточку участнику команды проекта. Повторное назначение той же пары отклоняется
// @Tags Team
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param sprintId path string true "ID спринта"
// @Param ticketId path string true "ID карточки"
// @Param data body AssignTicketRequest true "Участник"
// @Success 201 {object} dto.Ticket "Карточка с назначениями"
// @Failure 400 {object} apierrors.DefinedError "Участник относится к другому проекту"
// @Failure 409 {object} apierrors.DefinedError "Участник уже назначен на эту задачу"
// @Router /api/auth/projects/{projectId}/sprints/{sprintId}/tickets/{ticketId}/assignees/ [post]
func (s *Services) assignTicket(c echo.Context) error {
	ticketContext := c.(TicketContext)

	var req AssignTicketRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrTeamRequestValidate)
	}

	teammateId, err := uuid.FromString(req.TeammateId)
	if err != nil {
		return EErrorDefined(c, apierrors.ErrTeammateNotFound)
	}

	if _, err := s.business.AssignTicket(ticketContext.Ticket, teammateId, *ticketContext.User); err != nil {
		return EError(c, err)
	}

	ticket := ticketContext.Ticket
	if err := s.db.Preload("Assignees.Teammate.User").First(&ticket).Error; err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusCreated, ticket.ToDTO())
}

// unassignTicket godoc
// @id unassignTicket
// @Summary Команды: снятие назначения карточки
// @Description Снимает назначение карточки с участника
// @Tags Team
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param sprintId path string true "ID спринта"
// @Param ticketId path string true "ID карточки"
// @Param teammateId path string true "ID участника"
// @Success 204 "Назначение снято"
// @Failure 404 {object} apierrors.DefinedError "Участник не найден"
// @Router /api/auth/projects/{projectId}/sprints/{sprintId}/tickets/{ticketId}/assignees/{teammateId}/ [delete]
func (s *Services) unassignTicket(c echo.Context) error {
	ticketContext := c.(TicketContext)

	teammateId, err := uuid.FromString(c.Param("teammateId"))
	if err != nil {
		return EErrorDefined(c, apierrors.ErrTeammateNotFound)
	}

	if err := s.business.UnassignTicket(ticketContext.Ticket.ID, teammateId); err != nil {
		return EError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
