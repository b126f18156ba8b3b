package planboard

import (
	"errors"
	"net/http"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/apierrors"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/business"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dao"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dto"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/types"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type StatusContext struct {
	ProjectContext
	Status dao.Status
}

func (s *Services) StatusMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		statusId := c.Param("statusId")
		projectContext := c.(ProjectContext)

		var status dao.Status
		if err := s.db.Where("project_id = ?", projectContext.Project.ID).
			Where("id = ?", statusId).
			First(&status).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return EErrorDefined(c, apierrors.ErrStatusNotFound)
			}
			return EError(c, err)
		}
		return next(StatusContext{projectContext, status})
	}
}

type TicketContext struct {
	SprintContext
	Ticket dao.Ticket
}

func (s *Services) TicketMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ticketId := c.Param("ticketId")
		sprintContext := c.(SprintContext)

		var ticket dao.Ticket
		if err := s.db.Joins("Status").Joins("CreatedBy").
			Where("tickets.sprint_id = ?", sprintContext.Sprint.ID).
			Where("tickets.id = ?", ticketId).
			First(&ticket).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return EErrorDefined(c, apierrors.ErrTicketNotFound)
			}
			return EError(c, err)
		}
		return next(TicketContext{sprintContext, ticket})
	}
}

func (s *Services) AddBoardServices(g *echo.Group) {
	projectGroup := g.Group("projects/:projectId", s.ProjectMiddleware)

	projectGroup.GET("/statuses/", s.getStatusList,
		s.RequirePermission(types.ResourceBoard, types.ActionView))
	projectGroup.POST("/statuses/", s.createStatus,
		s.RequirePermission(types.ResourceBoard, types.ActionEdit))
	projectGroup.POST("/statuses/reorder/", s.reorderStatuses,
		s.RequirePermission(types.ResourceBoard, types.ActionEdit))

	statusGroup := projectGroup.Group("/statuses/:statusId", s.StatusMiddleware)
	statusGroup.PATCH("/", s.renameStatus,
		s.RequirePermission(types.ResourceBoard, types.ActionEdit))
	statusGroup.DELETE("/", s.deleteStatus,
		s.RequirePermission(types.ResourceBoard, types.ActionDelete))
	statusGroup.POST("/pin/", s.togglePinStatus,
		s.RequirePermission(types.ResourceBoard, types.ActionView))

	sprintGroup := projectGroup.Group("/sprints/:sprintId", s.SprintMiddleware)

	sprintGroup.GET("/board/", s.getBoard,
		s.RequirePermission(types.ResourceBoard, types.ActionView))

	sprintGroup.POST("/tickets/", s.createTicket,
		s.RequirePermission(types.ResourceTicket, types.ActionEdit))
	sprintGroup.POST("/tickets/reorder/", s.reorderTickets,
		s.RequirePermission(types.ResourceTicket, types.ActionEdit))

	ticketGroup := sprintGroup.Group("/tickets/:ticketId", s.TicketMiddleware)
	ticketGroup.GET("/", s.getTicket,
		s.RequirePermission(types.ResourceTicket, types.ActionView))
	ticketGroup.POST("/time/", s.addTimeTaken,
		s.RequirePermission(types.ResourceTicket, types.ActionEdit))
	ticketGroup.GET("/trackers/", s.getTicketTrackers,
		s.RequirePermission(types.ResourceTicket, types.ActionView))
}

type StatusRequest struct {
	Label      string           `json:"label" validate:"required,statusLabel"`
	StatusType types.StatusType `json:"status_type" validate:"min=0,max=2"`
}

type ReorderStatusesRequest struct {
	Orders []business.StatusOrder `json:"orders" validate:"required,dive"`
}

type TicketRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=150"`
	Description string `json:"description"`
	StatusId    string `json:"status_id" validate:"required,uuid4"`
}

type ReorderTicketsRequest struct {
	Orders []business.TicketOrder `json:"orders" validate:"required,dive"`
}

type TimeTakenRequest struct {
	Minutes int `json:"minutes" validate:"required"`
}

// getStatusList godoc
// @id getStatusList
// @Summary Доска: получение колонок проекта
// @Description Возвращает колонки доски проекта в порядке позиций
// @Tags Board
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Success 200 {array} dto.StatusLight "Колонки доски"
// @Failure 403 {object} apierrors.DefinedError "Доступ запрещен"
// @Router /api/auth/projects/{projectId}/statuses/ [get]
func (s *Services) getStatusList(c echo.Context) error {
	project := c.(ProjectContext).Project

	var statuses []dao.Status
	if err := s.db.Where("project_id = ?", project.ID).
		Order("position, created_at").
		Find(&statuses).Error; err != nil {
		return EError(c, err)
	}

	res := make([]dto.StatusLight, len(statuses))
	for i, st := range statuses {
		res[i] = *st.ToLightDTO()
	}
	return c.JSON(http.StatusOK, res)
}

// createStatus godoc
// @id createStatus
// @Summary Доска: создание колонки
// @Description Добавляет колонку в конец доски проекта
// @Tags Board
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param data body StatusRequest true "Данные колонки"
// @Success 201 {object} dto.StatusLight "Созданная колонка"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Router /api/auth/projects/{projectId}/statuses/ [post]
func (s *Services) createStatus(c echo.Context) error {
	project := c.(ProjectContext).Project

	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrStatusRequestValidate)
	}

	status, err := s.business.CreateStatus(project, req.Label, req.StatusType)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusCreated, status.ToLightDTO())
}

// renameStatus godoc
// @id renameStatus
// @Summary Доска: переименование колонки
// @Description Изменяет подпись колонки доски
// @Tags Board
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param statusId path string true "ID колонки"
// @Param data body StatusRequest true "Новая подпись"
// @Success 200 {object} dto.StatusLight "Обновленная колонка"
// @Failure 404 {object} apierrors.DefinedError "Колонка не найдена"
// @Router /api/auth/projects/{projectId}/statuses/{statusId}/ [patch]
func (s *Services) renameStatus(c echo.Context) error {
	status := c.(StatusContext).Status

	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrStatusRequestValidate)
	}

	if err := s.business.RenameStatus(&status, req.Label); err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, status.ToLightDTO())
}

// deleteStatus godoc
// @id deleteStatus
// @Summary Доска: удаление колонки
// @Description Удаляет колонку доски. Колонка, на которую ссылается хотя бы одна карточка любого спринта, не удаляется
// @Tags Board
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param statusId path string true "ID колонки"
// @Success 204 "Колонка удалена"
// @Failure 409 {object} apierrors.DefinedError "Сначала уберите все задачи из этой колонки"
// @Router /api/auth/projects/{projectId}/statuses/{statusId}/ [delete]
func (s *Services) deleteStatus(c echo.Context) error {
	status := c.(StatusContext).Status

	if err := s.business.DeleteStatus(&status); err != nil {
		return EError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// reorderStatuses godoc
// @id reorderStatuses
// @Summary Доска: перестановка колонок
// @Description Применяет новый порядок колонок одним пакетом: все позиции или ни одной
// @Tags Board
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param data body ReorderStatusesRequest true "Пакет позиций"
// @Success 200 {array} dto.StatusLight "Колонки в новом порядке"
// @Failure 404 {object} apierrors.DefinedError "Колонка не найдена"
// @Router /api/auth/projects/{projectId}/statuses/reorder/ [post]
func (s *Services) reorderStatuses(c echo.Context) error {
	project := c.(ProjectContext).Project

	var req ReorderStatusesRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrStatusRequestValidate)
	}

	if err := s.business.ReorderStatuses(project.ID, req.Orders); err != nil {
		return EError(c, err)
	}
	return s.getStatusList(c)
}

// togglePinStatus godoc
// @id togglePinStatus
// @Summary Доска: закрепление колонки
// @Description Переключает закрепление колонки для текущей сессии. Закрепления не сохраняются и не видны другим пользователям
// @Tags Board
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param statusId path string true "ID колонки"
// @Success 200 {object} map[string]interface{} "Новое состояние закрепления"
// @Failure 404 {object} apierrors.DefinedError "Колонка не найдена"
// @Router /api/auth/projects/{projectId}/statuses/{statusId}/pin/ [post]
func (s *Services) togglePinStatus(c echo.Context) error {
	statusContext := c.(StatusContext)

	pinned := s.pins.TogglePin(statusContext.SessionId(),
		statusContext.Project.ID, statusContext.Status.ID)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status_id": statusContext.Status.ID,
		"pinned":    pinned,
	})
}

// getBoard godoc
// @id getBoard
// @Summary Доска: получение доски спринта
// @Description Возвращает колонки проекта с карточками спринта в порядке позиций. Закрепления отражают текущую сессию
// @Tags Board
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param sprintId path string true "ID спринта"
// @Success 200 {array} dto.BoardColumn "Доска спринта"
// @Failure 404 {object} apierrors.DefinedError "Спринт не найден"
// @Router /api/auth/projects/{projectId}/sprints/{sprintId}/board/ [get]
func (s *Services) getBoard(c echo.Context) error {
	sprintContext := c.(SprintContext)

	statuses, ticketsByStatus, err := s.business.GetBoard(sprintContext.Sprint)
	if err != nil {
		return EError(c, err)
	}

	res := make([]dto.BoardColumn, len(statuses))
	for i, st := range statuses {
		column := dto.BoardColumn{
			Status:  *st.ToLightDTO(),
			Pinned:  s.pins.IsPinned(sprintContext.SessionId(), st.ProjectId, st.ID),
			Tickets: []dto.TicketLight{},
		}
		for _, t := range ticketsByStatus[st.ID] {
			column.Tickets = append(column.Tickets, *t.ToLightDTO())
		}
		res[i] = column
	}
	return c.JSON(http.StatusOK, res)
}

// createTicket godoc
// @id createTicket
// @Summary Доска: создание карточки
// @Description Создает карточку в указанной колонке вместе с начальной записью журнала переходов
// @Tags Board
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param sprintId path string true "ID спринта"
// @Param data body TicketRequest true "Данные карточки"
// @Success 201 {object} dto.Ticket "Созданная карточка"
// @Failure 404 {object} apierrors.DefinedError "Колонка не найдена"
// @Router /api/auth/projects/{projectId}/sprints/{sprintId}/tickets/ [post]
func (s *Services) createTicket(c echo.Context) error {
	sprintContext := c.(SprintContext)

	var req TicketRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrBoardBadRequest)
	}

	var status dao.Status
	if err := s.db.Where("id = ? AND project_id = ?", req.StatusId, sprintContext.Project.ID).
		First(&status).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EErrorDefined(c, apierrors.ErrStatusNotFound)
		}
		return EError(c, err)
	}

	ticket, err := s.business.CreateTicket(sprintContext.Sprint, *sprintContext.User, status, req.Title, req.Description)
	if err != nil {
		return EError(c, err)
	}
	ticket.Status = &status
	ticket.CreatedBy = sprintContext.User
	return c.JSON(http.StatusCreated, ticket.ToDTO())
}

// getTicket godoc
// @id getTicket
// @Summary Доска: получение карточки
// @Description Возвращает карточку с назначенными участниками
// @Tags Board
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param sprintId path string true "ID спринта"
// @Param ticketId path string true "ID карточки"
// @Success 200 {object} dto.Ticket "Карточка"
// @Failure 404 {object} apierrors.DefinedError "Карточка не найдена"
// @Router /api/auth/projects/{projectId}/sprints/{sprintId}/tickets/{ticketId}/ [get]
func (s *Services) getTicket(c echo.Context) error {
	ticket := c.(TicketContext).Ticket

	if err := s.db.Preload("Assignees.Teammate.User").First(&ticket).Error; err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, ticket.ToDTO())
}

// reorderTickets godoc
// @id reorderTickets
// @Summary Доска: перемещение карточек
// @Description Применяет пакет перемещений карточек одной транзакцией. Смена колонки фиксируется в журнале переходов
// @Tags Board
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param sprintId path string true "ID спринта"
// @Param data body ReorderTicketsRequest true "Пакет перемещений"
// @Success 204 "Перемещения применены"
// @Failure 404 {object} apierrors.DefinedError "Карточка не найдена"
// @Router /api/auth/projects/{projectId}/sprints/{sprintId}/tickets/reorder/ [post]
func (s *Services) reorderTickets(c echo.Context) error {
	sprintContext := c.(SprintContext)

	var req ReorderTicketsRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrBoardBadRequest)
	}

	if err := s.business.ReorderTickets(sprintContext.Sprint, *sprintContext.User, req.Orders); err != nil {
		return EError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// addTimeTaken godoc
// @id addTimeTaken
// @Summary Доска: учет затраченного времени
// @Description Добавляет минуты к текущему пребыванию карточки в колонке. Время принимается только в обычных колонках, от 1 до 1000 минут за раз
// @Tags Board
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param sprintId path string true "ID спринта"
// @Param ticketId path string true "ID карточки"
// @Param data body TimeTakenRequest true "Минуты"
// @Success 200 {object} dto.TicketTracker "Запись журнала с накопленным временем"
// @Failure 400 {object} apierrors.DefinedError "Недопустимое количество минут"
// @Failure 409 {object} apierrors.DefinedError "Учет времени в этой колонке не ведется"
// @Router /api/auth/projects/{projectId}/sprints/{sprintId}/tickets/{ticketId}/time/ [post]
func (s *Services) addTimeTaken(c echo.Context) error {
	ticketContext := c.(TicketContext)

	var req TimeTakenRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}

	tracker, err := s.business.AddTimeTaken(ticketContext.Ticket, *ticketContext.User, req.Minutes)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, tracker.ToDTO())
}

// getTicketTrackers godoc
// @id getTicketTrackers
// @Summary Доска: журнал переходов карточки
// @Description Возвращает записи журнала переходов карточки от новых к старым
// @Tags Board
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param sprintId path string true "ID спринта"
// @Param ticketId path string true "ID карточки"
// @Success 200 {array} dto.TicketTracker "Журнал переходов"
// @Failure 404 {object} apierrors.DefinedError "Карточка не найдена"
// @Router /api/auth/projects/{projectId}/sprints/{sprintId}/tickets/{ticketId}/trackers/ [get]
func (s *Services) getTicketTrackers(c echo.Context) error {
	ticket := c.(TicketContext).Ticket

	var trackers []dao.TicketTracker
	if err := s.db.Joins("UpdatedBy").
		Where("ticket_id = ?", ticket.ID).
		Order("ticket_trackers.created_at DESC").
		Find(&trackers).Error; err != nil {
		return EError(c, err)
	}

	res := make([]dto.TicketTracker, len(trackers))
	for i, t := range trackers {
		res[i] = *t.ToDTO()
	}
	return c.JSON(http.StatusOK, res)
}
