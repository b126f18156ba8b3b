package planboard

import (
	"errors"
	"net/http"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/apierrors"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dao"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dto"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/types"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type RoleContext struct {
	ProjectContext
	Role dao.Role
}

func (s *Services) RoleMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		roleId := c.Param("roleId")
		projectContext := c.(ProjectContext)

		var role dao.Role
		if err := s.db.Preload("Permissions").
			Where("project_id = ?", projectContext.Project.ID).
			Where("id = ?", roleId).
			First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return EErrorDefined(c, apierrors.ErrRoleNotFound)
			}
			return EError(c, err)
		}
		return next(RoleContext{projectContext, role})
	}
}

func (s *Services) AddRoleServices(g *echo.Group) {
	projectGroup := g.Group("projects/:projectId", s.ProjectMiddleware)

	projectGroup.GET("/roles/", s.getRoleList,
		s.RequirePermission(types.ResourceRole, types.ActionView))
	projectGroup.POST("/roles/", s.createRole,
		s.RequirePermission(types.ResourceRole, types.ActionManage))

	roleGroup := projectGroup.Group("/roles/:roleId",
		s.RequirePermission(types.ResourceRole, types.ActionManage),
		s.RoleMiddleware)
	roleGroup.PATCH("/", s.updateRole)
	roleGroup.DELETE("/", s.deleteRole)
	roleGroup.POST("/assign/", s.assignRole)
	roleGroup.POST("/reassign/", s.reassignRole)

	projectGroup.DELETE("/members/:memberId/role/", s.revokeRole,
		s.RequirePermission(types.ResourceRole, types.ActionManage))
}

type RoleRequest struct {
	Name        string               `json:"name" validate:"required,roleName"`
	Description string               `json:"description"`
	Permissions []dto.RolePermission `json:"permissions"`
}

type RoleAssignRequest struct {
	UserId string `json:"user_id" validate:"required,uuid4"`
}

// getRoleList godoc
// @id getRoleList
// @Summary Роли: получение списка ролей проекта
// @Description Возвращает роли проекта вместе с их разрешениями
// @Tags Role
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Success 200 {array} dto.Role "Список ролей"
// @Failure 403 {object} apierrors.DefinedError "Доступ запрещен"
// @Router /api/auth/projects/{projectId}/roles/ [get]
func (s *Services) getRoleList(c echo.Context) error {
	project := c.(ProjectContext).Project

	var roles []dao.Role
	if err := s.db.Preload("Permissions").
		Where("project_id = ?", project.ID).
		Order("created_at").
		Find(&roles).Error; err != nil {
		return EError(c, err)
	}

	res := make([]dto.Role, len(roles))
	for i, r := range roles {
		res[i] = *r.ToDTO()
	}
	return c.JSON(http.StatusOK, res)
}

// createRole godoc
// @id createRole
// @Summary Роли: создание роли
// @Description Создает роль проекта с набором разрешений
// @Tags Role
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param data body RoleRequest true "Данные роли"
// @Success 201 {object} dto.Role "Созданная роль"
// @Failure 400 {object} apierrors.DefinedError "Ошибка запроса"
// @Failure 409 {object} apierrors.DefinedError "Разрешение уже выдано данной роли"
// @Router /api/auth/projects/{projectId}/roles/ [post]
func (s *Services) createRole(c echo.Context) error {
	project := c.(ProjectContext).Project

	var req RoleRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrRoleRequestValidate)
	}

	role, err := s.business.CreateRole(project, req.Name, req.Description, permissionsFromDTO(req.Permissions))
	if err != nil {
		return EError(c, err)
	}

	if err := s.db.Preload("Permissions").First(role).Error; err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusCreated, role.ToDTO())
}

// updateRole godoc
// @id updateRole
// @Summary Роли: изменение роли
// @Description Изменяет имя, описание и набор разрешений роли
// @Tags Role
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param roleId path string true "ID роли"
// @Param data body RoleRequest true "Новые данные роли"
// @Success 200 {object} dto.Role "Обновленная роль"
// @Failure 404 {object} apierrors.DefinedError "Роль не найдена"
// @Router /api/auth/projects/{projectId}/roles/{roleId}/ [patch]
func (s *Services) updateRole(c echo.Context) error {
	role := c.(RoleContext).Role

	var req RoleRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrRoleRequestValidate)
	}

	if err := s.business.UpdateRole(&role, &req.Name, &req.Description, permissionsFromDTO(req.Permissions)); err != nil {
		return EError(c, err)
	}

	if err := s.db.Preload("Permissions").First(&role).Error; err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, role.ToDTO())
}

// deleteRole godoc
// @id deleteRole
// @Summary Роли: удаление роли
// @Description Удаляет роль вместе с разрешениями и назначениями
// @Tags Role
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param roleId path string true "ID роли"
// @Success 204 "Роль удалена"
// @Failure 404 {object} apierrors.DefinedError "Роль не найдена"
// @Router /api/auth/projects/{projectId}/roles/{roleId}/ [delete]
func (s *Services) deleteRole(c echo.Context) error {
	role := c.(RoleContext).Role

	if err := s.business.DeleteRole(&role); err != nil {
		return EError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// assignRole godoc
// @id assignRole
// @Summary Роли: назначение роли пользователю
// @Description Назначает пользователю роль в проекте. Пользователь с ролью в этом проекте получает отказ
// @Tags Role
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param roleId path string true "ID роли"
// @Param data body RoleAssignRequest true "Пользователь"
// @Success 201 {object} dto.ProjectMember "Назначение"
// @Failure 404 {object} apierrors.DefinedError "Пользователь не найден"
// @Failure 409 {object} apierrors.DefinedError "Пользователю уже назначена роль в этом проекте"
// @Router /api/auth/projects/{projectId}/roles/{roleId}/assign/ [post]
func (s *Services) assignRole(c echo.Context) error {
	role := c.(RoleContext).Role

	user, err := s.bindAssignRequest(c)
	if err != nil {
		return err
	}

	if _, err := s.business.AssignRole(*user, role); err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.ProjectMember{
		Member: user.ToLightDTO(),
		Role:   role.ToDTO(),
	})
}

// reassignRole godoc
// @id reassignRole
// @Summary Роли: замена роли пользователя
// @Description Заменяет роль пользователя в проекте. Пользователь без назначения получает отказ
// @Tags Role
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param roleId path string true "ID новой роли"
// @Param data body RoleAssignRequest true "Пользователь"
// @Success 200 {object} dto.ProjectMember "Обновленное назначение"
// @Failure 404 {object} apierrors.DefinedError "Пользователю не назначена роль в этом проекте"
// @Router /api/auth/projects/{projectId}/roles/{roleId}/reassign/ [post]
func (s *Services) reassignRole(c echo.Context) error {
	role := c.(RoleContext).Role

	user, err := s.bindAssignRequest(c)
	if err != nil {
		return err
	}

	if _, err := s.business.ReassignRole(*user, role); err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ProjectMember{
		Member: user.ToLightDTO(),
		Role:   role.ToDTO(),
	})
}

// revokeRole godoc
// @id revokeRole
// @Summary Роли: снятие роли с пользователя
// @Description Снимает с пользователя роль в проекте
// @Tags Role
// @Security ApiKeyAuth
// @Param projectId path string true "ID проекта"
// @Param memberId path string true "ID пользователя"
// @Success 204 "Назначение снято"
// @Failure 404 {object} apierrors.DefinedError "Пользователю не назначена роль в этом проекте"
// @Router /api/auth/projects/{projectId}/members/{memberId}/role/ [delete]
func (s *Services) revokeRole(c echo.Context) error {
	project := c.(ProjectContext).Project

	var user dao.User
	if err := s.db.Where("id = ?", c.Param("memberId")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EErrorDefined(c, apierrors.ErrUserNotFound)
		}
		return EError(c, err)
	}

	if err := s.business.RevokeRole(user.ID, project.ID); err != nil {
		return EError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Services) bindAssignRequest(c echo.Context) (*dao.User, error) {
	var req RoleAssignRequest
	if err := c.Bind(&req); err != nil {
		return nil, EError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return nil, EErrorDefined(c, apierrors.ErrRoleRequestValidate)
	}

	var user dao.User
	if err := s.db.Where("id = ?", req.UserId).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, EErrorDefined(c, apierrors.ErrUserNotFound)
		}
		return nil, EError(c, err)
	}
	return &user, nil
}

func permissionsFromDTO(permissions []dto.RolePermission) []dao.RolePermission {
	if permissions == nil {
		return nil
	}
	res := make([]dao.RolePermission, len(permissions))
	for i, p := range permissions {
		res[i] = dao.RolePermission{Resource: p.Resource, Action: p.Action}
	}
	return res
}
