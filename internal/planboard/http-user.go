package planboard

import (
	"net/http"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dao"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dto"
	"github.com/labstack/echo/v4"
)

func (s *Services) AddUserServices(g *echo.Group) {
	g.GET("users/", s.getUserList)
	g.GET("users/me/", s.getCurrentUser)
}

// getUserList godoc
// @id getUserList
// @Summary Пользователи: получение списка пользователей
// @Description Возвращает активных пользователей. Используется при назначении ролей и наборе команд
// @Tags Users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.UserLight "Список пользователей"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Router /api/auth/users/ [get]
func (s *Services) getUserList(c echo.Context) error {
	var users []dao.User
	if err := s.db.Where("is_active = true").
		Order("email").
		Find(&users).Error; err != nil {
		return EError(c, err)
	}

	res := make([]dto.UserLight, len(users))
	for i, u := range users {
		res[i] = *u.ToLightDTO()
	}
	return c.JSON(http.StatusOK, res)
}

// getCurrentUser godoc
// @id getCurrentUser
// @Summary Пользователи: получение текущего пользователя
// @Description Возвращает пользователя текущей сессии
// @Tags Users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.UserLight "Текущий пользователь"
// @Failure 401 {object} apierrors.DefinedError "Необходима авторизация"
// @Router /api/auth/users/me/ [get]
func (s *Services) getCurrentUser(c echo.Context) error {
	user := c.(AuthContext).User
	return c.JSON(http.StatusOK, user.ToLightDTO())
}
