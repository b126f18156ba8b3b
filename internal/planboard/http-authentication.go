// Пакет для аутентификации и авторизации пользователей в приложении Planboard.
// Обеспечивает безопасный доступ к ресурсам, используя JWT и куки.
//
// Основные возможности:
//   - Аутентификация пользователей по email и паролю.
//   - Генерация и проверка токенов доступа (JWT) с поддержкой обновления.
//   - Поддержка различных схем аутентификации (Bearer, Cookies).
package planboard

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/apierrors"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dao"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type Authentication struct {
	db     *gorm.DB
	secret []byte
}

type AuthContext struct {
	echo.Context
	User         *dao.User
	AccessToken  *Token
	RefreshToken *Token
}

// SessionId идентифицирует сессию пользователя: закрепления колонок
// доски привязаны к конкретному токену, а не к пользователю.
func (c AuthContext) SessionId() string {
	if c.AccessToken != nil && c.AccessToken.JWT != nil {
		if claims, ok := c.AccessToken.JWT.Claims.(jwt.MapClaims); ok {
			if jti, ok := claims["jti"].(string); ok {
				return jti
			}
		}
	}
	return c.User.ID.String()
}

type AuthConfig struct {
	Secret  []byte
	DB      *gorm.DB
	Skipper middleware.Skipper
}

func AuthMiddleware(config AuthConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == "OPTIONS" {
				return c.NoContent(http.StatusOK)
			}

			if config.Skipper != nil && config.Skipper(c) {
				return next(c)
			}

			var refreshToken *Token
			var accessToken *Token

			schema, tokenString, ok := strings.Cut(c.Request().Header.Get("Authorization"), " ")
			if !ok {
				// Cookie token
				schema = "Cookies"
				if accessCookie, err := c.Cookie("access_token"); err == nil || accessCookie != nil {
					accessToken = new(Token)
					accessToken.SignedString = accessCookie.Value
					accessToken.Type = "access"
				}

				if refreshCookie, err := c.Cookie("refresh_token"); err == nil || refreshCookie != nil {
					refreshToken = new(Token)
					refreshToken.SignedString = refreshCookie.Value
					refreshToken.Type = "refresh"
				}

				if refreshToken == nil && accessToken == nil {
					return EErrorDefined(c, apierrors.ErrTokenInvalid)
				}
			}
			schema = strings.TrimSpace(schema)

			if schema != "Cookies" {
				accessToken = new(Token)
				accessToken.SignedString = strings.TrimSpace(tokenString)
				accessToken.Type = schema
			}

			var err error
			keyFunc := func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return config.Secret, nil
			}

			var accessError error
			if accessToken != nil {
				accessToken.JWT, accessError = jwt.Parse(accessToken.SignedString, keyFunc)
			}

			if refreshToken != nil {
				if refreshToken.JWT, err = jwt.Parse(refreshToken.SignedString, keyFunc); err != nil {
					return EErrorDefined(c, apierrors.ErrTokenInvalid)
				}
			}

			var user *dao.User

			// Prolong if expired
			if errors.Is(accessError, jwt.ErrTokenExpired) || accessToken == nil {
				accessToken, user, err = config.tokenProlong(c, refreshToken)
				if accessToken == nil || user == nil {
					return err
				}
			} else if accessError != nil {
				if accessToken.JWT != nil && !accessToken.JWT.Valid {
					return EErrorDefined(c, apierrors.ErrTokenInvalid)
				}
				return EError(c, accessError)
			} else {
				claims, ok := accessToken.JWT.Claims.(jwt.MapClaims)
				if !ok || !accessToken.JWT.Valid {
					return EErrorDefined(c, apierrors.ErrTokenInvalid)
				}
				userId, ok := claims["user_id"].(string)
				if !ok {
					return EErrorDefined(c, apierrors.ErrTokenInvalid)
				}

				user = new(dao.User)
				if err := config.DB.Where("id = ?", userId).First(user).Error; err != nil {
					return EErrorDefined(c, apierrors.ErrTokenInvalid)
				}
			}

			if user == nil {
				return EError(c, errors.New("nil user"))
			}

			if !user.IsActive {
				clearAuthCookies(c)
				return EErrorDefined(c, apierrors.ErrTokenExpired)
			}

			if err := dao.UpdateUserLastActivityTime(config.DB, user, c.RealIP()); err != nil {
				EError(c, err)
			}

			return next(AuthContext{c, user, accessToken, refreshToken})
		}
	}
}

func AddAuthenticationServices(db *gorm.DB, g *echo.Echo, secret []byte) *Authentication {
	ret := &Authentication{db, secret}

	g.POST("api/sign-in/", ret.emailLogin)
	g.POST("api/sign-up/", ret.signUp)
	g.POST("api/sign-out/", ret.signOut)
	return ret
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// emailLogin godoc
// @id emailLogin
// @Summary Пользователи (управление доступом): вход пользователя
// @Description Аутентифицирует пользователя с использованием email и пароля
// @Tags Users
// @Accept json
// @Produce json
// @Param data body LoginRequest true "Данные для входа пользователя"
// @Success 200 {object} map[string]interface{} "Токены доступа и информация о пользователе"
// @Failure 401 {object} apierrors.DefinedError "Неудачный вход в систему"
// @Failure 500 {object} apierrors.DefinedError "Внутренняя ошибка сервера"
// @Router /api/sign-in [post]
func (a *Authentication) emailLogin(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}

	req.Email = strings.ToLower(req.Email)

	if req.Email == "" || req.Password == "" {
		return EErrorDefined(c, apierrors.ErrLoginCredentialsRequired)
	}

	var user dao.User
	if err := a.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return EErrorDefined(c, apierrors.ErrFailedLogin)
		}
		return EError(c, err)
	}

	if !user.IsActive {
		return EErrorDefined(c, apierrors.ErrFailedLogin)
	}

	if !dao.CheckPasswordHash(req.Password, user.Password) {
		slog.Info("Failed login attempt", "email", req.Email, "ip", c.RealIP())
		return EErrorDefined(c, apierrors.ErrFailedLogin)
	}

	tm := time.Now()
	user.LastActive = &tm
	user.LastLoginIp = c.RealIP()
	if err := a.db.Model(&user).Select("LastActive", "LastLoginIp").Updates(&user).Error; err != nil {
		return EError(c, err)
	}

	access_token, refresh_token, err := createAccessToken(user.ID.String())
	if err != nil {
		return EError(c, err)
	}

	setAuthCookies(c, access_token, refresh_token)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"access_token":  access_token.SignedString,
		"refresh_token": refresh_token.SignedString,
		"user":          user.ToLightDTO(),
	})
}

type SignUpRequest struct {
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// signUp godoc
// @id signUp
// @Summary Пользователи (управление доступом): регистрация пользователя
// @Description Создает пользователя, если регистрация включена в конфигурации
// @Tags Users
// @Accept json
// @Produce json
// @Param data body SignUpRequest true "Данные нового пользователя"
// @Success 201 {object} dto.UserLight "Созданный пользователь"
// @Failure 403 {object} apierrors.DefinedError "Регистрация отключена"
// @Failure 409 {object} apierrors.DefinedError "Пользователь с таким email уже существует"
// @Router /api/sign-up [post]
func (a *Authentication) signUp(c echo.Context) error {
	if !cfg.SignUpEnable {
		return EErrorDefined(c, apierrors.ErrSignUpDisabled)
	}

	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return EError(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return EError(c, err)
	}

	req.Email = strings.ToLower(req.Email)
	if !ValidateEmail(req.Email) {
		return EErrorDefined(c, apierrors.ErrInvalidEmail)
	}

	user := dao.User{
		ID:        dao.GenUUID(),
		Email:     req.Email,
		Password:  dao.GenPasswordHash(req.Password),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
	}
	if err := a.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return EErrorDefined(c, apierrors.ErrUserExists)
		}
		return EError(c, err)
	}
	return c.JSON(http.StatusCreated, user.ToLightDTO())
}

// signOut godoc
// @id signOut
// @Summary Пользователи (управление доступом): выход пользователя
// @Description Сбрасывает авторизационные куки
// @Tags Users
// @Success 200 "Куки очищены"
// @Router /api/sign-out [post]
func (a *Authentication) signOut(c echo.Context) error {
	clearAuthCookies(c)
	return c.NoContent(http.StatusOK)
}

func (a *AuthConfig) tokenProlong(c echo.Context, token *Token) (*Token, *dao.User, error) {
	if token == nil || token.JWT == nil {
		return nil, nil, EErrorDefined(c, apierrors.ErrTokenExpired)
	}

	claims, ok := token.JWT.Claims.(jwt.MapClaims)
	if !ok || !token.JWT.Valid {
		return nil, nil, EErrorDefined(c, apierrors.ErrTokenInvalid)
	}

	userId, ok := claims["user_id"].(string)
	if !ok {
		return nil, nil, EErrorDefined(c, apierrors.ErrTokenInvalid)
	}

	var user dao.User
	if err := a.DB.Where("id = ?", userId).First(&user).Error; err != nil {
		return nil, nil, EErrorDefined(c, apierrors.ErrTokenInvalid)
	}

	accessToken, refreshToken, err := createAccessToken(user.ID.String())
	if err != nil {
		return nil, nil, EError(c, err)
	}

	setAuthCookies(c, accessToken, refreshToken)

	return accessToken, &user, nil
}
