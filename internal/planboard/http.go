// Пакет planboard предоставляет основные компоненты для управления проектами, спринтами и досками задач. Он включает в себя функциональность для работы с ролями, колонками досок, карточками и командами. Также предоставляет API для интеграции с другими сервисами.
//
// Основные возможности:
//   - Управление проектами и ролями участников.
//   - Планирование спринтов без пересечения дат.
//   - Доски задач с упорядоченными колонками и карточками.
//   - Учет затраченного времени по карточкам.
//   - Команды и назначение карточек участникам.
package planboard

// @title Planboard API
// @version 1.0
// @description Project management server.
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @BasePath /
// @query.collection.format multi
import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/business"
	boardview "github.com/aisa-it/planboard/planboard.go/internal/planboard/board-view"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/config"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/cronmanager"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/maintenance"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/types"
	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type Services struct {
	db       *gorm.DB
	business *business.Business
	pins     *boardview.PinStore
}

var cfg *config.Config
var appVersion string

// ServerHeader middleware adds a `Server` header to the response.
func ServerHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderServer, "Planboard")
		return next(c)
	}
}

func Server(db *gorm.DB, c *config.Config, version string) {
	cfg = c
	appVersion = version

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}

		// Ignore 404
		if code == http.StatusNotFound {
			c.NoContent(http.StatusNotFound)
			return
		}
		slog.Error("Unhandled error in endpoint", "url", c.Request().URL, "err", err)
		EErrorMsgStatus(c, nil, code)
	}

	bl := business.NewBL(db)

	jobRegistry := cronmanager.JobRegistry{
		"sprints_clean": cronmanager.Job{
			Func:     maintenance.NewSprintsCleaner(bl, cfg.SprintRetentionDays).CleanSprints,
			Schedule: "0 3 * * *", // daily at 03:00
		},
	}

	cronManager := cronmanager.NewCronManager(jobRegistry)
	if err := cronManager.LoadJobs(); err != nil {
		slog.Error("Failed to load cron jobs", "err", err)
		os.Exit(1)
	}

	s := &Services{
		db:       db,
		business: bl,
		pins:     boardview.NewPinStore(),
	}

	cronManager.Start()

	// Create a channel to handle termination signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down gracefully, press Ctrl+C again to force")
		cronManager.Stop()
		os.Exit(0)
	}()

	// Global middlewares
	e.Use(ServerHeader)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit("5M"))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level:     9,
		MinLength: 2048,
	}))
	e.Use(echoprometheus.NewMiddleware("planboard"))
	e.Pre(middleware.AddTrailingSlash())

	e.Validator = NewRequestValidator()

	AddAuthenticationServices(db, e, []byte(cfg.SecretKey))

	//services with auth
	apiGroup := e.Group("/api/")

	authGroup := apiGroup.Group("auth/",
		AuthMiddleware(AuthConfig{
			Secret: []byte(cfg.SecretKey),
			DB:     db,
		}),
	)

	s.AddProjectServices(authGroup)
	s.AddRoleServices(authGroup)
	s.AddSprintServices(authGroup)
	s.AddBoardServices(authGroup)
	s.AddTeamServices(authGroup)
	s.AddUserServices(authGroup)

	// Version endpoint
	apiGroup.GET("version/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"version": version,
			"sign_up": cfg.SignUpEnable,
		})
	})

	// Health endpoint
	apiGroup.GET("_health/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// Prometheus metrics
	go func() {
		bootTimeGauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "planboard",
			Name:      "boot_time",
			Help:      "Server startup time",
		})
		bootTimeGauge.Set(float64(time.Now().UnixMilli()))

		if err := prometheus.Register(bootTimeGauge); err != nil {
			slog.Error("Register boot time gauge", "err", err)
			os.Exit(1)
		}

		metrics := echo.New()
		metrics.HideBanner = true
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(":2112"); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server fail", "err", err)
		}
	}()

	if err := e.Start(":8080"); err != nil {
		slog.Error("Server fail", "err", err)
	}
}

// Проверка email на корректность
func ValidateEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// Генерация ключа доступа
func createAccessToken(userId string) (*Token, *Token, error) {
	ta, err := GenJwtToken([]byte(cfg.SecretKey), "access", userId)
	if err != nil {
		return nil, nil, err
	}

	tr, err := GenJwtToken([]byte(cfg.SecretKey), "refresh", userId)
	if err != nil {
		return nil, nil, err
	}
	return ta, tr, err
}

func setAuthCookies(c echo.Context, accessToken *Token, refreshToken *Token) {
	accessCookie := new(http.Cookie)
	accessCookie.Name = "access_token"
	accessCookie.Value = accessToken.SignedString
	accessCookie.HttpOnly = true
	accessCookie.Secure = true
	accessCookie.Path = "/"
	accessCookie.SameSite = http.SameSiteNoneMode
	accessCookie.Expires = time.Now().Add(types.TokenExpiresPeriod)
	c.SetCookie(accessCookie)

	refreshCookie := new(http.Cookie)
	refreshCookie.Name = "refresh_token"
	refreshCookie.Value = refreshToken.SignedString
	refreshCookie.HttpOnly = true
	refreshCookie.Secure = true
	refreshCookie.Path = "/"
	refreshCookie.SameSite = http.SameSiteNoneMode
	refreshCookie.Expires = time.Now().Add(types.RefreshTokenExpiresPeriod)
	c.SetCookie(refreshCookie)
}

func clearAuthCookies(c echo.Context) {
	accessCookie := new(http.Cookie)
	accessCookie.Name = "access_token"
	accessCookie.Value = ""
	accessCookie.HttpOnly = true
	accessCookie.Secure = true
	accessCookie.Path = "/"
	accessCookie.SameSite = http.SameSiteNoneMode
	accessCookie.MaxAge = -1
	c.SetCookie(accessCookie)

	refreshCookie := new(http.Cookie)
	refreshCookie.Name = "refresh_token"
	refreshCookie.Value = ""
	refreshCookie.HttpOnly = true
	refreshCookie.Secure = true
	refreshCookie.Path = "/"
	refreshCookie.SameSite = http.SameSiteNoneMode
	refreshCookie.MaxAge = -1
	c.SetCookie(refreshCookie)
}

type Token struct {
	JWT          *jwt.Token
	SignedString string
	Type         string
}

// Генерация JWT ключа
func GenJwtToken(secret []byte, tokenType string, userid string) (*Token, error) {
	u, _ := uuid.NewV4()
	claims := jwt.MapClaims{
		"exp":        jwt.NewNumericDate(time.Now().Add(types.TokenExpiresPeriod)),
		"iat":        jwt.NewNumericDate(time.Now()),
		"jti":        fmt.Sprintf("%x", u),
		"token_type": tokenType,
		"user_id":    userid,
	}
	if tokenType == "refresh" {
		claims["exp"] = jwt.NewNumericDate(time.Now().Add(types.RefreshTokenExpiresPeriod))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString(secret)
	if err != nil {
		return nil, err
	}

	return &Token{
		JWT:          token,
		SignedString: signedString,
		Type:         tokenType,
	}, nil
}
