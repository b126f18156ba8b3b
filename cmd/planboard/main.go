// Основной пакет приложения Planboard. Отвечает за запуск приложения, инициализацию базы данных, миграцию моделей, создание ограничений и запуск основного сервера приложения.
package main

import (
	_ "embed"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/config"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dao"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/gormlogger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var version string = "DEV"

var models = []any{
	&dao.User{},
	&dao.Project{},
	&dao.Role{},
	&dao.RolePermission{},
	&dao.UserProjectRole{},
	&dao.Status{},
	&dao.Sprint{},
	&dao.Ticket{},
	&dao.TicketTracker{},
	&dao.TicketAssignee{},
	&dao.Team{},
	&dao.Teammate{},
}

//go:embed triggers.sql
var triggersSQL string

// Пример запуска: go run main.go --noTranslate --noMigration --trace
func main() {
	noTranslateFlag := flag.Bool("noTranslate", false, "Turn off BD errors translate")
	paramQueries := flag.Bool("paramQueries", true, "Mask queries params in log")
	noMigration := flag.Bool("noMigration", false, "Turn off DB migration")
	trace := flag.Bool("trace", false, "Verbose logs and sql trace")
	flag.Parse()

	PrintBanner()

	cfg := config.ReadConfig()
	dao.Config = cfg

	if *trace {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	// Set prod log format
	if version != "DEV" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})))
	}

	slog.Info("Planboard start.")

	// check default email config
	if cfg.DefaultUserEmail == "" {
		slog.Error("Default email not preset")
		os.Exit(1)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: false, // disables implicit prepared statement usage
	}), &gorm.Config{
		TranslateError: !*noTranslateFlag,
		Logger:         gormlogger.NewGormLogger(slog.Default(), time.Second*4, *paramQueries),
	})
	if err != nil {
		slog.Error("Fail init DB connection", "err", err)
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Fail set settings to conn pool", "err", err)
		os.Exit(1)
	}
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(time.Minute * 15)

	if !*noMigration {
		slog.Info("Migrate models")
		if err := db.AutoMigrate(models...); err != nil {
			slog.Error("Fail migrate models", "err", err)
			os.Exit(1)
		}

		if err := CreateTriggers(db); err != nil {
			slog.Error("Fail create DB triggers", "err", err)
			os.Exit(1)
		}
	}

	var usersExist bool
	if err := db.Model(&dao.User{}).
		Select("EXISTS(?)",
			db.Model(&dao.User{}).Select("1"),
		).
		Find(&usersExist).Error; err != nil {
		slog.Error("Fail count users in DB", "err", err)
		os.Exit(1)
	}

	if !usersExist {
		slog.Info("Creating default user", "email", cfg.DefaultUserEmail)
		dao.AddDefaultUser(db, cfg.DefaultUserEmail)
	}

	planboard.Server(db, cfg, version)
}

// PrintBanner выводит заголовок приложения с версией и ссылкой на сайт.
func PrintBanner() {
	banner := `
 _____  _             _                         _
|  __ \| |           | |                       | |
| |__) | | __ _ _ __ | |__   ___   __ _ _ __ __| |
|  ___/| |/ _  | '_ \| '_ \ / _ \ / _  | '__/ _  |
| |    | | (_| | | | | |_) | (_) | (_| | | | (_| |
|_|    |_|\__,_|_| |_|_.__/ \___/ \__,_|_|  \__,_| %s
Sprint planning and ticket boards for small teams
%s
---------------------------------------------------
`
	colorReset := "\033[0m"

	colorYellow := "\033[33m"
	colorBlue := "\033[34m"

	formattedVersion := version
	if version == "DEV" {
		formattedVersion = colorYellow + version + colorReset
	}

	fmt.Printf(banner, formattedVersion, colorBlue+"https://aisa.ru"+colorReset)
}

// CreateTriggers создает ограничения и триггеры в базе данных на основе SQL-скрипта.
func CreateTriggers(db *gorm.DB) error {
	slog.Info("Create DB triggers")
	return db.Exec(triggersSQL).Error
}
