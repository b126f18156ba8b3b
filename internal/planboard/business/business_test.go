package business

import (
	"testing"
	"time"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dao"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/types"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
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
	))
	return db
}

func testUser(t *testing.T, db *gorm.DB, email string) dao.User {
	t.Helper()

	user := dao.User{
		ID:       dao.GenUUID(),
		Email:    email,
		Password: dao.GenPasswordHash("secret-pass"),
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func testProject(t *testing.T, b *Business, user dao.User, name string) dao.Project {
	t.Helper()

	project, err := b.CreateProject(user, dao.Project{Name: name})
	require.NoError(t, err)
	return *project
}

func cal(t *testing.T, value string) types.CalDate {
	t.Helper()

	tm, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return types.CalDate{Time: tm}
}
