package business

import (
	"testing"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/apierrors"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateProject(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")

	project := testProject(t, b, user, "Apollo")
	assert.Equal(t, user.ID, project.CreatedById)

	t.Run("default admin role assigned to creator", func(t *testing.T) {
		upr, err := dao.GetProjectRole(db, user.ID, project.ID)
		require.NoError(t, err)
		require.NotNil(t, upr.Role)
		assert.Equal(t, "admin", upr.Role.Name)
	})

	t.Run("project name is unique", func(t *testing.T) {
		_, err := b.CreateProject(user, dao.Project{Name: "Apollo"})
		assert.ErrorIs(t, err, apierrors.ErrProjectNameConflict)
	})
}

func TestUpdateProject(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")
	project := testProject(t, b, user, "Apollo")

	project.Name = "Apollo 11"
	project.Description = "Лунная программа"
	require.NoError(t, b.UpdateProject(&project))

	var stored dao.Project
	require.NoError(t, db.First(&stored, "id = ?", project.ID).Error)
	assert.Equal(t, "Apollo 11", stored.Name)
	assert.Equal(t, "Лунная программа", stored.Description)
}

func TestDeleteProject(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")
	project := testProject(t, b, user, "Apollo")

	createTestSprint(t, b, project, user, "Sprint", "2024-01-01", "2024-01-14")

	t.Run("confirmation name must match", func(t *testing.T) {
		assert.ErrorIs(t, b.DeleteProject(&project, "apollo"), apierrors.ErrProjectNameMismatch)
	})

	t.Run("delete removes project content", func(t *testing.T) {
		require.NoError(t, b.DeleteProject(&project, "Apollo"))

		assert.ErrorIs(t, db.First(&dao.Project{}, "id = ?", project.ID).Error, gorm.ErrRecordNotFound)

		for _, model := range []any{&dao.Role{}, &dao.UserProjectRole{}, &dao.Status{}, &dao.Team{}} {
			var count int64
			require.NoError(t, db.Model(model).Where("project_id = ?", project.ID).Count(&count).Error)
			assert.Zero(t, count)
		}

		var sprints int64
		require.NoError(t, db.Unscoped().Model(&dao.Sprint{}).
			Where("project_id = ?", project.ID).Count(&sprints).Error)
		assert.Zero(t, sprints)
	})
}
