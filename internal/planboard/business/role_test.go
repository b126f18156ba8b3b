package business

import (
	"testing"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/apierrors"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dao"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRole(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")
	project := testProject(t, b, user, "Apollo")

	role, err := b.CreateRole(project, "Наблюдатель", "Только чтение", []dao.RolePermission{
		{Resource: types.ResourceProject, Action: types.ActionView},
		{Resource: types.ResourceBoard, Action: types.ActionView},
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&dao.RolePermission{}).
		Where("role_id = ?", role.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	t.Run("duplicate pair in one set", func(t *testing.T) {
		_, err := b.CreateRole(project, "Broken", "", []dao.RolePermission{
			{Resource: types.ResourceBoard, Action: types.ActionEdit},
			{Resource: types.ResourceBoard, Action: types.ActionEdit},
		})
		assert.ErrorIs(t, err, apierrors.ErrPermissionExists)

		// Роль не создается вместе с отклоненным набором
		var roles int64
		require.NoError(t, db.Model(&dao.Role{}).
			Where("project_id = ? AND name = ?", project.ID, "Broken").
			Count(&roles).Error)
		assert.Zero(t, roles)
	})

	t.Run("opaque pairs are accepted as-is", func(t *testing.T) {
		_, err := b.CreateRole(project, "Кастомная", "", []dao.RolePermission{
			{Resource: "billing", Action: "export"},
		})
		assert.NoError(t, err)
	})
}

func TestUpdateRolePermissions(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")
	project := testProject(t, b, user, "Apollo")

	role, err := b.CreateRole(project, "Редактор", "", []dao.RolePermission{
		{Resource: types.ResourceBoard, Action: types.ActionView},
		{Resource: types.ResourceBoard, Action: types.ActionEdit},
	})
	require.NoError(t, err)

	permissions := func() []dao.RolePermission {
		var perms []dao.RolePermission
		require.NoError(t, db.Where("role_id = ?", role.ID).Find(&perms).Error)
		return perms
	}

	t.Run("nil set keeps permissions", func(t *testing.T) {
		name := "Редактор доски"
		require.NoError(t, b.UpdateRole(role, &name, nil, nil))
		assert.Len(t, permissions(), 2)
	})

	t.Run("new set replaces permissions", func(t *testing.T) {
		require.NoError(t, b.UpdateRole(role, nil, nil, []dao.RolePermission{
			{Resource: types.ResourceSprint, Action: types.ActionManage},
		}))

		perms := permissions()
		require.Len(t, perms, 1)
		assert.Equal(t, types.ResourceSprint, perms[0].Resource)
		assert.Equal(t, types.ActionManage, perms[0].Action)
	})

	t.Run("empty set revokes everything", func(t *testing.T) {
		require.NoError(t, b.UpdateRole(role, nil, nil, []dao.RolePermission{}))
		assert.Empty(t, permissions())
	})
}

func TestAssignRole(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	owner := testUser(t, db, "owner@example.org")
	member := testUser(t, db, "member@example.org")
	project := testProject(t, b, owner, "Apollo")

	viewer, err := b.CreateRole(project, "Наблюдатель", "", []dao.RolePermission{
		{Resource: types.ResourceBoard, Action: types.ActionView},
	})
	require.NoError(t, err)
	editor, err := b.CreateRole(project, "Редактор", "", []dao.RolePermission{
		{Resource: types.ResourceBoard, Action: types.ActionView},
		{Resource: types.ResourceBoard, Action: types.ActionEdit},
	})
	require.NoError(t, err)

	upr, err := b.AssignRole(member, *viewer)
	require.NoError(t, err)
	assert.Equal(t, viewer.ID, upr.RoleId)

	t.Run("single role per project", func(t *testing.T) {
		_, err := b.AssignRole(member, *editor)
		assert.ErrorIs(t, err, apierrors.ErrRoleAlreadyAssigned)
	})

	t.Run("reassign replaces the role in place", func(t *testing.T) {
		changed, err := b.ReassignRole(member, *editor)
		require.NoError(t, err)
		assert.Equal(t, upr.ID, changed.ID)
		assert.Equal(t, editor.ID, changed.RoleId)
	})

	t.Run("reassign requires an existing assignment", func(t *testing.T) {
		outsider := testUser(t, db, "outsider@example.org")
		_, err := b.ReassignRole(outsider, *editor)
		assert.ErrorIs(t, err, apierrors.ErrRoleAssignmentMissing)
	})

	t.Run("revoke", func(t *testing.T) {
		require.NoError(t, b.RevokeRole(member.ID, project.ID))
		assert.ErrorIs(t, b.RevokeRole(member.ID, project.ID), apierrors.ErrRoleAssignmentMissing)
	})
}

func TestHasPermission(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	owner := testUser(t, db, "owner@example.org")
	member := testUser(t, db, "member@example.org")
	project := testProject(t, b, owner, "Apollo")

	viewer, err := b.CreateRole(project, "Наблюдатель", "", []dao.RolePermission{
		{Resource: types.ResourceBoard, Action: types.ActionView},
	})
	require.NoError(t, err)
	_, err = b.AssignRole(member, *viewer)
	require.NoError(t, err)

	check := func(email, resource, action string) bool {
		t.Helper()
		var u dao.User
		require.NoError(t, db.First(&u, "email = ?", email).Error)
		ok, err := dao.HasPermission(db, u.ID, project.ID, resource, action)
		require.NoError(t, err)
		return ok
	}

	assert.True(t, check("member@example.org", types.ResourceBoard, types.ActionView))
	assert.False(t, check("member@example.org", types.ResourceBoard, types.ActionEdit))

	// Неизвестная пара ничем не отличается от запрещенной
	assert.False(t, check("member@example.org", "billing", "export"))

	t.Run("no role means deny", func(t *testing.T) {
		outsider := testUser(t, db, "outsider@example.org")
		ok, err := dao.HasPermission(db, outsider.ID, project.ID, types.ResourceBoard, types.ActionView)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("project creator gets the full matrix", func(t *testing.T) {
		for _, resource := range types.DefaultResources {
			for _, action := range types.DefaultActions {
				ok, err := dao.HasPermission(db, owner.ID, project.ID, resource, action)
				require.NoError(t, err)
				assert.True(t, ok, "%s/%s", resource, action)
			}
		}
	})

	t.Run("deleting the role deletes its grants", func(t *testing.T) {
		require.NoError(t, b.DeleteRole(viewer))

		var perms int64
		require.NoError(t, db.Model(&dao.RolePermission{}).
			Where("role_id = ?", viewer.ID).Count(&perms).Error)
		assert.Zero(t, perms)
	})
}
