package business

import (
	"testing"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/apierrors"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTeammate(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	owner := testUser(t, db, "owner@example.org")
	member := testUser(t, db, "member@example.org")
	project := testProject(t, b, owner, "Apollo")

	team, err := b.CreateTeam(project, "Backend")
	require.NoError(t, err)

	teammate, err := b.AddTeammate(*team, member)
	require.NoError(t, err)
	assert.Equal(t, member.ID, teammate.UserId)

	t.Run("duplicate membership", func(t *testing.T) {
		_, err := b.AddTeammate(*team, member)
		assert.ErrorIs(t, err, apierrors.ErrTeammateAssigned)
	})

	t.Run("same user in another team", func(t *testing.T) {
		other, err := b.CreateTeam(project, "Frontend")
		require.NoError(t, err)

		_, err = b.AddTeammate(*other, member)
		assert.NoError(t, err)
	})
}

func TestAssignTicket(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	owner := testUser(t, db, "owner@example.org")
	member := testUser(t, db, "member@example.org")
	project := testProject(t, b, owner, "Apollo")

	team, err := b.CreateTeam(project, "Backend")
	require.NoError(t, err)
	teammate, err := b.AddTeammate(*team, member)
	require.NoError(t, err)

	statuses := projectStatuses(t, b, project.ID)
	sprint := createTestSprint(t, b, project, owner, "Sprint", "2024-01-01", "2024-01-14")
	ticket, err := b.CreateTicket(*sprint, owner, statuses[0], "Task", "")
	require.NoError(t, err)

	assignee, err := b.AssignTicket(*ticket, teammate.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, teammate.ID, assignee.TeammateId)
	assert.Equal(t, owner.ID, assignee.AssignedById)

	t.Run("duplicate assignment", func(t *testing.T) {
		_, err := b.AssignTicket(*ticket, teammate.ID, owner)
		assert.ErrorIs(t, err, apierrors.ErrTeammateAssigned)
	})

	t.Run("unknown teammate", func(t *testing.T) {
		_, err := b.AssignTicket(*ticket, dao.GenUUID(), owner)
		assert.ErrorIs(t, err, apierrors.ErrTeammateNotFound)
	})

	t.Run("teammate from another project", func(t *testing.T) {
		other := testProject(t, b, owner, "Gemini")
		foreignTeam, err := b.CreateTeam(other, "Backend")
		require.NoError(t, err)
		foreign, err := b.AddTeammate(*foreignTeam, member)
		require.NoError(t, err)

		_, err = b.AssignTicket(*ticket, foreign.ID, owner)
		assert.ErrorIs(t, err, apierrors.ErrTeammateWrongProject)
	})

	t.Run("unassign", func(t *testing.T) {
		require.NoError(t, b.UnassignTicket(ticket.ID, teammate.ID))

		// Повторное снятие - no-op, состояние не меняется
		assert.NoError(t, b.UnassignTicket(ticket.ID, teammate.ID))

		// Снятое назначение можно выдать заново
		_, err := b.AssignTicket(*ticket, teammate.ID, owner)
		assert.NoError(t, err)
	})

	t.Run("archived sprint tickets keep assignees", func(t *testing.T) {
		require.NoError(t, b.ArchiveSprint(sprint))

		var count int64
		require.NoError(t, db.Model(&dao.TicketAssignee{}).
			Where("ticket_id = ?", ticket.ID).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})
}

func TestRemoveTeammate(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	owner := testUser(t, db, "owner@example.org")
	member := testUser(t, db, "member@example.org")
	project := testProject(t, b, owner, "Apollo")

	team, err := b.CreateTeam(project, "Backend")
	require.NoError(t, err)
	teammate, err := b.AddTeammate(*team, member)
	require.NoError(t, err)

	statuses := projectStatuses(t, b, project.ID)
	sprint := createTestSprint(t, b, project, owner, "Sprint", "2024-01-01", "2024-01-14")
	ticket, err := b.CreateTicket(*sprint, owner, statuses[0], "Task", "")
	require.NoError(t, err)
	_, err = b.AssignTicket(*ticket, teammate.ID, owner)
	require.NoError(t, err)

	require.NoError(t, b.RemoveTeammate(teammate))

	var assignees int64
	require.NoError(t, db.Model(&dao.TicketAssignee{}).
		Where("teammate_id = ?", teammate.ID).Count(&assignees).Error)
	assert.Zero(t, assignees)
}

func TestDeleteTeam(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	owner := testUser(t, db, "owner@example.org")
	member := testUser(t, db, "member@example.org")
	project := testProject(t, b, owner, "Apollo")

	team, err := b.CreateTeam(project, "Backend")
	require.NoError(t, err)
	_, err = b.AddTeammate(*team, member)
	require.NoError(t, err)

	require.NoError(t, b.DeleteTeam(team))

	var teammates int64
	require.NoError(t, db.Model(&dao.Teammate{}).
		Where("team_id = ?", team.ID).Count(&teammates).Error)
	assert.Zero(t, teammates)
}
