package business

import (
	"testing"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/apierrors"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dao"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/types"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectStatuses(t *testing.T, b *Business, projectId uuid.UUID) []dao.Status {
	t.Helper()

	var statuses []dao.Status
	require.NoError(t, b.db.Where("project_id = ?", projectId).
		Order("position").Find(&statuses).Error)
	return statuses
}

func TestCreateStatus(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")
	project := testProject(t, b, user, "Apollo")

	// Новый проект получает стандартную доску
	statuses := projectStatuses(t, b, project.ID)
	require.Len(t, statuses, 3)
	assert.Equal(t, types.StatusTypeStart, statuses[0].StatusType)
	assert.Equal(t, types.StatusTypeNormal, statuses[1].StatusType)
	assert.Equal(t, types.StatusTypeEnd, statuses[2].StatusType)

	status, err := b.CreateStatus(project, "Ревью", types.StatusTypeNormal)
	require.NoError(t, err)
	assert.Equal(t, 3, status.Position)
}

func TestReorderStatuses(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")
	project := testProject(t, b, user, "Apollo")

	statuses := projectStatuses(t, b, project.ID)
	require.Len(t, statuses, 3)

	t.Run("swap columns", func(t *testing.T) {
		require.NoError(t, b.ReorderStatuses(project.ID, []StatusOrder{
			{StatusId: statuses[1].ID, Position: 2},
			{StatusId: statuses[2].ID, Position: 1},
		}))

		after := projectStatuses(t, b, project.ID)
		assert.Equal(t, statuses[0].ID, after[0].ID)
		assert.Equal(t, statuses[2].ID, after[1].ID)
		assert.Equal(t, statuses[1].ID, after[2].ID)
	})

	t.Run("unknown column rolls back the whole batch", func(t *testing.T) {
		before := projectStatuses(t, b, project.ID)

		err := b.ReorderStatuses(project.ID, []StatusOrder{
			{StatusId: before[0].ID, Position: 9},
			{StatusId: dao.GenUUID(), Position: 1},
		})
		assert.ErrorIs(t, err, apierrors.ErrStatusNotFound)

		after := projectStatuses(t, b, project.ID)
		for i := range before {
			assert.Equal(t, before[i].Position, after[i].Position)
		}
	})

	t.Run("foreign project column is rejected", func(t *testing.T) {
		other := testProject(t, b, user, "Gemini")
		foreign := projectStatuses(t, b, other.ID)

		err := b.ReorderStatuses(project.ID, []StatusOrder{
			{StatusId: foreign[0].ID, Position: 0},
		})
		assert.ErrorIs(t, err, apierrors.ErrStatusNotFound)
	})
}

func TestDeleteStatus(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")
	project := testProject(t, b, user, "Apollo")

	statuses := projectStatuses(t, b, project.ID)
	sprint := createTestSprint(t, b, project, user, "Sprint", "2024-01-01", "2024-01-14")

	ticket, err := b.CreateTicket(*sprint, user, statuses[0], "Task", "")
	require.NoError(t, err)

	t.Run("column with tickets is protected", func(t *testing.T) {
		assert.ErrorIs(t, b.DeleteStatus(&statuses[0]), apierrors.ErrStatusNotEmpty)
	})

	t.Run("archived sprints still protect the column", func(t *testing.T) {
		require.NoError(t, b.ArchiveSprint(sprint))
		assert.ErrorIs(t, b.DeleteStatus(&statuses[0]), apierrors.ErrStatusNotEmpty)
	})

	t.Run("empty column is removed", func(t *testing.T) {
		require.NoError(t, db.Delete(&dao.Ticket{}, "id = ?", ticket.ID).Error)
		require.NoError(t, b.DeleteStatus(&statuses[0]))

		assert.Len(t, projectStatuses(t, b, project.ID), 2)
	})
}

func TestCreateTicket(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")
	project := testProject(t, b, user, "Apollo")

	statuses := projectStatuses(t, b, project.ID)
	sprint := createTestSprint(t, b, project, user, "Sprint", "2024-01-01", "2024-01-14")

	first, err := b.CreateTicket(*sprint, user, statuses[0], "First", "")
	require.NoError(t, err)
	second, err := b.CreateTicket(*sprint, user, statuses[0], "Second", "")
	require.NoError(t, err)

	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)

	t.Run("initial tracker entry", func(t *testing.T) {
		var tracker dao.TicketTracker
		require.NoError(t, db.First(&tracker, "ticket_id = ?", first.ID).Error)
		assert.Nil(t, tracker.PrevStatusId)
		assert.Equal(t, statuses[0].ID, tracker.NewStatusId)
		assert.Zero(t, tracker.TimeTaken)
	})

	t.Run("foreign project column is rejected", func(t *testing.T) {
		other := testProject(t, b, user, "Gemini")
		foreign := projectStatuses(t, b, other.ID)

		_, err := b.CreateTicket(*sprint, user, foreign[0], "Stray", "")
		assert.ErrorIs(t, err, apierrors.ErrStatusNotFound)
	})
}

func TestReorderTickets(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")
	project := testProject(t, b, user, "Apollo")

	statuses := projectStatuses(t, b, project.ID)
	sprint := createTestSprint(t, b, project, user, "Sprint", "2024-01-01", "2024-01-14")

	ticket, err := b.CreateTicket(*sprint, user, statuses[0], "Task", "")
	require.NoError(t, err)

	trackerCount := func() int64 {
		var count int64
		require.NoError(t, db.Model(&dao.TicketTracker{}).
			Where("ticket_id = ?", ticket.ID).Count(&count).Error)
		return count
	}

	t.Run("move within column leaves history alone", func(t *testing.T) {
		require.NoError(t, b.ReorderTickets(*sprint, user, []TicketOrder{
			{TicketId: ticket.ID, StatusId: statuses[0].ID, Position: 4},
		}))
		assert.EqualValues(t, 1, trackerCount())

		var stored dao.Ticket
		require.NoError(t, db.First(&stored, "id = ?", ticket.ID).Error)
		assert.Equal(t, 4, stored.Position)
	})

	t.Run("move to another column records the transition", func(t *testing.T) {
		require.NoError(t, b.ReorderTickets(*sprint, user, []TicketOrder{
			{TicketId: ticket.ID, StatusId: statuses[1].ID, Position: 0},
		}))
		assert.EqualValues(t, 2, trackerCount())

		var tracker dao.TicketTracker
		require.NoError(t, db.Where("ticket_id = ?", ticket.ID).
			Order("created_at DESC").First(&tracker).Error)
		require.NotNil(t, tracker.PrevStatusId)
		assert.Equal(t, statuses[0].ID, *tracker.PrevStatusId)
		assert.Equal(t, statuses[1].ID, tracker.NewStatusId)
		assert.Equal(t, user.ID, tracker.UpdatedById)
		assert.Zero(t, tracker.TimeTaken)

		var stored dao.Ticket
		require.NoError(t, db.First(&stored, "id = ?", ticket.ID).Error)
		assert.Equal(t, statuses[1].ID, stored.StatusId)
	})

	t.Run("unknown ticket rolls back the whole batch", func(t *testing.T) {
		err := b.ReorderTickets(*sprint, user, []TicketOrder{
			{TicketId: ticket.ID, StatusId: statuses[2].ID, Position: 0},
			{TicketId: dao.GenUUID(), StatusId: statuses[2].ID, Position: 1},
		})
		assert.ErrorIs(t, err, apierrors.ErrTicketNotFound)
		assert.EqualValues(t, 2, trackerCount())

		var stored dao.Ticket
		require.NoError(t, db.First(&stored, "id = ?", ticket.ID).Error)
		assert.Equal(t, statuses[1].ID, stored.StatusId)
	})

	t.Run("unknown column is rejected", func(t *testing.T) {
		err := b.ReorderTickets(*sprint, user, []TicketOrder{
			{TicketId: ticket.ID, StatusId: dao.GenUUID(), Position: 0},
		})
		assert.ErrorIs(t, err, apierrors.ErrStatusNotFound)
	})
}

func TestAddTimeTaken(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")
	project := testProject(t, b, user, "Apollo")

	statuses := projectStatuses(t, b, project.ID)
	sprint := createTestSprint(t, b, project, user, "Sprint", "2024-01-01", "2024-01-14")

	ticket, err := b.CreateTicket(*sprint, user, statuses[1], "Task", "")
	require.NoError(t, err)

	t.Run("minutes accumulate on the current entry", func(t *testing.T) {
		tracker, err := b.AddTimeTaken(*ticket, user, 30)
		require.NoError(t, err)
		assert.Equal(t, 30, tracker.TimeTaken)

		tracker, err = b.AddTimeTaken(*ticket, user, 20)
		require.NoError(t, err)
		assert.Equal(t, 50, tracker.TimeTaken)
	})

	t.Run("minutes out of range", func(t *testing.T) {
		for _, minutes := range []int{0, -5, 1001} {
			_, err := b.AddTimeTaken(*ticket, user, minutes)
			assert.ErrorIs(t, err, apierrors.ErrTimeTakenOutOfRange)
		}
	})

	t.Run("boundary minutes are accepted", func(t *testing.T) {
		_, err := b.AddTimeTaken(*ticket, user, 1)
		assert.NoError(t, err)
		_, err = b.AddTimeTaken(*ticket, user, 1000)
		assert.NoError(t, err)
	})

	t.Run("start and end columns do not track time", func(t *testing.T) {
		for _, status := range []dao.Status{statuses[0], statuses[2]} {
			parked, err := b.CreateTicket(*sprint, user, status, "Parked", "")
			require.NoError(t, err)

			_, err = b.AddTimeTaken(*parked, user, 10)
			assert.ErrorIs(t, err, apierrors.ErrTimeTrackingDisabled)
		}
	})

	t.Run("each visit to a column gets its own entry", func(t *testing.T) {
		// Туда и обратно: карточка вернулась в рабочую колонку
		require.NoError(t, b.ReorderTickets(*sprint, user, []TicketOrder{
			{TicketId: ticket.ID, StatusId: statuses[2].ID, Position: 0},
		}))
		require.NoError(t, b.ReorderTickets(*sprint, user, []TicketOrder{
			{TicketId: ticket.ID, StatusId: statuses[1].ID, Position: 0},
		}))

		var moved dao.Ticket
		require.NoError(t, db.First(&moved, "id = ?", ticket.ID).Error)

		tracker, err := b.AddTimeTaken(moved, user, 15)
		require.NoError(t, err)
		assert.Equal(t, 15, tracker.TimeTaken)
	})
}

func TestGetBoard(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")
	project := testProject(t, b, user, "Apollo")

	statuses := projectStatuses(t, b, project.ID)
	sprint := createTestSprint(t, b, project, user, "Sprint", "2024-01-01", "2024-01-14")
	other := createTestSprint(t, b, project, user, "Other", "2024-02-01", "2024-02-14")

	first, err := b.CreateTicket(*sprint, user, statuses[1], "First", "")
	require.NoError(t, err)
	second, err := b.CreateTicket(*sprint, user, statuses[1], "Second", "")
	require.NoError(t, err)
	_, err = b.CreateTicket(*other, user, statuses[1], "Elsewhere", "")
	require.NoError(t, err)

	columns, tickets, err := b.GetBoard(*sprint)
	require.NoError(t, err)
	require.Len(t, columns, 3)

	// Доска показывает только карточки своего спринта
	assert.Empty(t, tickets[statuses[0].ID])
	require.Len(t, tickets[statuses[1].ID], 2)
	assert.Equal(t, first.ID, tickets[statuses[1].ID][0].ID)
	assert.Equal(t, second.ID, tickets[statuses[1].ID][1].ID)

	require.NoError(t, b.ReorderTickets(*sprint, user, []TicketOrder{
		{TicketId: first.ID, StatusId: statuses[1].ID, Position: 2},
	}))

	_, tickets, err = b.GetBoard(*sprint)
	require.NoError(t, err)
	assert.Equal(t, second.ID, tickets[statuses[1].ID][0].ID)
	assert.Equal(t, first.ID, tickets[statuses[1].ID][1].ID)
}
