package business

import (
	"testing"
	"time"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/apierrors"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/dao"
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestSprint(t *testing.T, b *Business, project dao.Project, user dao.User, title, start, end string) *dao.Sprint {
	t.Helper()

	sprint, err := b.CreateSprint(project, user, dao.Sprint{
		Title:     title,
		StartDate: cal(t, start),
		EndDate:   cal(t, end),
	})
	require.NoError(t, err)
	return sprint
}

func TestCreateSprint(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")
	project := testProject(t, b, user, "Apollo")

	sprint := createTestSprint(t, b, project, user, "Sprint 1", "2024-01-01", "2024-01-06")
	assert.Equal(t, types.SprintInactive, sprint.Status)
	assert.Equal(t, 5, sprint.Duration())

	t.Run("end before start", func(t *testing.T) {
		_, err := b.CreateSprint(project, user, dao.Sprint{
			Title:     "Backwards",
			StartDate: cal(t, "2024-03-10"),
			EndDate:   cal(t, "2024-03-01"),
		})
		assert.ErrorIs(t, err, apierrors.ErrSprintTimeWindow)
	})

	t.Run("single day sprint", func(t *testing.T) {
		sprint := createTestSprint(t, b, project, user, "One day", "2024-03-01", "2024-03-01")
		assert.Equal(t, 0, sprint.Duration())
	})
}

func TestSprintOverlap(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")
	project := testProject(t, b, user, "Apollo")

	createTestSprint(t, b, project, user, "Base", "2024-01-01", "2024-01-14")

	cases := []struct {
		name       string
		start, end string
		conflict   bool
	}{
		{"inside", "2024-01-05", "2024-01-10", true},
		{"covers", "2023-12-20", "2024-01-20", true},
		{"tail overlap", "2024-01-10", "2024-01-20", true},
		{"head overlap", "2023-12-25", "2024-01-01", true},
		{"touching end boundary", "2024-01-14", "2024-01-18", true},
		{"next day", "2024-01-15", "2024-01-20", false},
		{"before", "2023-12-01", "2023-12-31", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sprint, err := b.CreateSprint(project, user, dao.Sprint{
				Title:     tc.name,
				StartDate: cal(t, tc.start),
				EndDate:   cal(t, tc.end),
			})
			if tc.conflict {
				assert.ErrorIs(t, err, apierrors.ErrSprintDatesOverlap)
			} else {
				require.NoError(t, err)
				require.NoError(t, db.Delete(sprint).Error)
			}
		})
	}

	t.Run("other project is independent", func(t *testing.T) {
		other := testProject(t, b, user, "Gemini")
		_, err := b.CreateSprint(other, user, dao.Sprint{
			Title:     "Same window",
			StartDate: cal(t, "2024-01-01"),
			EndDate:   cal(t, "2024-01-14"),
		})
		assert.NoError(t, err)
	})
}

func TestUpdateSprintDates(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")
	project := testProject(t, b, user, "Apollo")

	first := createTestSprint(t, b, project, user, "First", "2024-01-01", "2024-01-14")
	second := createTestSprint(t, b, project, user, "Second", "2024-02-01", "2024-02-14")

	t.Run("sprint does not conflict with itself", func(t *testing.T) {
		start := cal(t, "2024-01-02")
		end := cal(t, "2024-01-13")
		require.NoError(t, b.UpdateSprint(first, nil, nil, &start, &end))
	})

	t.Run("conflict with neighbour", func(t *testing.T) {
		start := cal(t, "2024-02-10")
		end := cal(t, "2024-02-20")
		assert.ErrorIs(t, b.UpdateSprint(first, nil, nil, &start, &end), apierrors.ErrSprintDatesOverlap)
	})

	t.Run("title only update skips overlap check", func(t *testing.T) {
		title := "Renamed"
		require.NoError(t, b.UpdateSprint(second, &title, nil, nil, nil))

		var stored dao.Sprint
		require.NoError(t, db.First(&stored, "id = ?", second.ID).Error)
		assert.Equal(t, "Renamed", stored.Title)
	})
}

func TestStartSprint(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")
	project := testProject(t, b, user, "Apollo")

	first := createTestSprint(t, b, project, user, "First", "2024-01-01", "2024-01-14")
	second := createTestSprint(t, b, project, user, "Second", "2024-02-01", "2024-02-14")

	require.NoError(t, b.StartSprint(first))
	assert.Equal(t, types.SprintActive, first.Status)

	// Запуск второго спринта завершает первый
	require.NoError(t, b.StartSprint(second))

	var stored dao.Sprint
	require.NoError(t, db.First(&stored, "id = ?", first.ID).Error)
	assert.Equal(t, types.SprintCompleted, stored.Status)

	var active int64
	require.NoError(t, db.Model(&dao.Sprint{}).
		Where("project_id = ? AND status = ?", project.ID, types.SprintActive).
		Count(&active).Error)
	assert.EqualValues(t, 1, active)
}

func TestArchiveSprint(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")
	project := testProject(t, b, user, "Apollo")

	sprint := createTestSprint(t, b, project, user, "Sprint", "2024-01-01", "2024-01-14")

	t.Run("active sprint is not archivable", func(t *testing.T) {
		require.NoError(t, b.StartSprint(sprint))
		assert.ErrorIs(t, b.ArchiveSprint(sprint), apierrors.ErrSprintNotInactive)
	})

	t.Run("completed sprint is not archivable", func(t *testing.T) {
		require.NoError(t, b.CompleteSprint(sprint))
		assert.ErrorIs(t, b.ArchiveSprint(sprint), apierrors.ErrSprintNotInactive)
	})

	t.Run("inactive sprint is archived", func(t *testing.T) {
		require.NoError(t, db.Model(sprint).Update("status", types.SprintInactive).Error)
		require.NoError(t, b.ArchiveSprint(sprint))

		var live int64
		require.NoError(t, db.Model(&dao.Sprint{}).Where("id = ?", sprint.ID).Count(&live).Error)
		assert.Zero(t, live)

		var archived dao.Sprint
		require.NoError(t, db.Unscoped().First(&archived, "id = ?", sprint.ID).Error)
		assert.True(t, archived.DeletedAt.Valid)
	})

	t.Run("archived dates do not block new sprints", func(t *testing.T) {
		_, err := b.CreateSprint(project, user, dao.Sprint{
			Title:     "Replacement",
			StartDate: cal(t, "2024-01-01"),
			EndDate:   cal(t, "2024-01-14"),
		})
		assert.NoError(t, err)
	})
}

func TestRestoreSprint(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")
	project := testProject(t, b, user, "Apollo")

	sprint := createTestSprint(t, b, project, user, "Sprint", "2024-01-01", "2024-01-14")
	require.NoError(t, b.ArchiveSprint(sprint))

	t.Run("restore conflicts with occupied window", func(t *testing.T) {
		blocker := createTestSprint(t, b, project, user, "Blocker", "2024-01-10", "2024-01-20")
		_, err := b.RestoreSprint(project.ID, sprint.ID)
		assert.ErrorIs(t, err, apierrors.ErrSprintDatesOverlap)
		require.NoError(t, db.Unscoped().Delete(blocker).Error)
	})

	t.Run("restore returns sprint to live set", func(t *testing.T) {
		restored, err := b.RestoreSprint(project.ID, sprint.ID)
		require.NoError(t, err)
		assert.False(t, restored.DeletedAt.Valid)

		var live int64
		require.NoError(t, db.Model(&dao.Sprint{}).Where("id = ?", sprint.ID).Count(&live).Error)
		assert.EqualValues(t, 1, live)
	})

	t.Run("live sprint is not restorable", func(t *testing.T) {
		_, err := b.RestoreSprint(project.ID, sprint.ID)
		assert.ErrorIs(t, err, apierrors.ErrSprintNotFound)
	})
}

func TestPurgeSprint(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")
	project := testProject(t, b, user, "Apollo")

	sprint := createTestSprint(t, b, project, user, "Sprint", "2024-01-01", "2024-01-14")

	var status dao.Status
	require.NoError(t, db.First(&status, "project_id = ?", project.ID).Error)

	ticket, err := b.CreateTicket(*sprint, user, status, "Task", "")
	require.NoError(t, err)

	t.Run("live sprint is not purgeable", func(t *testing.T) {
		assert.ErrorIs(t, b.PurgeSprint(project.ID, sprint.ID), apierrors.ErrSprintNotFound)
	})

	require.NoError(t, b.ArchiveSprint(sprint))
	require.NoError(t, b.PurgeSprint(project.ID, sprint.ID))

	var sprints, tickets, trackers int64
	require.NoError(t, db.Unscoped().Model(&dao.Sprint{}).Where("id = ?", sprint.ID).Count(&sprints).Error)
	require.NoError(t, db.Model(&dao.Ticket{}).Where("id = ?", ticket.ID).Count(&tickets).Error)
	require.NoError(t, db.Model(&dao.TicketTracker{}).Where("ticket_id = ?", ticket.ID).Count(&trackers).Error)
	assert.Zero(t, sprints)
	assert.Zero(t, tickets)
	assert.Zero(t, trackers)
}

func TestPurgeExpiredSprints(t *testing.T) {
	db := testDB(t)
	b := NewBL(db)
	user := testUser(t, db, "owner@example.org")
	project := testProject(t, b, user, "Apollo")

	old := createTestSprint(t, b, project, user, "Old", "2024-01-01", "2024-01-14")
	fresh := createTestSprint(t, b, project, user, "Fresh", "2024-02-01", "2024-02-14")

	require.NoError(t, b.ArchiveSprint(old))
	require.NoError(t, b.ArchiveSprint(fresh))

	// Старый спринт пролежал в архиве дольше срока хранения
	require.NoError(t, db.Unscoped().Model(old).
		Update("deleted_at", time.Now().Add(-40*24*time.Hour)).Error)

	purged, err := b.PurgeExpiredSprints(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	var rest []dao.Sprint
	require.NoError(t, db.Unscoped().Where("project_id = ?", project.ID).Find(&rest).Error)
	require.Len(t, rest, 1)
	assert.Equal(t, fresh.ID, rest[0].ID)
}
