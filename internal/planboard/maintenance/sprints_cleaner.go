// Package maintenance содержит фоновые задачи очистки данных,
// запускаемые периодически по cron-расписанию.
//
// Soft delete → Hard delete реализует двухэтапное удаление: архивный
// спринт помечается как удаленный и остается восстановимым, а по
// истечении срока хранения физически удаляется фоновой задачей.
package maintenance

import (
	"log/slog"
	"time"

	"github.com/aisa-it/planboard/planboard.go/internal/planboard/business"
)

type SprintsCleaner struct {
	bl        *business.Business
	retention time.Duration
}

func NewSprintsCleaner(bl *business.Business, retentionDays int) *SprintsCleaner {
	return &SprintsCleaner{
		bl:        bl,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
	}
}

func (sc *SprintsCleaner) CleanSprints() {
	slog.Info("Start hard delete sprints")
	purged, err := sc.bl.PurgeExpiredSprints(sc.retention)
	if err != nil {
		slog.Error("Hard delete sprints", "err", err)
	}
	slog.Info("Finish hard delete sprints", "purged", purged)
}
