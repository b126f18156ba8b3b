// Общие типы данных приложения planboard.
//
// Основные возможности:
//   - Календарная дата без времени (CalDate) для границ спринтов и проектов.
//   - Статусы жизненного цикла спринта.
//   - Типы колонок доски (обычная, стартовая, финальная).
package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// CalDate календарная дата (без времени и зоны)
type CalDate struct {
	Time time.Time
}

func (d *CalDate) UnmarshalJSON(b []byte) error {
	str := string(b)
	if str != "" && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	if strings.Contains(str, "T") {
		str = strings.Split(str, "T")[0]
	}
	t, err := time.Parse("2006-01-02", str)
	if err != nil {
		return err
	}
	*d = CalDate{t}
	return nil
}

func (d CalDate) MarshalJSON() ([]byte, error) {
	return []byte(d.Time.Format("\"2006-01-02\"")), nil
}

func (d CalDate) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *CalDate) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		*d = CalDate{v}
		return nil
	case string:
		t, err := time.Parse("2006-01-02", strings.Split(v, "T")[0])
		if err != nil {
			t, err = time.Parse(time.RFC3339, v)
			if err != nil {
				return err
			}
		}
		*d = CalDate{t}
		return nil
	}
	return fmt.Errorf("error unmarshal date: %v", value)
}

func (d CalDate) String() string {
	return d.Time.Format("2006-01-02")
}

// DaysBetween длительность в целых днях между двумя датами
func DaysBetween(from, to CalDate) int {
	return int(to.Time.Sub(from.Time).Hours() / 24)
}

// JWT token lifetimes
const (
	TokenExpiresPeriod        = time.Hour * 24
	RefreshTokenExpiresPeriod = time.Hour * 24 * 30
)

// Sprint statuses
const (
	SprintInactive  = "inactive"
	SprintActive    = "active"
	SprintCompleted = "completed"
)

// StatusType тип колонки доски. Для стартовых и финальных колонок
// учет времени по задаче не ведется.
type StatusType int

const (
	StatusTypeNormal StatusType = 0
	StatusTypeStart  StatusType = 1
	StatusTypeEnd    StatusType = 2
)

func (st StatusType) Tracked() bool {
	return st == StatusTypeNormal
}

func (st StatusType) String() string {
	switch st {
	case StatusTypeStart:
		return "start"
	case StatusTypeEnd:
		return "end"
	default:
		return "normal"
	}
}

// Время, которое пользователь может добавить к задаче за один раз, минуты
const (
	MinTimeTaken = 1
	MaxTimeTaken = 1000
)

// Ресурсы и действия, используемые ролями по умолчанию. Шлюз доступа
// набор пар не интерпретирует: неизвестная пара равносильна запрещенной.
const (
	ResourceProject = "project"
	ResourceSprint  = "sprint"
	ResourceBoard   = "board"
	ResourceTicket  = "ticket"
	ResourceTeam    = "team"
	ResourceRole    = "role"
)

const (
	ActionView   = "view"
	ActionEdit   = "edit"
	ActionDelete = "delete"
	ActionManage = "manage"
)

var DefaultResources = []string{
	ResourceProject, ResourceSprint, ResourceBoard,
	ResourceTicket, ResourceTeam, ResourceRole,
}

var DefaultActions = []string{ActionView, ActionEdit, ActionDelete, ActionManage}
