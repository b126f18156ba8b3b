// Настройки отображения доски в рамках сессии.
//
// Закрепление колонок - часть представления, а не данных: наборы живут в
// памяти процесса, привязаны к паре сессия-проект и пропадают при
// перезапуске сервера. В базу они не пишутся.
package boardview

import (
	"sync"

	"github.com/gofrs/uuid"
)

type pinKey struct {
	SessionId string
	ProjectId uuid.UUID
}

type PinStore struct {
	mu   sync.Mutex
	pins map[pinKey]map[uuid.UUID]struct{}
}

func NewPinStore() *PinStore {
	return &PinStore{pins: make(map[pinKey]map[uuid.UUID]struct{})}
}

// TogglePin переключает закрепление колонки и возвращает новое состояние.
func (s *PinStore) TogglePin(sessionId string, projectId, statusId uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pinKey{sessionId, projectId}
	set := s.pins[key]
	if set == nil {
		set = make(map[uuid.UUID]struct{})
		s.pins[key] = set
	}

	if _, ok := set[statusId]; ok {
		delete(set, statusId)
		if len(set) == 0 {
			delete(s.pins, key)
		}
		return false
	}
	set[statusId] = struct{}{}
	return true
}

// IsPinned сообщает, закреплена ли колонка в этой сессии.
func (s *PinStore) IsPinned(sessionId string, projectId, statusId uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.pins[pinKey{sessionId, projectId}]
	_, ok := set[statusId]
	return ok
}

// Pinned возвращает закрепленные колонки проекта для сессии.
func (s *PinStore) Pinned(sessionId string, projectId uuid.UUID) []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.pins[pinKey{sessionId, projectId}]
	res := make([]uuid.UUID, 0, len(set))
	for id := range set {
		res = append(res, id)
	}
	return res
}

// DropSession забывает все закрепления сессии, например при выходе.
func (s *PinStore) DropSession(sessionId string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.pins {
		if key.SessionId == sessionId {
			delete(s.pins, key)
		}
	}
}
