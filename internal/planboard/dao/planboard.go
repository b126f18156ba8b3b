// DAO (Data Access Object) - модели данных приложения planboard и общие
// хелперы для работы с базой данных.
//
// Основные возможности:
//   - Генерация идентификаторов сущностей.
//   - Пагинация списочных запросов.
package dao

import (
	"github.com/aisa-it/planboard/planboard.go/internal/planboard/config"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var Config *config.Config

func GenID() string {
	u2, _ := uuid.NewV4()
	return u2.String()
}

// GenUUID генерирует уникальный идентификатор в формате UUID.
func GenUUID() uuid.UUID {
	u2, _ := uuid.NewV4()
	return u2
}

// -migration
type PaginationResponse struct {
	Count  int64 `json:"count"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
	Result any   `json:"result"`
}

func PaginationRequest(offset int, limit int, query *gorm.DB, target any) (res PaginationResponse, err error) {
	// Count query
	if err := query.Session(&gorm.Session{}).Model(target).Count(&res.Count).Error; err != nil {
		return res, err
	}

	// Data query
	if err := query.Offset(offset).Limit(limit).Find(target).Error; err != nil {
		return res, err
	}

	res.Result = target
	res.Limit = limit
	res.Offset = offset

	return res, nil
}
