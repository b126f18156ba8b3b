package business

import (
	"gorm.io/gorm"
)

type Business struct {
	db *gorm.DB
}

func NewBL(db *gorm.DB) *Business {
	return &Business{db: db}
}
