package models

import (
	"time"

	"gorm.io/gorm"
)

type Tag struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	Name      string `json:"name" gorm:"unique;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Resources []Resource     `json:"-" gorm:"many2many:resource_tags;"`
}
