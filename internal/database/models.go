package database

import "time"

type Skater struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Email           string    `json:"email" gorm:"uniqueIndex:skaters_email_key;not null"`
	Nombre          string    `json:"nombre" gorm:"not null"`
	Password        string    `json:"-" gorm:"not null"`
	AnosExperiencia int       `json:"anos_experiencia" gorm:"not null"`
	Especialidad    string    `json:"especialidad" gorm:"not null"`
	Foto            string    `json:"foto" gorm:"not null"`
	Estado          bool      `json:"estado" gorm:"not null;default:false"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (s *Skater) TableName() string {
	return "skaters"
}

// Administrator links a skater to the admin role; only active links count.
type Administrator struct {
	SkaterID uint `json:"id_skater" gorm:"column:id_skater;primaryKey;autoIncrement:false"`
	Estado   bool `json:"estado" gorm:"not null"`
}

func (a *Administrator) TableName() string {
	return "administradores"
}
