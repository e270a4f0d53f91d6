package domain

import "time"

type Role string

const (
	RoleRenter Role = "RENTER"
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
)

type User struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Name         string
	Role         Role `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
