package auth

import (
	"time"

	"github.com/google/uuid"
)

// User — владелец резюме и мастер-профиля.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
