package domain

import "time"

// FallbackUserID marks a user record substituted when the user directory
// is unavailable. It can never collide with a real id.
const FallbackUserID int64 = -1

// User is owned by the external user directory; the order service never
// persists it.
type User struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Surname   string     `json:"surname"`
	BirthDate *time.Time `json:"birth_date"`
	Email     string     `json:"email"`
	Cards     []Card     `json:"cards"`
}

type Card struct {
	ID     int64  `json:"id"`
	Number string `json:"number"`
	Holder string `json:"holder"`
}

func FallbackUser() *User {
	return &User{ID: FallbackUserID}
}

func (u *User) IsFallback() bool {
	return u == nil || u.ID == FallbackUserID
}
