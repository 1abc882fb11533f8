package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Avatar       string    `json:"avatar,omitempty"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Gender       string    `json:"gender"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasCoordinates reports whether both latitude and longitude are known.
func (u User) HasCoordinates() bool {
	return u.Latitude != nil && u.Longitude != nil
}
