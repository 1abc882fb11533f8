package model

import "time"

// LikeEdge is a directed interest relationship between two users.
// Repeated edges with the same (source, target) pair are allowed.
type LikeEdge struct {
	ID           int64     `json:"id"`
	FromUserID   int64     `json:"from_user_id"`
	TargetUserID int64     `json:"target_user_id"`
	CreatedAt    time.Time `json:"created_at"`
}
