package dto

type MatchRequest struct {
	TargetUserID int64 `json:"target_user_id"`
}

type MatchResponse struct {
	Outcome string `json:"outcome"`
}
