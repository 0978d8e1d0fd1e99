package model

type GetPlatformStatsRequest struct{}

type GetPlatformStatsResponse struct {
	ActiveSpreaders int64 `json:"active_spreaders"`
	IdeasShared     int64 `json:"ideas_shared"`
	LivesReached    int64 `json:"lives_reached"`
}

type Spreader struct {
	AccountID string `json:"account_id"`
	Referrals int64  `json:"referrals"`
	Rank      int    `json:"rank"`
}

type GetSpreaderLeaderboardRequest struct {
	Offset int `form:"offset"`
	Limit  int `form:"limit"`
}

type GetSpreaderLeaderboardResponse struct {
	Spreaders []Spreader `json:"spreaders"`

	// MyRank is 0 for anonymous callers and accounts without referral.
	MyRank uint64 `json:"my_rank"`
}
