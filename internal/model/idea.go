package model

type Idea struct {
	ID              string   `json:"id"`
	OwnerID         string   `json:"owner_id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	IsPublic        bool     `json:"is_public"`
	ChainStopped    bool     `json:"chain_stopped"`
	ViewCount       int64    `json:"view_count"`
	AttachmentPaths []string `json:"attachment_paths"`
	AttachmentURLs  []string `json:"attachment_urls"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

type ReachStats struct {
	ReferralCount int64 `json:"referral_count"`
	UniqueReach   int64 `json:"unique_reach"`
}

type IdeaWithStats struct {
	Idea  Idea       `json:"idea"`
	Stats ReachStats `json:"stats"`
}

type CreateIdeaRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	IsPublic        bool     `json:"is_public"`
	AttachmentPaths []string `json:"attachment_paths"`
}

type CreateIdeaResponse struct {
	Idea Idea `json:"idea"`
}

type ShareIdeaRequest struct {
	IdeaID string   `json:"idea_id"`
	Emails []string `json:"emails"`
}

type ShareIdeaResponse struct {
	Stats ReachStats `json:"stats"`
}

type StopChainRequest struct {
	IdeaID string `json:"idea_id"`
}

type StopChainResponse struct{}

type DeleteIdeaRequest struct {
	IdeaID string `json:"idea_id"`
}

type DeleteIdeaResponse struct{}

type ToggleVisibilityRequest struct {
	IdeaID string `json:"idea_id"`

	// IsPublic sets the visibility explicitly, the visibility is flipped
	// when it is omitted.
	IsPublic *bool `json:"is_public"`
}

type ToggleVisibilityResponse struct {
	Idea Idea `json:"idea"`
}

type UpdateAttachmentsRequest struct {
	IdeaID          string   `json:"idea_id"`
	AttachmentPaths []string `json:"attachment_paths"`
}

type UpdateAttachmentsResponse struct {
	Idea Idea `json:"idea"`
}

type ViewIdeaRequest struct {
	IdeaID string `json:"idea_id"`
}

type ViewIdeaResponse struct {
	ViewCount int64 `json:"view_count"`
}

type GetIdeaRequest struct {
	IdeaID string `form:"idea_id"`
}

type GetIdeaResponse struct {
	Idea         Idea       `json:"idea"`
	Stats        ReachStats `json:"stats"`
	Relationship string     `json:"relationship"`
	CanShare     bool       `json:"can_share"`
}

type GetMyIdeasRequest struct {
	Offset int `form:"offset"`
	Limit  int `form:"limit"`
}

type GetMyIdeasResponse struct {
	Ideas []IdeaWithStats `json:"ideas"`
}

type GetPublicIdeasRequest struct {
	Category string `form:"category"`
	Offset   int    `form:"offset"`
	Limit    int    `form:"limit"`
}

type GetPublicIdeasResponse struct {
	Ideas []IdeaWithStats `json:"ideas"`
}

type GetIdeaStatsRequest struct {
	IdeaID string `form:"idea_id"`
}

type GetIdeaStatsResponse struct {
	Stats ReachStats `json:"stats"`
}

type ReferredIdea struct {
	Idea   Idea   `json:"idea"`
	Status string `json:"status"`
}

type GetReferredIdeasRequest struct{}

type GetReferredIdeasResponse struct {
	Ideas []ReferredIdea `json:"ideas"`
}

type GetViewerClassificationRequest struct {
	IdeaID string `form:"idea_id"`
}

type GetViewerClassificationResponse struct {
	Relationship string `json:"relationship"`
	CanView      bool   `json:"can_view"`
	CanShare     bool   `json:"can_share"`
}
