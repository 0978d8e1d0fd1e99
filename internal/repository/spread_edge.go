package repository

import (
	"context"
	"errors"

	"github.com/sparkloop/backend/internal/entity"
	"github.com/sparkloop/backend/pkg/xcontext"
)

type ReferredIdea struct {
	IdeaID string
	Status entity.SpreadStatus
}

type ReferrerCount struct {
	ReferrerID string
	Count      int64
}

// SpreadEdgeRepository is the spread ledger. It does not validate anything
// beyond what the unique index on (idea_id, referred_email) enforces.
type SpreadEdgeRepository interface {
	// InsertEdges writes one pending edge per email, all or none. Emails must
	// be normalized by the caller.
	InsertEdges(ctx context.Context, ideaID string, referrer entity.Referrer, emails []string) ([]entity.SpreadEdge, error)
	MarkShared(ctx context.Context, ideaID, accountID, email string) (int64, error)
	GetListByIdea(ctx context.Context, ideaID string) ([]entity.SpreadEdge, error)
	GetReferredIdeas(ctx context.Context, accountID, email string) ([]ReferredIdea, error)
	DeleteByIdea(ctx context.Context, ideaID string) error
	Count(ctx context.Context) (int64, error)
	CountReferrers(ctx context.Context) (int64, error)

	// GetReferrerCounts counts the edges of every account referrer, or only
	// of the given accounts when some are passed.
	GetReferrerCounts(ctx context.Context, accountIDs ...string) ([]ReferrerCount, error)
}

type spreadEdgeRepository struct{}

func NewSpreadEdgeRepository() *spreadEdgeRepository {
	return &spreadEdgeRepository{}
}

func (r *spreadEdgeRepository) InsertEdges(
	ctx context.Context, ideaID string, referrer entity.Referrer, emails []string,
) ([]entity.SpreadEdge, error) {
	if len(emails) == 0 {
		return nil, nil
	}

	node := xcontext.SnowFlake(ctx)
	if node == nil {
		return nil, errors.New("snowflake node is not set")
	}

	edges := make([]entity.SpreadEdge, 0, len(emails))
	for _, email := range emails {
		edges = append(edges, entity.SpreadEdge{
			ID:            node.Generate().Int64(),
			IdeaID:        ideaID,
			ReferrerID:    referrer.Column(),
			ReferredEmail: email,
			Status:        entity.SpreadPending,
		})
	}

	// A single multi-row INSERT, a conflict on any email rejects the batch.
	if err := xcontext.DB(ctx).Omit("Idea").Create(&edges).Error; err != nil {
		return nil, translateDuplicate(err)
	}

	return edges, nil
}

// MarkShared moves the pending edge of the given account or email to shared
// and links it to the account. An edge already linked to another account is
// not matched by email. Shared edges are never touched.
func (r *spreadEdgeRepository) MarkShared(ctx context.Context, ideaID, accountID, email string) (int64, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.SpreadEdge{}).
		Where("idea_id=? AND status=?", ideaID, entity.SpreadPending).
		Where(
			"referred_account_id=? OR (referred_account_id IS NULL AND referred_email=?)",
			accountID, email,
		).
		Updates(map[string]any{
			"status":              entity.SpreadShared,
			"referred_account_id": accountID,
		})

	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}

func (r *spreadEdgeRepository) GetListByIdea(ctx context.Context, ideaID string) ([]entity.SpreadEdge, error) {
	var result []entity.SpreadEdge
	if err := xcontext.DB(ctx).Where("idea_id=?", ideaID).Order("id").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// GetReferredIdeas lists the ideas referred to the account or email, one
// entry per idea with the status of its earliest edge. Self-entries are not
// referrals.
func (r *spreadEdgeRepository) GetReferredIdeas(ctx context.Context, accountID, email string) ([]ReferredIdea, error) {
	var edges []entity.SpreadEdge
	err := xcontext.DB(ctx).
		Select("id", "idea_id", "status").
		Where("referrer_id IS NOT NULL").
		Where("referred_account_id=? OR referred_email=?", accountID, email).
		Order("id").
		Find(&edges).Error
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	result := []ReferredIdea{}
	for _, e := range edges {
		if seen[e.IdeaID] {
			continue
		}

		seen[e.IdeaID] = true
		result = append(result, ReferredIdea{IdeaID: e.IdeaID, Status: e.Status})
	}

	return result, nil
}

func (r *spreadEdgeRepository) DeleteByIdea(ctx context.Context, ideaID string) error {
	return xcontext.DB(ctx).Delete(&entity.SpreadEdge{}, "idea_id=?", ideaID).Error
}

func (r *spreadEdgeRepository) Count(ctx context.Context) (int64, error) {
	var result int64
	if err := xcontext.DB(ctx).Model(&entity.SpreadEdge{}).Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}

// CountReferrers counts the distinct accounts which referred at least one
// email. Anonymous referrals are not attributed to anyone.
func (r *spreadEdgeRepository) CountReferrers(ctx context.Context) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.SpreadEdge{}).
		Where("referrer_id IS NOT NULL AND referrer_id<>?", entity.AnonymousReferrerID).
		Distinct("referrer_id").
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *spreadEdgeRepository) GetReferrerCounts(ctx context.Context, accountIDs ...string) ([]ReferrerCount, error) {
	var result []ReferrerCount
	tx := xcontext.DB(ctx).
		Model(&entity.SpreadEdge{}).
		Select("referrer_id, COUNT(*) AS count").
		Where("referrer_id IS NOT NULL AND referrer_id<>?", entity.AnonymousReferrerID)

	if len(accountIDs) > 0 {
		tx = tx.Where("referrer_id IN (?)", accountIDs)
	}

	if err := tx.Group("referrer_id").Scan(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

