package domain

import (
	"time"

	"github.com/sparkloop/backend/internal/domain/leaderboard"
	"github.com/sparkloop/backend/internal/domain/reach"
	"github.com/sparkloop/backend/internal/entity"
	"github.com/sparkloop/backend/internal/model"
	"github.com/sparkloop/backend/pkg/storage"
)

const defaultTimeLayout string = time.RFC3339Nano

func convertIdea(idea *entity.Idea, fileStorage storage.Storage) model.Idea {
	if idea == nil {
		return model.Idea{}
	}

	paths := []string{}
	urls := []string{}
	for _, p := range idea.AttachmentRefs {
		paths = append(paths, p)
		if fileStorage != nil {
			urls = append(urls, fileStorage.PublicURL(p))
		}
	}

	return model.Idea{
		ID:              idea.ID,
		OwnerID:         idea.OwnerID,
		Title:           idea.Title,
		Description:     idea.Description,
		Category:        idea.Category,
		IsPublic:        idea.IsPublic,
		ChainStopped:    idea.ChainStopped,
		ViewCount:       idea.ViewCount,
		AttachmentPaths: paths,
		AttachmentURLs:  urls,
		CreatedAt:       idea.CreatedAt.Format(defaultTimeLayout),
		UpdatedAt:       idea.UpdatedAt.Format(defaultTimeLayout),
	}
}

func convertReachStats(stats reach.Stats) model.ReachStats {
	return model.ReachStats{
		ReferralCount: stats.ReferralCount,
		UniqueReach:   stats.UniqueReach,
	}
}

func convertSpreader(s leaderboard.Spreader) model.Spreader {
	return model.Spreader{
		AccountID: s.AccountID,
		Referrals: s.Referrals,
		Rank:      s.Rank,
	}
}
