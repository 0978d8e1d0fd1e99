// Package chain executes the operations which change the spread chain of an
// idea, keeping the idea store and the spread ledger consistent.
package chain

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sparkloop/backend/internal/common"
	"github.com/sparkloop/backend/internal/domain/reach"
	"github.com/sparkloop/backend/internal/domain/viewer"
	"github.com/sparkloop/backend/internal/entity"
	"github.com/sparkloop/backend/internal/repository"
	"github.com/sparkloop/backend/pkg/account"
	"github.com/sparkloop/backend/pkg/errorx"
	"github.com/sparkloop/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type IdeaFields struct {
	Title          string
	Description    string
	Category       string
	IsPublic       bool
	AttachmentRefs []string
}

type Orchestrator interface {
	CreateIdeaWithChain(ctx context.Context, ownerID string, fields IdeaFields, ownerEmail string) (*entity.Idea, error)

	// ShareIdea records the referrals of sharer, nil means an anonymous
	// visitor. It is not idempotent, a retry after success is rejected as a
	// duplicate referral.
	ShareIdea(ctx context.Context, ideaID string, sharer *account.Account, emails []string) (reach.Stats, error)

	StopChain(ctx context.Context, ideaID, requesterID string) error
	DeleteIdeaCascade(ctx context.Context, ideaID, requesterID string) error

	// ToggleVisibility flips the visibility, or sets it to target when target
	// is not nil.
	ToggleVisibility(ctx context.Context, ideaID, requesterID string, target *bool) (*entity.Idea, error)
	UpdateAttachments(ctx context.Context, ideaID, requesterID string, refs []string) (*entity.Idea, error)

	// Wait blocks until the listeners of every finished share returned.
	Wait()
}

type orchestrator struct {
	ideaRepo       repository.IdeaRepository
	spreadEdgeRepo repository.SpreadEdgeRepository
	aggregator     reach.Aggregator
	listeners      []Listener

	// pending tracks the share listeners running in background.
	pending sync.WaitGroup
}

func NewOrchestrator(
	ideaRepo repository.IdeaRepository,
	spreadEdgeRepo repository.SpreadEdgeRepository,
	aggregator reach.Aggregator,
	listeners ...Listener,
) *orchestrator {
	return &orchestrator{
		ideaRepo:       ideaRepo,
		spreadEdgeRepo: spreadEdgeRepo,
		aggregator:     aggregator,
		listeners:      listeners,
	}
}

func (o *orchestrator) CreateIdeaWithChain(
	ctx context.Context, ownerID string, fields IdeaFields, ownerEmail string,
) (*entity.Idea, error) {
	idea, err := newIdea(ctx, ownerID, fields)
	if err != nil {
		return nil, err
	}

	ownerEmail = NormalizeEmail(ownerEmail)
	if !IsValidEmail(ownerEmail) {
		return nil, errorx.New(errorx.BadRequest, "The owner must have a valid email")
	}

	ctx, cancel := detach(ctx)
	defer cancel()

	txCtx := xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(txCtx)

	if err := o.ideaRepo.Create(txCtx, idea); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create idea: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Idea store is unavailable")
	}

	_, err = o.spreadEdgeRepo.InsertEdges(txCtx, idea.ID, entity.CreatorReferrer(), []string{ownerEmail})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot insert the self-entry of idea %s: %v", idea.ID, err)
		if rollbackErr := xcontext.WithRollbackDBTransaction(txCtx); rollbackErr != nil {
			return nil, o.partialCreate(ctx, idea, ownerEmail, rollbackErr)
		}

		// The rollback must have removed the idea, otherwise it is orphaned.
		if o.ideaExists(ctx, idea.ID) {
			return nil, o.partialCreate(ctx, idea, ownerEmail, err)
		}

		return nil, errorx.New(errorx.Unavailable, "Spread ledger is unavailable")
	}

	if err := xcontext.WithCommitDBTransaction(txCtx); err != nil {
		return nil, o.partialCreate(ctx, idea, ownerEmail, err)
	}

	common.PromCounters[common.IdeaCreatedTotal].WithLabelValues(visibilityLabel(idea.IsPublic)).Inc()
	return idea, nil
}

func (o *orchestrator) ShareIdea(
	ctx context.Context, ideaID string, sharer *account.Account, candidates []string,
) (reach.Stats, error) {
	idea, err := o.ideaRepo.GetByID(ctx, ideaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return reach.Stats{}, errorx.New(errorx.NotFound, "Not found idea")
		}

		xcontext.Logger(ctx).Errorf("Cannot get idea: %v", err)
		return reach.Stats{}, errorx.New(errorx.Unavailable, "Idea store is unavailable")
	}

	edges, err := o.spreadEdgeRepo.GetListByIdea(ctx, ideaID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get spread edges: %v", err)
		return reach.Stats{}, errorx.New(errorx.Unavailable, "Spread ledger is unavailable")
	}

	// A private idea is hidden from whoever cannot view it.
	if !viewer.Classify(viewer.FromAccount(sharer), idea, edges).CanView() {
		return reach.Stats{}, errorx.New(errorx.NotFound, "Not found idea")
	}

	if idea.ChainStopped {
		return reach.Stats{}, errorx.New(errorx.ChainStopped, "The chain of this idea has been stopped")
	}

	emails := NormalizeEmails(candidates)
	if sharer != nil {
		// Nobody refers themself.
		emails = withoutEmail(emails, sharer.NormalizedEmail())
	}
	if len(emails) == 0 {
		return reach.Stats{}, errorx.New(errorx.BadRequest, "No valid email to share with")
	}

	if duplicates := duplicatedEmails(edges, emails); len(duplicates) > 0 {
		return reach.Stats{}, duplicateReferral(duplicates)
	}

	referrer := entity.AnonymousReferrer()
	if sharer != nil {
		referrer = entity.AccountReferrer(sharer.ID)
	}

	newEdges, err := o.recordShare(ctx, idea.ID, referrer, sharer, emails)
	if err != nil {
		return reach.Stats{}, err
	}

	common.PromCounters[common.SpreadEdgeCreatedTotal].
		WithLabelValues(referrerLabel(referrer)).Add(float64(len(newEdges)))

	// The edges are committed, the stats must not depend on the listeners.
	stats, err := o.aggregator.ComputeStats(ctx, idea.ID)

	event := ShareEvent{Idea: *idea, Referrer: referrer, Edges: newEdges}
	if sharer != nil {
		event.ReferrerName = sharer.DisplayName
	}
	o.notifyShared(ctx, event)

	return stats, err
}

// notifyShared runs the listeners in background on a context which outlives
// the request, bounded by the operation timeout.
func (o *orchestrator) notifyShared(ctx context.Context, event ShareEvent) {
	if len(o.listeners) == 0 {
		return
	}

	listenerCtx, cancel := detach(ctx)
	o.pending.Add(1)
	go func() {
		defer o.pending.Done()
		defer cancel()

		for _, l := range o.listeners {
			l.OnShared(listenerCtx, event)
		}
	}()
}

func (o *orchestrator) Wait() {
	o.pending.Wait()
}

// recordShare activates the sharer's own edge and inserts the new edges in
// one transaction.
func (o *orchestrator) recordShare(
	ctx context.Context, ideaID string, referrer entity.Referrer, sharer *account.Account, emails []string,
) ([]entity.SpreadEdge, error) {
	txCtx := xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(txCtx)

	// Only an edge which existed before this share can become shared.
	if sharer != nil {
		if _, err := o.spreadEdgeRepo.MarkShared(txCtx, ideaID, sharer.ID, sharer.NormalizedEmail()); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot mark the edge of %s as shared: %v", sharer.ID, err)
			return nil, errorx.New(errorx.Unavailable, "Spread ledger is unavailable")
		}
	}

	newEdges, err := o.spreadEdgeRepo.InsertEdges(txCtx, ideaID, referrer, emails)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Another share won the race between the duplicate check and the
			// insert. The unique index rejected the whole batch.
			xcontext.WithRollbackDBTransaction(txCtx)
			return nil, o.raceDuplicateReferral(ctx, ideaID, emails)
		}

		xcontext.Logger(ctx).Errorf("Cannot insert spread edges: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Spread ledger is unavailable")
	}

	if err := xcontext.WithCommitDBTransaction(txCtx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit spread edges: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Spread ledger is unavailable")
	}

	return newEdges, nil
}

func (o *orchestrator) raceDuplicateReferral(ctx context.Context, ideaID string, emails []string) error {
	edges, err := o.spreadEdgeRepo.GetListByIdea(ctx, ideaID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get spread edges: %v", err)
		return errorx.New(errorx.Unavailable, "Spread ledger is unavailable")
	}

	duplicates := duplicatedEmails(edges, emails)
	if len(duplicates) == 0 {
		// The conflicting edges were purged meanwhile, the caller may retry.
		return errorx.New(errorx.Unavailable, "Spread ledger changed during the share")
	}

	return duplicateReferral(duplicates)
}

func (o *orchestrator) StopChain(ctx context.Context, ideaID, requesterID string) error {
	idea, err := o.getOwnedIdea(ctx, ideaID, requesterID)
	if err != nil {
		return err
	}

	if idea.ChainStopped {
		return nil
	}

	if err := o.ideaRepo.SetChainStopped(ctx, ideaID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot stop chain: %v", err)
		return errorx.New(errorx.Unavailable, "Idea store is unavailable")
	}

	common.PromCounters[common.ChainStoppedTotal].WithLabelValues().Inc()
	return nil
}

func (o *orchestrator) DeleteIdeaCascade(ctx context.Context, ideaID, requesterID string) error {
	ctx, cancel := detach(ctx)
	defer cancel()

	idea, err := o.getOwnedIdea(ctx, ideaID, requesterID)
	if err != nil {
		return err
	}

	edges, err := o.spreadEdgeRepo.GetListByIdea(ctx, ideaID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get spread edges: %v", err)
		return errorx.New(errorx.Unavailable, "Spread ledger is unavailable")
	}

	if err := o.spreadEdgeRepo.DeleteByIdea(ctx, ideaID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete spread edges: %v", err)
		return errorx.New(errorx.Unavailable, "Spread ledger is unavailable")
	}

	for _, l := range o.listeners {
		l.OnDeleted(ctx, *idea, edges)
	}

	if err := o.ideaRepo.DeleteByID(ctx, ideaID); err != nil {
		xcontext.Logger(ctx).Warnf("Idea %s is left without spread edges, cannot delete it: %v", ideaID, err)
	}

	return nil
}

func (o *orchestrator) ToggleVisibility(
	ctx context.Context, ideaID, requesterID string, target *bool,
) (*entity.Idea, error) {
	idea, err := o.getOwnedIdea(ctx, ideaID, requesterID)
	if err != nil {
		return nil, err
	}

	switch {
	case target == nil:
		err = o.ideaRepo.ToggleVisibility(ctx, ideaID)
	case *target != idea.IsPublic:
		err = o.ideaRepo.UpdateVisibility(ctx, ideaID, *target)
	default:
		return idea, nil
	}

	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update visibility: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Idea store is unavailable")
	}

	return o.reload(ctx, ideaID)
}

func (o *orchestrator) UpdateAttachments(
	ctx context.Context, ideaID, requesterID string, refs []string,
) (*entity.Idea, error) {
	refs, err := validAttachments(ctx, refs)
	if err != nil {
		return nil, err
	}

	if _, err := o.getOwnedIdea(ctx, ideaID, requesterID); err != nil {
		return nil, err
	}

	if err := o.ideaRepo.UpdateAttachments(ctx, ideaID, refs); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update attachments: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Idea store is unavailable")
	}

	return o.reload(ctx, ideaID)
}

// getOwnedIdea denies a missing idea and an idea of someone else the same
// way.
func (o *orchestrator) getOwnedIdea(ctx context.Context, ideaID, requesterID string) (*entity.Idea, error) {
	idea, err := o.ideaRepo.GetByID(ctx, ideaID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get idea: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Idea store is unavailable")
	}

	if err != nil || requesterID == "" || idea.OwnerID != requesterID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return idea, nil
}

func (o *orchestrator) reload(ctx context.Context, ideaID string) (*entity.Idea, error) {
	idea, err := o.ideaRepo.GetByID(ctx, ideaID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload idea: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Idea store is unavailable")
	}

	return idea, nil
}

func (o *orchestrator) ideaExists(ctx context.Context, ideaID string) bool {
	_, err := o.ideaRepo.GetByID(ctx, ideaID)
	return !errors.Is(err, gorm.ErrRecordNotFound)
}

func (o *orchestrator) partialCreate(ctx context.Context, idea *entity.Idea, ownerEmail string, cause error) error {
	xcontext.Logger(ctx).Errorf(
		"Idea %s of owner %s may exist without the self-entry of %s, reconcile it manually: %v",
		idea.ID, idea.OwnerID, ownerEmail, cause)

	return errorx.New(errorx.PartialCreate, "The idea was created in an inconsistent state").
		WithDetail(map[string]string{"idea_id": idea.ID})
}

func newIdea(ctx context.Context, ownerID string, fields IdeaFields) (*entity.Idea, error) {
	if ownerID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	title := strings.TrimSpace(fields.Title)
	if title == "" {
		return nil, errorx.New(errorx.BadRequest, "Title must not be empty")
	}

	description := strings.TrimSpace(fields.Description)
	if description == "" {
		return nil, errorx.New(errorx.BadRequest, "Description must not be empty")
	}

	category := strings.TrimSpace(fields.Category)
	if category == "" {
		category = xcontext.Configs(ctx).Idea.DefaultCategory
	}

	refs, err := validAttachments(ctx, fields.AttachmentRefs)
	if err != nil {
		return nil, err
	}

	return &entity.Idea{
		Base:           entity.Base{ID: uuid.NewString()},
		OwnerID:        ownerID,
		Title:          title,
		Description:    description,
		Category:       category,
		IsPublic:       fields.IsPublic,
		AttachmentRefs: refs,
	}, nil
}

func validAttachments(ctx context.Context, refs []string) ([]string, error) {
	result := []string{}
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			return nil, errorx.New(errorx.BadRequest, "Attachment path must not be empty")
		}

		result = append(result, ref)
	}

	if limit := xcontext.Configs(ctx).File.MaxAttachments; len(result) > limit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of attachments (%d)", limit)
	}

	return result, nil
}

func duplicatedEmails(edges []entity.SpreadEdge, emails []string) []string {
	existing := map[string]struct{}{}
	for _, e := range edges {
		existing[strings.ToLower(e.ReferredEmail)] = struct{}{}
	}

	duplicates := []string{}
	for _, email := range emails {
		if _, ok := existing[email]; ok {
			duplicates = append(duplicates, email)
		}
	}

	return duplicates
}

func withoutEmail(emails []string, email string) []string {
	result := make([]string, 0, len(emails))
	for _, e := range emails {
		if e != email {
			result = append(result, e)
		}
	}

	return result
}

func duplicateReferral(emails []string) error {
	return errorx.New(errorx.DuplicateReferral, "Some emails were already referred to this idea").
		WithDetail(emails)
}

// detach keeps the operation running when the caller goes away, bounded by
// the configured operation timeout.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), xcontext.Configs(ctx).Idea.OperationTimeout)
}

func visibilityLabel(isPublic bool) string {
	if isPublic {
		return "public"
	}
	return "private"
}

func referrerLabel(r entity.Referrer) string {
	switch r.Kind() {
	case entity.ReferrerAccount:
		return "account"
	case entity.ReferrerAnonymous:
		return "anonymous"
	default:
		return "creator"
	}
}
