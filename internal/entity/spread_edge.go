package entity

import (
	"database/sql"
	"time"

	"github.com/sparkloop/backend/pkg/enum"
)

type SpreadStatus string

var (
	SpreadPending = enum.New(SpreadStatus("pending"))
	SpreadShared  = enum.New(SpreadStatus("shared"))
)

// AnonymousReferrerID is the stored referrer of edges recorded by a visitor
// without an account.
const AnonymousReferrerID = "anonymous"

// SpreadEdge is one row of the spread ledger. Edges are never soft-deleted,
// the unique index must see every row of an idea.
type SpreadEdge struct {
	ID        int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	IdeaID string `gorm:"uniqueIndex:idx_spread_edges_idea_email;not null"`
	Idea   Idea   `gorm:"foreignKey:IdeaID"`

	// ReferrerID is null for the creator's self-entry.
	ReferrerID    sql.NullString `gorm:"index"`
	ReferredEmail string         `gorm:"uniqueIndex:idx_spread_edges_idea_email;index;not null"`

	// ReferredAccountID is set once the referred person shares the idea
	// onward with an account.
	ReferredAccountID sql.NullString `gorm:"index"`

	Status SpreadStatus `gorm:"not null"`
}

type ReferrerKind int

const (
	ReferrerCreator ReferrerKind = iota
	ReferrerAccount
	ReferrerAnonymous
)

// Referrer is who recorded a spread edge: the creator of the idea (self-entry),
// an account, or an anonymous visitor.
type Referrer struct {
	kind      ReferrerKind
	accountID string
}

func CreatorReferrer() Referrer {
	return Referrer{kind: ReferrerCreator}
}

func AccountReferrer(accountID string) Referrer {
	return Referrer{kind: ReferrerAccount, accountID: accountID}
}

func AnonymousReferrer() Referrer {
	return Referrer{kind: ReferrerAnonymous}
}

// ReferrerFromColumn is the inverse of Referrer.Column.
func ReferrerFromColumn(col sql.NullString) Referrer {
	switch {
	case !col.Valid:
		return CreatorReferrer()
	case col.String == AnonymousReferrerID:
		return AnonymousReferrer()
	default:
		return AccountReferrer(col.String)
	}
}

func (r Referrer) Kind() ReferrerKind {
	return r.kind
}

// AccountID is empty unless the kind is ReferrerAccount.
func (r Referrer) AccountID() string {
	return r.accountID
}

func (r Referrer) Column() sql.NullString {
	switch r.kind {
	case ReferrerAccount:
		return sql.NullString{Valid: true, String: r.accountID}
	case ReferrerAnonymous:
		return sql.NullString{Valid: true, String: AnonymousReferrerID}
	default:
		return sql.NullString{}
	}
}

func (r Referrer) String() string {
	switch r.kind {
	case ReferrerAccount:
		return r.accountID
	case ReferrerAnonymous:
		return AnonymousReferrerID
	default:
		return "creator"
	}
}

func (e *SpreadEdge) Referrer() Referrer {
	return ReferrerFromColumn(e.ReferrerID)
}

func (e *SpreadEdge) IsSelfEntry() bool {
	return !e.ReferrerID.Valid
}
