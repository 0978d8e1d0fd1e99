// Package viewer classifies the relationship between a viewer and an idea.
package viewer

import (
	"strings"

	"github.com/sparkloop/backend/internal/entity"
	"github.com/sparkloop/backend/pkg/account"
	"github.com/sparkloop/backend/pkg/enum"
)

type Relationship string

var (
	Creator         = enum.New(Relationship("CREATOR"))
	ReferredPending = enum.New(Relationship("REFERRED_PENDING"))
	ReferredShared  = enum.New(Relationship("REFERRED_SHARED"))
	PublicVisitor   = enum.New(Relationship("PUBLIC_VISITOR"))
	Unauthenticated = enum.New(Relationship("UNAUTHENTICATED"))
)

// CanView is false only for the denied relationship.
func (r Relationship) CanView() bool {
	return r != Unauthenticated
}

// CanShare reports whether the referral form is offered to the viewer.
func (r Relationship) CanShare() bool {
	return r == Creator || r == ReferredPending || r == PublicVisitor
}

// Viewer is the identity of whoever looks at an idea. The zero value is an
// anonymous visitor.
type Viewer struct {
	AccountID string
	Email     string
}

func FromAccount(acc *account.Account) Viewer {
	if acc == nil {
		return Viewer{}
	}

	return Viewer{AccountID: acc.ID, Email: acc.NormalizedEmail()}
}

func (v Viewer) IsAnonymous() bool {
	return v.AccountID == ""
}

// Classify has no side effect. edges are the spread edges of idea.
func Classify(v Viewer, idea *entity.Idea, edges []entity.SpreadEdge) Relationship {
	if !v.IsAnonymous() && v.AccountID == idea.OwnerID {
		return Creator
	}

	if v.IsAnonymous() && !idea.IsPublic {
		return Unauthenticated
	}

	if edge := findEdge(v, edges); edge != nil {
		if edge.Status == entity.SpreadShared {
			return ReferredShared
		}
		return ReferredPending
	}

	if idea.IsPublic {
		return PublicVisitor
	}

	return Unauthenticated
}

// findEdge matches the edge linked to the viewer's account first, then the
// unlinked edge of the viewer's email.
func findEdge(v Viewer, edges []entity.SpreadEdge) *entity.SpreadEdge {
	if v.IsAnonymous() {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(v.Email))
	var byEmail *entity.SpreadEdge
	for i := range edges {
		e := &edges[i]
		if e.IsSelfEntry() {
			continue
		}

		if e.ReferredAccountID.Valid {
			if e.ReferredAccountID.String == v.AccountID {
				return e
			}
			continue
		}

		if byEmail == nil && email != "" && strings.ToLower(e.ReferredEmail) == email {
			byEmail = e
		}
	}

	return byEmail
}
