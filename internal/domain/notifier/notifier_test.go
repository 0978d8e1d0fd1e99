package notifier

import (
	"errors"
	"strings"
	"testing"

	"github.com/sparkloop/backend/internal/domain/chain"
	"github.com/sparkloop/backend/internal/entity"
	"github.com/sparkloop/backend/mocks"
	"github.com/sparkloop/backend/pkg/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReferralLink(t *testing.T) {
	require.Equal(t,
		"https://sparkloop.test/idea/idea1?from=alice",
		ReferralLink("https://sparkloop.test/", "idea1", entity.AccountReferrer("alice")))
	require.Equal(t,
		"https://sparkloop.test/idea/idea1?from=anonymous",
		ReferralLink("https://sparkloop.test", "idea1", entity.AnonymousReferrer()))
}

func Test_notifier_OnShared(t *testing.T) {
	ctx := testutil.MockContext()
	sender := &mocks.Sender{}
	sender.On("IsConfigured").Return(true)
	sender.On("SendHTML", mock.Anything, []string{"bob@x.com"}, "Alice shared an idea with you", mock.MatchedBy(
		func(body string) bool {
			return strings.Contains(body, "https://sparkloop.test/idea/public_idea?from=alice") &&
				strings.Contains(body, "Community garden")
		},
	)).Return(nil)
	sender.On("SendHTML", mock.Anything, []string{"carol@x.com"}, mock.Anything, mock.Anything).
		Return(errors.New("mailbox unavailable"))

	n := New(sender)
	n.OnShared(ctx, chain.ShareEvent{
		Idea:         testutil.PublicIdea,
		Referrer:     entity.AccountReferrer(testutil.Alice.ID),
		ReferrerName: testutil.Alice.DisplayName,
		Edges: []entity.SpreadEdge{
			{ReferredEmail: "bob@x.com"},
			{ReferredEmail: "carol@x.com"},
		},
	})

	sender.AssertNumberOfCalls(t, "SendHTML", 2)
}

func Test_notifier_NotConfigured(t *testing.T) {
	sender := &mocks.Sender{}
	sender.On("IsConfigured").Return(false)

	New(sender).OnShared(testutil.MockContext(), chain.ShareEvent{
		Idea:  testutil.PublicIdea,
		Edges: []entity.SpreadEdge{{ReferredEmail: "bob@x.com"}},
	})

	sender.AssertNotCalled(t, "SendHTML", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func Test_excerpt(t *testing.T) {
	require.Equal(t, "short", excerpt("short", 10))
	require.Equal(t, "héllo...", excerpt("héllo wörld", 5))
}
