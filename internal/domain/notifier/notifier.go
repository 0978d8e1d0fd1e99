// Package notifier mails every new referral target of a share.
package notifier

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sparkloop/backend/internal/common"
	"github.com/sparkloop/backend/internal/domain/chain"
	"github.com/sparkloop/backend/internal/entity"
	"github.com/sparkloop/backend/pkg/mailer"
	"github.com/sparkloop/backend/pkg/xcontext"
)

const (
	descriptionExcerptLength = 280
	sendTimeout              = 5 * time.Second
)

type notifier struct {
	sender mailer.Sender
}

func New(sender mailer.Sender) *notifier {
	return &notifier{sender: sender}
}

// OnShared never fails the share, undelivered mails are only logged.
func (n *notifier) OnShared(ctx context.Context, event chain.ShareEvent) {
	if !n.sender.IsConfigured() {
		return
	}

	cfg := xcontext.Configs(ctx)
	data := referralData{
		AppName:      cfg.Mail.FromName,
		ReferrerName: event.ReferrerName,
		Title:        event.Idea.Title,
		Description:  excerpt(event.Idea.Description, descriptionExcerptLength),
		Link:         ReferralLink(cfg.Idea.PublicURL, event.Idea.ID, event.Referrer),
	}
	if data.ReferrerName == "" {
		data.ReferrerName = "Someone"
	}

	var body bytes.Buffer
	if err := referralTemplate.Execute(&body, data); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot render referral mail: %v", err)
		return
	}

	subject := fmt.Sprintf("%s shared an idea with you", data.ReferrerName)
	for _, edge := range event.Edges {
		sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
		err := n.sender.SendHTML(sendCtx, []string{edge.ReferredEmail}, subject, body.String())
		cancel()

		if err != nil {
			common.PromCounters[common.NotificationFailureTotal].WithLabelValues().Inc()
			xcontext.Logger(ctx).Warnf("Cannot send referral mail of idea %s to %s: %v",
				event.Idea.ID, edge.ReferredEmail, err)
		}
	}
}

func (n *notifier) OnDeleted(context.Context, entity.Idea, []entity.SpreadEdge) {}

// ReferralLink is the page a referred person lands on.
func ReferralLink(publicURL, ideaID string, referrer entity.Referrer) string {
	query := url.Values{"from": []string{referrer.String()}}
	return fmt.Sprintf("%s/idea/%s?%s", strings.TrimRight(publicURL, "/"), url.PathEscape(ideaID), query.Encode())
}

func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	return string([]rune(s)[:n]) + "..."
}
