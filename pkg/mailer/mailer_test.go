package mailer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sparkloop/backend/config"
	"github.com/stretchr/testify/require"
)

func TestSMTPSender_NotConfigured(t *testing.T) {
	s := NewSMTPSender(config.MailConfigs{Host: "smtp.example.com"})
	require.False(t, s.IsConfigured())
	require.ErrorIs(t, s.SendHTML(context.Background(), []string{"bob@x.com"}, "hi", "<p>hi</p>"), ErrNotConfigured)
}

func TestSMTPSender_From(t *testing.T) {
	s := NewSMTPSender(config.MailConfigs{From: "noreply@x.com", FromName: "SparkLoop"})
	require.Equal(t, "SparkLoop <noreply@x.com>", s.from())

	s = NewSMTPSender(config.MailConfigs{From: "noreply@x.com"})
	require.Equal(t, "noreply@x.com", s.from())
}

func TestBuildMessage(t *testing.T) {
	date := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	msg := string(BuildMessage("a@x.com", []string{"b@x.com", "c@x.com"}, "Subject", "<b>body</b>", date))

	require.True(t, strings.HasPrefix(msg, "To: b@x.com, c@x.com\r\n"))
	require.Contains(t, msg, "Subject: Subject\r\n")
	require.Contains(t, msg, "Content-Type: text/html; charset=UTF-8\r\n\r\n<b>body</b>\r\n")
	require.True(t, strings.HasSuffix(msg, "--boundary-sparkloop--\r\n"))
}

func TestBuildMessage_Headers(t *testing.T) {
	date := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	msg := string(BuildMessage("a@x.com", []string{"b@x.com"},
		"Eve\r\nBcc: victim@y.com shared an idea with you", "<b>body</b>", date))

	headers, _, _ := strings.Cut(msg, "\r\n\r\n")
	lines := strings.Split(headers, "\r\n")
	require.Equal(t, []string{"To", "From", "Subject", "Date", "MIME-Version", "Content-Type"}, headerNames(lines))
	require.Contains(t, lines, "Subject: EveBcc: victim@y.com shared an idea with you")

	msg = string(BuildMessage("a@x.com", []string{"b@x.com"}, "Zoë shared an idea with you", "<b>body</b>", date))
	require.Contains(t, msg, "Subject: =?utf-8?q?Zo=C3=AB_shared_an_idea_with_you?=\r\n")
}

func headerNames(lines []string) []string {
	names := []string{}
	for _, line := range lines {
		name, _, _ := strings.Cut(line, ":")
		names = append(names, name)
	}
	return names
}
