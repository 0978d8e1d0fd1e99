package entity

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReferrer_Column(t *testing.T) {
	tests := []struct {
		name     string
		referrer Referrer
		column   sql.NullString
	}{
		{
			name:     "creator",
			referrer: CreatorReferrer(),
			column:   sql.NullString{},
		},
		{
			name:     "account",
			referrer: AccountReferrer("user1"),
			column:   sql.NullString{Valid: true, String: "user1"},
		},
		{
			name:     "anonymous",
			referrer: AnonymousReferrer(),
			column:   sql.NullString{Valid: true, String: AnonymousReferrerID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.column, tt.referrer.Column())
			require.Equal(t, tt.referrer, ReferrerFromColumn(tt.column))
		})
	}
}

func TestSpreadEdge_IsSelfEntry(t *testing.T) {
	edge := SpreadEdge{}
	require.True(t, edge.IsSelfEntry())
	require.Equal(t, ReferrerCreator, edge.Referrer().Kind())

	edge.ReferrerID = AccountReferrer("user1").Column()
	require.False(t, edge.IsSelfEntry())
	require.Equal(t, "user1", edge.Referrer().AccountID())
}
