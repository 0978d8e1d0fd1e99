package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_translateDuplicate(t *testing.T) {
	require.NoError(t, translateDuplicate(nil))
	require.ErrorIs(t, translateDuplicate(gorm.ErrDuplicatedKey), gorm.ErrDuplicatedKey)
	require.ErrorIs(t,
		translateDuplicate(errors.New("UNIQUE constraint failed: spread_edges.idea_id, spread_edges.referred_email")),
		gorm.ErrDuplicatedKey)
	require.ErrorIs(t,
		translateDuplicate(errors.New("Error 1062 (23000): Duplicate entry 'x' for key 'idx_spread_edges_idea_email'")),
		gorm.ErrDuplicatedKey)

	err := errors.New("connection refused")
	require.Equal(t, err, translateDuplicate(err))
}
