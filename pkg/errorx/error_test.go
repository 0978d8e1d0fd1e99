package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIs(t *testing.T) {
	err := New(DuplicateReferral, "Duplicated referral").WithDetail([]string{"bob@x.com"})
	wrapped := fmt.Errorf("share: %w", err)

	require.True(t, Is(wrapped, DuplicateReferral))
	require.False(t, Is(wrapped, ChainStopped))
	require.False(t, Is(errors.New("plain"), DuplicateReferral))
	require.Equal(t, []string{"bob@x.com"}, err.Detail)
}

func TestCodeOf(t *testing.T) {
	require.Equal(t, PermissionDenied, CodeOf(New(PermissionDenied, "Permission denied")))
	require.Equal(t, Unknown.Code, CodeOf(errors.New("plain")))
}

func TestHTTPStatus(t *testing.T) {
	require.Equal(t, http.StatusConflict, ChainStopped.HTTPStatus())
	require.Equal(t, http.StatusForbidden, PermissionDenied.HTTPStatus())
	require.Equal(t, http.StatusServiceUnavailable, Unavailable.HTTPStatus())
	require.Equal(t, http.StatusInternalServerError, Unknown.Code.HTTPStatus())
	require.True(t, Unavailable.Retryable())
	require.False(t, ChainStopped.Retryable())
}
