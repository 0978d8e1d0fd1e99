package prometheus

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewHandler(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "share_test_total",
		Help: "Count of test shares",
	}, []string{"referrer"})
	counter.WithLabelValues("anonymous").Add(2)

	server := httptest.NewServer(NewHandler(counter))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `share_test_total{referrer="anonymous"} 2`)
	require.Contains(t, string(body), "go_goroutines")
}
