package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestStarted(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/v1/titles/", "200"))

	done := RequestStarted()
	assert.Equal(t, float64(1), testutil.ToFloat64(httpInFlight))
	done("GET", "/api/v1/titles/", http.StatusOK)

	assert.Equal(t, float64(0), testutil.ToFloat64(httpInFlight))
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/v1/titles/", "200")))
}

func TestRecordTokenExchange(t *testing.T) {
	before := testutil.ToFloat64(tokenExchanges.WithLabelValues("invalid"))
	RecordTokenExchange("invalid")
	assert.Equal(t, before+1, testutil.ToFloat64(tokenExchanges.WithLabelValues("invalid")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordSignup()

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "yamdb_auth_signups_total")
}
