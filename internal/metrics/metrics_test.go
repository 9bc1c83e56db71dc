package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample returns the value of the named series whose labels include want.
func sample(t *testing.T, name string, want map[string]string) float64 {
	t.Helper()
	families, err := Registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if got[k] != v {
					continue next
				}
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			}
		}
	}
	return 0
}

func TestRecordAuthDecision(t *testing.T) {
	labels := map[string]string{"gate": "authenticate", "outcome": "revoked"}
	before := sample(t, "fitness_records_auth_decisions_total", labels)
	RecordAuthDecision("authenticate", "revoked")
	assert.Equal(t, before+1, sample(t, "fitness_records_auth_decisions_total", labels))
}

func TestRequestStartedTracksInFlight(t *testing.T) {
	base := sample(t, "fitness_records_http_inflight_requests", nil)
	done := RequestStarted()
	assert.Equal(t, base+1, sample(t, "fitness_records_http_inflight_requests", nil))
	done("get", "", http.StatusNotFound)
	assert.Equal(t, base, sample(t, "fitness_records_http_inflight_requests", nil))

	labels := map[string]string{"method": "GET", "route": "unmatched", "status": "404"}
	assert.GreaterOrEqual(t, sample(t, "fitness_records_http_requests_total", labels), 1.0)
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordAdvisory("meal")
	RecordRevocation()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fitness_records_recommend_advisories_total")
	assert.Contains(t, rec.Body.String(), "fitness_records_auth_revocations_total")
}
