package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	require.Equal(t, "ok", Outcome(nil))
	require.Equal(t, "not_found", Outcome(entities.ErrApplicationNotFound))
	require.Equal(t, "forbidden", Outcome(entities.ErrNotOwner))
	require.Equal(t, "conflict", Outcome(entities.ErrApplicationSuperseded))
	require.Equal(t, "invalid", Outcome(entities.ErrInvalidTeammateCount))
	require.Equal(t, "internal", Outcome(errors.New("db down")))
}

func TestRecordOperation(t *testing.T) {
	before := testutil.ToFloat64(workflowOperations.WithLabelValues("approve", "conflict"))
	RecordOperation("approve", entities.ErrNotReady)
	require.Equal(t, before+1, testutil.ToFloat64(workflowOperations.WithLabelValues("approve", "conflict")))
}

func TestHandler(t *testing.T) {
	RecordJob("sweep", 10*time.Millisecond, true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "project_connect_worker_job_runs_total"))
}
