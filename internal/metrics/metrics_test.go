package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHelpers(t *testing.T) {
	before := testutil.ToFloat64(Classifications.WithLabelValues("degraded"))
	RecordClassification(true)
	assert.Equal(t, before+1, testutil.ToFloat64(Classifications.WithLabelValues("degraded")))

	before = testutil.ToFloat64(EmailsProcessed.WithLabelValues("skipped"))
	RecordEmailProcessed("skipped")
	assert.Equal(t, before+1, testutil.ToFloat64(EmailsProcessed.WithLabelValues("skipped")))

	before = testutil.ToFloat64(ResponsesSent.WithLabelValues("failed"))
	RecordResponseSent("failed")
	assert.Equal(t, before+1, testutil.ToFloat64(ResponsesSent.WithLabelValues("failed")))

	RecordAICall("classify", errors.New("timeout"), 20*time.Millisecond)
	RecordHTTPRequest("POST", "/api/emails/process", "200", time.Millisecond)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(AICallDuration), 1)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(HTTPRequestDuration), 1)
}
