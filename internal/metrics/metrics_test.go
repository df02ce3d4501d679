package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPoints(t *testing.T) {
	before := testutil.ToFloat64(PointsAwarded.WithLabelValues("watch"))

	RecordPoints("watch", 10)
	RecordPoints("watch", 0)
	RecordPoints("watch", -3)

	after := testutil.ToFloat64(PointsAwarded.WithLabelValues("watch"))
	assert.Equal(t, 10.0, after-before)
}

func TestRecordAchievement(t *testing.T) {
	before := testutil.ToFloat64(AchievementsUnlocked.WithLabelValues("watched-5"))
	RecordAchievement("watched-5")
	after := testutil.ToFloat64(AchievementsUnlocked.WithLabelValues("watched-5"))
	assert.Equal(t, 1.0, after-before)
}

func TestRecordGuardRejection(t *testing.T) {
	before := testutil.ToFloat64(GuardRejections.WithLabelValues("mark_watched"))
	RecordGuardRejection("mark_watched")
	RecordGuardRejection("mark_watched")
	after := testutil.ToFloat64(GuardRejections.WithLabelValues("mark_watched"))
	assert.Equal(t, 2.0, after-before)
}

func TestRecordPersistFailure(t *testing.T) {
	before := testutil.ToFloat64(PersistFailures.WithLabelValues("save"))
	RecordPersistFailure("save")
	after := testutil.ToFloat64(PersistFailures.WithLabelValues("save"))
	assert.Equal(t, 1.0, after-before)
}

func TestRecordCatalogRequest(t *testing.T) {
	before := testutil.ToFloat64(CatalogRequests.WithLabelValues("discover", "ok"))
	RecordCatalogRequest("discover", "ok", 25*time.Millisecond)
	after := testutil.ToFloat64(CatalogRequests.WithLabelValues("discover", "ok"))
	assert.Equal(t, 1.0, after-before)
}

func TestSetCircuitState(t *testing.T) {
	SetCircuitState(2)
	assert.Equal(t, 2.0, testutil.ToFloat64(CatalogCircuitState))
	SetCircuitState(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(CatalogCircuitState))
}
