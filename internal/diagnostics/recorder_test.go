package diagnostics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

type RecorderTestSuite struct {
	suite.Suite
	registry *prometheus.Registry
	recorder *Recorder
}

func TestRecorderTestSuite(t *testing.T) {
	suite.Run(t, new(RecorderTestSuite))
}

func (suite *RecorderTestSuite) SetupTest() {
	suite.registry = prometheus.NewRegistry()
	suite.recorder = NewRecorder(suite.registry)
}

func (suite *RecorderTestSuite) TestCounters() {
	suite.recorder.MalformedMessage()
	suite.recorder.MalformedMessage()
	suite.recorder.StreamReconnect()
	suite.recorder.BroadcastFailures(3)
	suite.recorder.BroadcastFailures(0)

	suite.Equal(2.0, testutil.ToFloat64(suite.recorder.malformedMessages))
	suite.Equal(1.0, testutil.ToFloat64(suite.recorder.streamReconnects))
	suite.Equal(3.0, testutil.ToFloat64(suite.recorder.broadcastFailures))
}

func (suite *RecorderTestSuite) TestLabelledCounters() {
	suite.recorder.UpstreamError("account")
	suite.recorder.UpstreamError("account")
	suite.recorder.UpstreamError("trades")
	suite.recorder.SkippedRecord("trade")
	suite.recorder.Event("heartbeat")

	suite.Equal(2.0, testutil.ToFloat64(suite.recorder.upstreamErrors.WithLabelValues("account")))
	suite.Equal(1.0, testutil.ToFloat64(suite.recorder.upstreamErrors.WithLabelValues("trades")))
	suite.Equal(1.0, testutil.ToFloat64(suite.recorder.skippedRecords.WithLabelValues("trade")))
	suite.Equal(1.0, testutil.ToFloat64(suite.recorder.events.WithLabelValues("heartbeat")))
}

func (suite *RecorderTestSuite) TestObserversGauge() {
	suite.recorder.SetObservers(4)
	suite.Equal(4.0, testutil.ToFloat64(suite.recorder.observers))

	suite.recorder.SetObservers(1)
	suite.Equal(1.0, testutil.ToFloat64(suite.recorder.observers))
}

func (suite *RecorderTestSuite) TestRegisteredOnRegistry() {
	suite.recorder.MalformedMessage()

	families, err := suite.registry.Gather()
	suite.Require().NoError(err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}

	suite.Contains(names, "dashboard_malformed_messages_total")
	suite.Contains(names, "dashboard_observers")
}

func (suite *RecorderTestSuite) TestNilRecorderIsNoop() {
	var r *Recorder

	suite.NotPanics(func() {
		r.MalformedMessage()
		r.StreamReconnect()
		r.UpstreamError("account")
		r.SkippedRecord("trade")
		r.BroadcastFailures(1)
		r.Event("heartbeat")
		r.SetObservers(2)
	})
}
