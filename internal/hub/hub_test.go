package hub

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rxtech-lab/argo-dashboard/internal/diagnostics"
	"github.com/rxtech-lab/argo-dashboard/internal/logger"
	"github.com/rxtech-lab/argo-dashboard/internal/types"
	"github.com/rxtech-lab/argo-dashboard/mocks"
	"github.com/rxtech-lab/argo-dashboard/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// recordingObserver keeps every payload it receives.
type recordingObserver struct {
	id       string
	mu       sync.Mutex
	payloads [][]byte
	fail     bool
}

func newRecordingObserver(id string) *recordingObserver {
	return &recordingObserver{id: id}
}

func (o *recordingObserver) ID() string {
	return o.id
}

func (o *recordingObserver) Send(_ context.Context, payload []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.fail {
		return stderrors.New("broken pipe")
	}

	o.payloads = append(o.payloads, payload)

	return nil
}

func (o *recordingObserver) received() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return len(o.payloads)
}

type HubTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller
	hub  *Hub
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubTestSuite))
}

func (suite *HubTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.hub = NewHub(logger.NewNopLogger(), diagnostics.NewRecorder(prometheus.NewRegistry()))
}

func (suite *HubTestSuite) TestBroadcastDeliversToEveryObserver() {
	first := newRecordingObserver("a")
	second := newRecordingObserver("b")
	suite.hub.Add(first)
	suite.hub.Add(second)

	report, err := suite.hub.Broadcast(context.Background(), types.NewHeartbeatEvent(1_700_000_000))
	suite.Require().NoError(err)
	suite.Equal(Report{Attempted: 2, Delivered: 2, Removed: 0}, report)

	suite.Require().Equal(1, first.received())
	suite.Equal(first.payloads[0], second.payloads[0], "payload is encoded once and shared")

	var decoded map[string]any
	suite.Require().NoError(json.Unmarshal(first.payloads[0], &decoded))
	suite.Equal("heartbeat", decoded["type"])
	suite.Equal(1_700_000_000.0, decoded["ts"])
}

func (suite *HubTestSuite) TestFailingObserverIsRemoved() {
	healthy := newRecordingObserver("healthy")
	suite.hub.Add(healthy)

	broken := mocks.NewMockObserver(suite.ctrl)
	broken.EXPECT().ID().Return("broken").AnyTimes()
	broken.EXPECT().Send(gomock.Any(), gomock.Any()).Return(stderrors.New("write: connection reset")).Times(1)
	suite.hub.Add(broken)

	report, err := suite.hub.Broadcast(context.Background(), types.NewHeartbeatEvent(1))
	suite.Require().NoError(err)
	suite.Equal(Report{Attempted: 2, Delivered: 1, Removed: 1}, report)
	suite.Equal(1, suite.hub.Len())
	suite.Equal(1, healthy.received())

	// the removed observer is not attempted again (Send expected once)
	report, err = suite.hub.Broadcast(context.Background(), types.NewHeartbeatEvent(2))
	suite.Require().NoError(err)
	suite.Equal(Report{Attempted: 1, Delivered: 1, Removed: 0}, report)
	suite.Equal(2, healthy.received())
}

func (suite *HubTestSuite) TestEncodeFailureDeliversNothing() {
	observer := mocks.NewMockObserver(suite.ctrl)
	observer.EXPECT().ID().Return("o").AnyTimes()
	observer.EXPECT().Send(gomock.Any(), gomock.Any()).Times(0)
	suite.hub.Add(observer)

	_, err := suite.hub.Broadcast(context.Background(), types.NewPriceUpdateEvent(types.QuoteEvent{Symbol: "BTCUSDT", Price: math.NaN()}))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEncodeFailed))
	suite.Equal(1, suite.hub.Len())
}

func (suite *HubTestSuite) TestBroadcastWithoutObservers() {
	report, err := suite.hub.Broadcast(context.Background(), types.NewHeartbeatEvent(1))
	suite.NoError(err)
	suite.Equal(Report{}, report)
}

func (suite *HubTestSuite) TestRemove() {
	observer := newRecordingObserver("a")
	suite.hub.Add(observer)
	suite.hub.Remove(observer)
	suite.hub.Remove(observer)
	suite.Equal(0, suite.hub.Len())

	_, err := suite.hub.Broadcast(context.Background(), types.NewHeartbeatEvent(1))
	suite.NoError(err)
	suite.Equal(0, observer.received())
}

func (suite *HubTestSuite) TestAddSameIDReplaces() {
	old := newRecordingObserver("same")
	replacement := newRecordingObserver("same")
	suite.hub.Add(old)
	suite.hub.Add(replacement)
	suite.Equal(1, suite.hub.Len())

	_, err := suite.hub.Broadcast(context.Background(), types.NewHeartbeatEvent(1))
	suite.NoError(err)
	suite.Equal(0, old.received())
	suite.Equal(1, replacement.received())
}

func (suite *HubTestSuite) TestConcurrentMembershipAndBroadcast() {
	const (
		producers = 8
		joiners   = 8
		rounds    = 50
	)

	stable := newRecordingObserver("stable")
	suite.hub.Add(stable)

	var wg sync.WaitGroup

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				report, err := suite.hub.Broadcast(context.Background(), types.NewHeartbeatEvent(int64(i)))
				suite.NoError(err)
				suite.Equal(report.Attempted, report.Delivered+report.Removed)
			}
		}()
	}

	for j := 0; j < joiners; j++ {
		wg.Add(1)
		go func(j int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				observer := newRecordingObserver(fmt.Sprintf("joiner-%d-%d", j, i))
				observer.fail = i%3 == 0
				suite.hub.Add(observer)
				if i%2 == 0 {
					suite.hub.Remove(observer)
				}
			}
		}(j)
	}

	wg.Wait()

	suite.Equal(producers*rounds, stable.received())

	// failing joiners are gone after one more broadcast
	_, err := suite.hub.Broadcast(context.Background(), types.NewHeartbeatEvent(0))
	suite.NoError(err)

	report, err := suite.hub.Broadcast(context.Background(), types.NewHeartbeatEvent(0))
	suite.NoError(err)
	suite.Equal(0, report.Removed)
	suite.Equal(report.Attempted, suite.hub.Len())
}
