package engine

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/trackside/internal/config"
	"github.com/yourusername/trackside/internal/funds"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadWithDefaults("testdata/nonexistent.yaml")
	require.NoError(t, err)
	require.NoError(t, config.Validate(cfg))
	return cfg
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// recordingSink captures notification side effects for assertions
type recordingSink struct {
	scripPenalties []int
	notableSeeds   []string
	notableMsgs    []string
	achievements   []string
}

func (s *recordingSink) OnSubstituteCurrencyUsed(penalty int) {
	s.scripPenalties = append(s.scripPenalties, penalty)
}

func (s *recordingSink) OnNotableWin(seedNPC, message string) {
	s.notableSeeds = append(s.notableSeeds, seedNPC)
	s.notableMsgs = append(s.notableMsgs, message)
}

func (s *recordingSink) OnAchievementProgress(tag string) {
	s.achievements = append(s.achievements, tag)
}

// stubMarket toggles the stake ceiling event
type stubMarket struct {
	raised bool
}

func (m *stubMarket) IsStakeCeilingRaised() bool { return m.raised }

// MockReputationSink is a mock implementation of ReputationSink
type MockReputationSink struct {
	mock.Mock
}

func (m *MockReputationSink) OnSubstituteCurrencyUsed(penalty int) {
	m.Called(penalty)
}

func (m *MockReputationSink) OnNotableWin(seedNPC, message string) {
	m.Called(seedNPC, message)
}

func (m *MockReputationSink) OnAchievementProgress(tag string) {
	m.Called(tag)
}

type testRig struct {
	engine *Engine
	clock  *ManualClock
	purse  *funds.Purse
	market *stubMarket
	sink   *recordingSink
}

// newTestRig builds an engine at day 0 before opening, with the card built
func newTestRig(t *testing.T, primary, substitute int) *testRig {
	t.Helper()
	cfg := testConfig(t)
	clock := &ManualClock{Day: 0, Hour: 0}
	purse := funds.NewPurse(primary, substitute)
	market := &stubMarket{}
	sink := &recordingSink{}

	eng := New(cfg, clock, purse, market, sink, quietLogger())
	eng.SetSessionSeed(99)
	eng.BuildOrRefreshDaySchedule()

	return &testRig{engine: eng, clock: clock, purse: purse, market: market, sink: sink}
}
