package metrics

import (
	"sync/atomic"
	"time"
)

// SessionMetric summarises the actions a session has processed.
type SessionMetric struct {
	Duration  time.Duration
	Accepted  int
	Rejected  int
	Failed    int // persistence or transport failures, not rule rejections
	Conquests int
}

type Collector interface {
	Start()
	AddAccepted()
	AddRejected()
	AddFailed()
	AddConquest()
	Complete() SessionMetric
}

type collector struct {
	startTime time.Time
	accepted  atomic.Int32
	rejected  atomic.Int32
	failed    atomic.Int32
	conquests atomic.Int32
}

func NewCollector() Collector {
	return &collector{startTime: time.Now()}
}

func (m *collector) Start() {
	m.startTime = time.Now()
}

func (m *collector) AddAccepted() {
	m.accepted.Add(1)
}

func (m *collector) AddRejected() {
	m.rejected.Add(1)
}

func (m *collector) AddFailed() {
	m.failed.Add(1)
}

func (m *collector) AddConquest() {
	m.conquests.Add(1)
}

func (m *collector) Complete() SessionMetric {
	return SessionMetric{
		Duration:  time.Since(m.startTime),
		Accepted:  int(m.accepted.Load()),
		Rejected:  int(m.rejected.Load()),
		Failed:    int(m.failed.Load()),
		Conquests: int(m.conquests.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                  {}
func (m *dummyCollector) AddAccepted()            {}
func (m *dummyCollector) AddRejected()            {}
func (m *dummyCollector) AddFailed()              {}
func (m *dummyCollector) AddConquest()            {}
func (m *dummyCollector) Complete() SessionMetric { return SessionMetric{} }
