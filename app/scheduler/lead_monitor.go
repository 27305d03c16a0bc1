// Package scheduler
package scheduler

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	businessflow "github.com/leadkit/leadkit/business_flow"

	"github.com/leadkit/leadkit/app/dto"
)

// Monitor states
const (
	MonitorStateIdle       = "idle"
	MonitorStateMonitoring = "monitoring"
)

// LeadMonitorScheduler runs lead ingestion cycles on a fixed interval and
// accumulates the captured leads across cycles. At most one monitoring run is
// active at a time; starting a new run replaces the accumulated snapshot.
type LeadMonitorScheduler struct {
	flow     businessflow.LeadMonitorFlow
	logger   *log.Logger
	interval time.Duration

	mu      sync.Mutex
	state   string
	topics  []string
	filters []dto.FilterCriterion
	leads   []dto.LeadItem
	seen    map[string]bool
	cancel  context.CancelFunc
}

func NewLeadMonitorScheduler(flow businessflow.LeadMonitorFlow, logger *log.Logger, interval time.Duration) *LeadMonitorScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = log.Default()
	}

	return &LeadMonitorScheduler{
		flow:     flow,
		logger:   logger,
		interval: interval,
		state:    MonitorStateIdle,
		seen:     make(map[string]bool),
	}
}

// Start begins a monitoring run for the given topics: one cycle immediately,
// then one per interval until Stop or parent cancellation. A run that is
// already active is an error; the caller must stop it first.
func (s *LeadMonitorScheduler) Start(parent context.Context, topics []string, filters []dto.FilterCriterion) error {
	topics = uniqueTopics(topics)
	if len(topics) == 0 {
		return businessflow.ErrTopicsRequired
	}

	s.mu.Lock()
	if s.state == MonitorStateMonitoring {
		s.mu.Unlock()
		return businessflow.ErrMonitorAlreadyActive
	}

	ctx, cancel := context.WithCancel(parent)
	s.state = MonitorStateMonitoring
	s.topics = topics
	s.filters = append([]dto.FilterCriterion(nil), filters...)
	s.leads = nil
	s.seen = make(map[string]bool)
	s.cancel = cancel
	s.mu.Unlock()

	// The cancellable context only stops the ticker loop. Cycles run against
	// the parent, so a cycle in flight when Stop fires finishes and merges.
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce(parent)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(parent)
			}
		}
	}()

	return nil
}

// Stop ends the active monitoring run. The accumulated snapshot stays
// readable until the next Start; a cycle already in flight finishes and
// merges its results.
func (s *LeadMonitorScheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != MonitorStateMonitoring {
		return businessflow.ErrMonitorNotActive
	}

	s.cancel()
	s.cancel = nil
	s.state = MonitorStateIdle
	return nil
}

// Shutdown cancels any active run without touching the snapshot
func (s *LeadMonitorScheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.state = MonitorStateIdle
}

// Status returns the current state and the merged lead snapshot
func (s *LeadMonitorScheduler) Status() *dto.MonitorStatusResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads := append([]dto.LeadItem(nil), s.leads...)
	topics := append([]string(nil), s.topics...)

	message := "Lead monitor is idle"
	if s.state == MonitorStateMonitoring {
		message = "Lead monitor is active"
	}

	return &dto.MonitorStatusResponse{
		State:   s.state,
		Topics:  topics,
		Leads:   leads,
		Count:   len(leads),
		Message: message,
	}
}

func (s *LeadMonitorScheduler) runOnce(ctx context.Context) {
	s.mu.Lock()
	request := &dto.MonitorLeadsRequest{
		Topics:  append([]string(nil), s.topics...),
		Filters: append([]dto.FilterCriterion(nil), s.filters...),
	}
	s.mu.Unlock()

	cycleCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	resp, err := s.flow.MonitorLeads(cycleCtx, request, businessflow.NewClientMetadata("scheduler", "lead-monitor"))
	if err != nil {
		s.logger.Printf("lead monitor: cycle failed: %v", err)
		return
	}

	s.merge(resp.Leads)
}

// merge prepends leads the snapshot has not seen yet, newest cycle first.
// The first capture of an ID wins; later cycles never replace it, so merging
// the same cycle twice is a no-op.
func (s *LeadMonitorScheduler) merge(incoming []dto.LeadItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := make([]dto.LeadItem, 0, len(incoming))
	for _, lead := range incoming {
		if s.seen[lead.ID] {
			continue
		}
		s.seen[lead.ID] = true
		fresh = append(fresh, lead)
	}
	if len(fresh) == 0 {
		return
	}

	s.leads = append(fresh, s.leads...)
}

// uniqueTopics trims entries, drops empties, and keeps the first occurrence
// of each topic.
func uniqueTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	seen := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
