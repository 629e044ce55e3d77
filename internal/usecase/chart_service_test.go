package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"TrueArk/internal/domain/models"
	"TrueArk/pkg/cache"
)

type fakeStore struct {
	stored  []*models.StoredChart
	byID    map[string]*models.StoredChart
	failure error
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: map[string]*models.StoredChart{}}
}

func (s *fakeStore) Init(context.Context) error { return nil }

func (s *fakeStore) Store(_ context.Context, c *models.StoredChart) error {
	if s.failure != nil {
		return s.failure
	}
	s.stored = append(s.stored, c)
	s.byID[c.ID] = c
	return nil
}

func (s *fakeStore) Get(_ context.Context, id string) (*models.StoredChart, error) {
	return s.byID[id], nil
}

func (s *fakeStore) List(_ context.Context, entityID, entityType string, limit int) ([]*models.StoredChart, error) {
	var out []*models.StoredChart
	for i := len(s.stored) - 1; i >= 0 && len(out) < limit; i-- {
		c := s.stored[i]
		if entityID != "" && c.EntityID != entityID {
			continue
		}
		if entityType != "" && c.EntityType != entityType {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *fakeStore) Health(context.Context) error { return nil }
func (s *fakeStore) Close() error                 { return nil }

type fakePublisher struct {
	events  []*models.ChartComputedEvent
	failure error
}

func (p *fakePublisher) Publish(_ context.Context, ev *models.ChartComputedEvent) error {
	if p.failure != nil {
		return p.failure
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

// fakeCache stores JSON blobs like both real backends do.
type fakeCache struct {
	data map[string][]byte
	hits int
	sets int
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	c.sets++
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	b, ok := c.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	c.hits++
	return json.Unmarshal(b, dest)
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}

func (c *fakeCache) Close() error { return nil }

func serviceRequest() *models.ChartRequest {
	return &models.ChartRequest{
		DatetimeUTC: "1977-09-05T17:24:00Z",
		Latitude:    40.7128,
		Longitude:   -74.006,
		HouseSystem: "W",
		Zodiac:      "tropical",
	}
}

func TestServiceComputeCachesResult(t *testing.T) {
	eph := newFakeEphemeris()
	fc := newFakeCache()
	svc := NewChartService(NewChartComputer(eph, nil), nil, nil, fc, time.Hour, nil, nil)

	first, err := svc.Compute(context.Background(), serviceRequest())
	if err != nil {
		t.Fatalf("first compute: %v", err)
	}
	if fc.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", fc.sets)
	}
	callsAfterFirst := eph.calls

	second, err := svc.Compute(context.Background(), serviceRequest())
	if err != nil {
		t.Fatalf("second compute: %v", err)
	}
	if eph.calls != callsAfterFirst {
		t.Errorf("second compute hit the provider: calls %d -> %d", callsAfterFirst, eph.calls)
	}
	if fc.hits != 1 {
		t.Errorf("cache hits = %d, want 1", fc.hits)
	}
	if second.Angles.Ascendant.Sign != first.Angles.Ascendant.Sign {
		t.Errorf("cached chart diverged: asc %s vs %s",
			second.Angles.Ascendant.Sign, first.Angles.Ascendant.Sign)
	}
}

func TestServiceComputeDoesNotCacheFailures(t *testing.T) {
	eph := newFakeEphemeris()
	eph.positionErr = &models.EphemerisError{Op: "position", Detail: "boom"}
	fc := newFakeCache()
	svc := NewChartService(NewChartComputer(eph, nil), nil, nil, fc, time.Hour, nil, nil)

	if _, err := svc.Compute(context.Background(), serviceRequest()); err == nil {
		t.Fatal("expected compute error")
	}
	if fc.sets != 0 {
		t.Errorf("failure was cached: sets = %d", fc.sets)
	}
}

func TestServiceComputeAndStore(t *testing.T) {
	eph := newFakeEphemeris()
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := NewChartService(NewChartComputer(eph, nil), store, pub, nil, 0, nil, nil)

	req := &models.StoreChartRequest{
		ChartRequest: *serviceRequest(),
		EntityID:     "user-42",
		EntityType:   "user",
	}
	stored, err := svc.ComputeAndStore(context.Background(), req)
	if err != nil {
		t.Fatalf("ComputeAndStore: %v", err)
	}
	if stored.ID == "" {
		t.Error("stored chart has empty id")
	}
	if stored.EntityID != "user-42" || stored.EntityType != "user" {
		t.Errorf("entity link lost: %q/%q", stored.EntityID, stored.EntityType)
	}
	if len(store.stored) != 1 {
		t.Fatalf("store has %d charts, want 1", len(store.stored))
	}
	if len(pub.events) != 1 {
		t.Fatalf("publisher got %d events, want 1", len(pub.events))
	}
	ev := pub.events[0]
	if ev.ChartID != stored.ID {
		t.Errorf("event chart id %q != stored id %q", ev.ChartID, stored.ID)
	}
	if ev.Mode != stored.Mode || ev.JulianDay != stored.JulianDay {
		t.Errorf("event metadata mismatch: %+v vs stored %+v", ev, stored)
	}

	got, err := svc.Get(context.Background(), stored.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.ID != stored.ID {
		t.Errorf("Get returned %+v", got)
	}
}

func TestServiceStoreFailureFailsRequest(t *testing.T) {
	eph := newFakeEphemeris()
	store := newFakeStore()
	store.failure = errors.New("insert refused")
	svc := NewChartService(NewChartComputer(eph, nil), store, nil, nil, 0, nil, nil)

	req := &models.StoreChartRequest{ChartRequest: *serviceRequest()}
	if _, err := svc.ComputeAndStore(context.Background(), req); err == nil {
		t.Fatal("expected store failure to propagate")
	}
}

func TestServicePublishFailureIsBestEffort(t *testing.T) {
	eph := newFakeEphemeris()
	store := newFakeStore()
	pub := &fakePublisher{failure: errors.New("broker down")}
	svc := NewChartService(NewChartComputer(eph, nil), store, pub, nil, 0, nil, nil)

	req := &models.StoreChartRequest{ChartRequest: *serviceRequest()}
	stored, err := svc.ComputeAndStore(context.Background(), req)
	if err != nil {
		t.Fatalf("publish failure must not fail the request: %v", err)
	}
	if len(store.stored) != 1 || stored == nil {
		t.Fatal("chart was not stored")
	}
}

func TestServiceListFiltersByEntity(t *testing.T) {
	eph := newFakeEphemeris()
	store := newFakeStore()
	svc := NewChartService(NewChartComputer(eph, nil), store, nil, nil, 0, nil, nil)

	for _, ent := range []string{"user-1", "user-1", "user-2"} {
		req := &models.StoreChartRequest{
			ChartRequest: *serviceRequest(),
			EntityID:     ent,
			EntityType:   "user",
		}
		if _, err := svc.ComputeAndStore(context.Background(), req); err != nil {
			t.Fatalf("ComputeAndStore(%s): %v", ent, err)
		}
	}

	got, err := svc.List(context.Background(), &models.ListChartsRequest{EntityID: "user-1", Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List returned %d charts, want 2", len(got))
	}
	for _, c := range got {
		if c.EntityID != "user-1" {
			t.Errorf("filter leaked chart for %q", c.EntityID)
		}
	}
}
