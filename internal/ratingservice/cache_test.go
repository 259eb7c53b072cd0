package ratingservice

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	data map[string]string
	sets []string
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

func (f *fakeRedis) MGet(_ context.Context, keys ...string) *redis.SliceCmd {
	if f.err != nil {
		return redis.NewSliceResult(nil, f.err)
	}
	vals := make([]interface{}, len(keys))
	for i, k := range keys {
		if v, ok := f.data[k]; ok {
			vals[i] = v
		}
	}
	return redis.NewSliceResult(vals, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.sets = append(f.sets, key)
	return redis.NewStatusResult("OK", nil)
}

type fakeSource struct {
	snapshots    map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot
	calls        [][]ranksyncdomain.Handle
	history      []ranksyncdomain.RatingPoint
	historyCalls int
	err          error
}

func (f *fakeSource) GetCurrentRatings(_ context.Context, handles []ranksyncdomain.Handle) (map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot, error) {
	f.calls = append(f.calls, handles)
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot)
	for _, h := range handles {
		if s, ok := f.snapshots[h]; ok {
			out[h] = s
		}
	}
	return out, nil
}

func (f *fakeSource) GetRatingHistory(_ context.Context, _ ranksyncdomain.Handle) ([]ranksyncdomain.RatingPoint, error) {
	f.historyCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.history, nil
}

func snapshotOf(handle ranksyncdomain.Handle, current, best int) ranksyncdomain.RatingSnapshot {
	return ranksyncdomain.RatingSnapshot{Handle: handle, CurrentRating: intPtr(current), BestRatingEver: intPtr(best)}
}

func TestCacheServesHitsWithoutUpstream(t *testing.T) {
	store := newFakeRedis()
	store.data["ranksync:rating:tourist"] = `{"current_rating":3800,"best_rating_ever":3979}`
	source := &fakeSource{}

	cache := NewCache(source, store, time.Minute, nil)
	out, err := cache.GetCurrentRatings(context.Background(), []ranksyncdomain.Handle{"Tourist"})
	if err != nil {
		t.Fatalf("GetCurrentRatings() error = %v", err)
	}

	snap, ok := out["tourist"]
	if !ok {
		t.Fatal("expected cached snapshot for \"tourist\"")
	}
	if *snap.CurrentRating != 3800 || *snap.BestRatingEver != 3979 {
		t.Errorf("snapshot = %+v", snap)
	}
	if len(source.calls) != 0 {
		t.Errorf("upstream calls = %d, want 0", len(source.calls))
	}
}

func TestCacheFetchesMissesAndWritesBack(t *testing.T) {
	store := newFakeRedis()
	source := &fakeSource{snapshots: map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot{
		"tourist": snapshotOf("tourist", 3800, 3979),
	}}

	cache := NewCache(source, store, time.Minute, nil)
	ctx := context.Background()

	out, err := cache.GetCurrentRatings(ctx, []ranksyncdomain.Handle{"tourist"})
	if err != nil {
		t.Fatalf("GetCurrentRatings() error = %v", err)
	}
	if _, ok := out["tourist"]; !ok {
		t.Fatal("expected snapshot from upstream")
	}
	if got, want := store.data["ranksync:rating:tourist"], `{"current_rating":3800,"best_rating_ever":3979}`; got != want {
		t.Errorf("cached payload = %s, want %s", got, want)
	}

	if _, err := cache.GetCurrentRatings(ctx, []ranksyncdomain.Handle{"tourist"}); err != nil {
		t.Fatalf("second GetCurrentRatings() error = %v", err)
	}
	if len(source.calls) != 1 {
		t.Errorf("upstream calls = %d, want 1", len(source.calls))
	}
}

func TestCacheFetchesOnlyMisses(t *testing.T) {
	store := newFakeRedis()
	store.data["ranksync:rating:alice"] = `{"current_rating":1450,"best_rating_ever":null}`
	source := &fakeSource{snapshots: map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot{
		"bob": snapshotOf("bob", 2100, 2150),
	}}

	cache := NewCache(source, store, time.Minute, nil)
	out, err := cache.GetCurrentRatings(context.Background(), []ranksyncdomain.Handle{"alice", "bob"})
	if err != nil {
		t.Fatalf("GetCurrentRatings() error = %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if len(source.calls) != 1 || !reflect.DeepEqual(source.calls[0], []ranksyncdomain.Handle{"bob"}) {
		t.Errorf("upstream calls = %v, want [[bob]]", source.calls)
	}
	if snap := out["alice"]; snap.BestRatingEver != nil || *snap.CurrentRating != 1450 {
		t.Errorf("alice snapshot = %+v", snap)
	}
}

func TestCacheDegradesWhenRedisFails(t *testing.T) {
	store := newFakeRedis()
	store.err = errors.New("connection refused")
	source := &fakeSource{snapshots: map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot{
		"tourist": snapshotOf("tourist", 3800, 3979),
	}}

	cache := NewCache(source, store, time.Minute, nil)
	out, err := cache.GetCurrentRatings(context.Background(), []ranksyncdomain.Handle{"tourist"})
	if err != nil {
		t.Fatalf("GetCurrentRatings() error = %v", err)
	}

	if _, ok := out["tourist"]; !ok {
		t.Fatal("expected upstream snapshot despite cache outage")
	}
	if len(source.calls) != 1 || len(source.calls[0]) != 1 {
		t.Errorf("upstream calls = %v, want one call with one handle", source.calls)
	}
}

func TestCachePropagatesUpstreamError(t *testing.T) {
	source := &fakeSource{err: &ranksyncdomain.TransientError{Op: "rating lookup", Err: errors.New("status 503")}}

	cache := NewCache(source, newFakeRedis(), time.Minute, nil)
	_, err := cache.GetCurrentRatings(context.Background(), []ranksyncdomain.Handle{"tourist"})
	if !ranksyncdomain.IsTransient(err) {
		t.Errorf("IsTransient(%v) = false, want true", err)
	}
}

func TestCacheHistoryPassesThrough(t *testing.T) {
	source := &fakeSource{history: []ranksyncdomain.RatingPoint{{Rating: 1500, At: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)}}}

	cache := NewCache(source, newFakeRedis(), time.Minute, nil)
	points, err := cache.GetRatingHistory(context.Background(), "tourist")
	if err != nil {
		t.Fatalf("GetRatingHistory() error = %v", err)
	}
	if len(points) != 1 || points[0].Rating != 1500 {
		t.Errorf("points = %+v", points)
	}
	if source.historyCalls != 1 {
		t.Errorf("historyCalls = %d, want 1", source.historyCalls)
	}
}
