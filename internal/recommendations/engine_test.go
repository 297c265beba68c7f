package recommendations

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/angelmondragon/brewlytics/internal/gateway"
	"github.com/angelmondragon/brewlytics/internal/gateway/gatewaytest"
	"github.com/angelmondragon/brewlytics/internal/memo"
	"github.com/angelmondragon/brewlytics/pkg/enums"
	pkgerrors "github.com/angelmondragon/brewlytics/pkg/errors"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/multierr"
)

var afternoon = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

type catalog struct {
	espresso, latte, croissant, coldBrew, mocha gateway.CatalogProduct
}

func seedCatalog(fake *gatewaytest.Fake) catalog {
	return catalog{
		espresso:  fake.AddProduct("Espresso", "double shot", "Coffee", "3.00"),
		latte:     fake.AddProduct("Latte", "espresso with milk", "Coffee", "4.50"),
		croissant: fake.AddProduct("Croissant", "butter pastry", "Bakery", "3.25"),
		coldBrew:  fake.AddProduct("Cold Brew", "iced and smooth", "Coffee", "5.00"),
		mocha:     fake.AddProduct("Mocha", "chocolate coffee", "Coffee", "5.50"),
	}
}

func newTestEngine(t *testing.T, fake *gatewaytest.Fake, now time.Time) (*Engine, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(now)
	m := memo.New(memo.NewLRUStore(100, time.Hour, clock), time.Hour, nil, nil)
	engine, err := NewEngine(fake, m, clock, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine, clock
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMergeSumsWeightedScores(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	out := merge([]source{
		{name: SourceCollaborative, weight: 0.4, candidates: []candidate{{ProductID: a, Score: 30, Reason: "neighbors"}}},
		{name: SourceContent, weight: 0.3, candidates: []candidate{{ProductID: a, Score: 10, Reason: "category"}, {ProductID: b, Score: 5}}},
		{name: SourcePopularity, weight: 0.2, candidates: []candidate{{ProductID: b, Score: 15}}},
		{name: SourceTimeContext, weight: 0.1},
	})

	if len(out) != 2 {
		t.Fatalf("expected only candidates present in some source, got %d", len(out))
	}
	for _, m := range out {
		if m.ProductID == c {
			t.Fatal("candidate absent from every source must not appear")
		}
	}
	if out[0].ProductID != a || !almostEqual(out[0].Score, 30*0.4+10*0.3) {
		t.Fatalf("unexpected first entry %+v", out[0])
	}
	if !almostEqual(out[1].Score, 5*0.3+15*0.2) {
		t.Fatalf("unexpected second score %v", out[1].Score)
	}
	if len(out[0].Reasons) != 2 || out[0].Reasons[0] != "neighbors" {
		t.Fatalf("expected reasons accumulated in source order, got %v", out[0].Reasons)
	}
	if len(out[0].Sources) != 2 || out[0].Sources[1] != SourceContent {
		t.Fatalf("unexpected sources %v", out[0].Sources)
	}
}

func TestMergeBreaksTiesByProductID(t *testing.T) {
	low := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	high := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	out := merge([]source{{name: SourcePopularity, weight: 0.2, candidates: []candidate{
		{ProductID: high, Score: 5},
		{ProductID: low, Score: 5},
	}}})
	if out[0].ProductID != low {
		t.Fatalf("expected lower id first on ties, got %s", out[0].ProductID)
	}
}

func TestProductRecommendationsCombinesStrategies(t *testing.T) {
	fake := gatewaytest.NewFake()
	items := seedCatalog(fake)
	customer := fake.AddCustomer()
	neighbor := fake.AddCustomer()

	fake.AddOrder(customer, enums.OrderStatusCompleted, afternoon.AddDate(0, 0, -10),
		gatewaytest.LineOf(items.espresso, 1), gatewaytest.LineOf(items.latte, 1))
	fake.AddOrder(neighbor, enums.OrderStatusCompleted, afternoon.AddDate(0, 0, -5),
		gatewaytest.LineOf(items.espresso, 1), gatewaytest.LineOf(items.croissant, 2))

	engine, _ := newTestEngine(t, fake, afternoon)
	recs, err := engine.ProductRecommendations(context.Background(), customer, 20)
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}

	want := []struct {
		id    uuid.UUID
		score float64
	}{
		{items.croissant.ID, 10*0.4 + 5*0.2},
		{items.coldBrew.ID, 10*0.3 + 8*0.1},
		{items.mocha.ID, 10 * 0.3},
		{items.espresso.ID, 10 * 0.2},
		{items.latte.ID, 5 * 0.2},
	}
	if len(recs) != len(want) {
		t.Fatalf("expected %d recommendations, got %d", len(want), len(recs))
	}
	for i, w := range want {
		if recs[i].Product.ID != w.id {
			t.Fatalf("position %d: expected %s, got %s", i, w.id, recs[i].Product.Name)
		}
		if !almostEqual(recs[i].Score, round2(w.score)) {
			t.Fatalf("position %d: expected score %v, got %v", i, w.score, recs[i].Score)
		}
	}
	if got := recs[0].Sources; len(got) != 2 || got[0] != SourceCollaborative || got[1] != SourcePopularity {
		t.Fatalf("unexpected croissant sources %v", got)
	}
}

func TestProductRecommendationsRespectsLimitAndOrdering(t *testing.T) {
	fake := gatewaytest.NewFake()
	items := seedCatalog(fake)
	customer := fake.AddCustomer()
	fake.AddOrder(customer, enums.OrderStatusCompleted, afternoon.AddDate(0, 0, -1),
		gatewaytest.LineOf(items.espresso, 1))

	engine, _ := newTestEngine(t, fake, afternoon)
	for _, limit := range []int{1, 2, 3} {
		recs, err := engine.ProductRecommendations(context.Background(), customer, limit)
		if err != nil {
			t.Fatalf("limit %d: %v", limit, err)
		}
		if len(recs) > limit {
			t.Fatalf("limit %d: got %d items", limit, len(recs))
		}
		for i := 1; i < len(recs); i++ {
			if recs[i].Score > recs[i-1].Score {
				t.Fatalf("scores must be non-increasing: %v then %v", recs[i-1].Score, recs[i].Score)
			}
		}
	}
}

func TestProductRecommendationsWithoutHistory(t *testing.T) {
	fake := gatewaytest.NewFake()
	seedCatalog(fake)
	customer := fake.AddCustomer()

	engine, _ := newTestEngine(t, fake, afternoon)
	recs, err := engine.ProductRecommendations(context.Background(), customer, 20)
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	for _, r := range recs {
		for _, s := range r.Sources {
			if s == SourceCollaborative || s == SourceContent {
				t.Fatalf("history-based source %s used without history", s)
			}
		}
	}
	if len(recs) != 1 || recs[0].Product.Name != "Cold Brew" {
		t.Fatalf("expected only the afternoon match, got %+v", recs)
	}
}

func TestProductRecommendationsCachedUntilCleared(t *testing.T) {
	fake := gatewaytest.NewFake()
	items := seedCatalog(fake)
	customer := fake.AddCustomer()
	engine, _ := newTestEngine(t, fake, afternoon)
	ctx := context.Background()

	first, err := engine.ProductRecommendations(ctx, customer, 20)
	if err != nil {
		t.Fatalf("first: %v", err)
	}

	other := fake.AddCustomer()
	fake.AddOrder(other, enums.OrderStatusCompleted, afternoon.Add(-time.Hour), gatewaytest.LineOf(items.mocha, 1))

	cached, err := engine.ProductRecommendations(ctx, customer, 20)
	if err != nil {
		t.Fatalf("cached: %v", err)
	}
	if len(cached) != len(first) {
		t.Fatalf("expected cached result, got %d vs %d", len(cached), len(first))
	}

	if err := engine.ClearCache(ctx, customer); err != nil {
		t.Fatalf("clear: %v", err)
	}
	fresh, err := engine.ProductRecommendations(ctx, customer, 20)
	if err != nil {
		t.Fatalf("fresh: %v", err)
	}
	if len(fresh) != len(first)+1 {
		t.Fatalf("expected popular mocha after clearing, got %d items", len(fresh))
	}
}

func TestProductRecommendationsPropagatesGatewayErrors(t *testing.T) {
	fake := gatewaytest.NewFake()
	fake.Err = errors.New("connection reset")
	engine, _ := newTestEngine(t, fake, afternoon)

	_, err := engine.ProductRecommendations(context.Background(), uuid.New(), 5)
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if !errors.Is(err, fake.Err) {
		t.Fatalf("expected underlying cause to be preserved, got %v", err)
	}
}

func TestBucketFor(t *testing.T) {
	cases := map[int]string{
		5:  defaultBucket.name,
		6:  "morning",
		11: "morning",
		12: defaultBucket.name,
		13: defaultBucket.name,
		14: "afternoon",
		16: "afternoon",
		17: "evening",
		20: "evening",
		21: defaultBucket.name,
	}
	for hour, want := range cases {
		if got := bucketFor(hour).name; got != want {
			t.Fatalf("hour %d: expected %s, got %s", hour, want, got)
		}
	}
}

type deleteFailingStore struct {
	memo.Store
	deleted []string
}

func (s *deleteFailingStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return errors.New("delete " + key + " refused")
}

func TestClearCacheAttemptsBothKeysAndCombinesErrors(t *testing.T) {
	clock := clockwork.NewFakeClockAt(afternoon)
	store := &deleteFailingStore{Store: memo.NewLRUStore(10, time.Hour, clock)}
	engine, err := NewEngine(gatewaytest.NewFake(), memo.New(store, time.Hour, nil, nil), clock, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	customer := uuid.New()

	err = engine.ClearCache(context.Background(), customer)
	if len(store.deleted) != 2 {
		t.Fatalf("expected both keys deleted, got %v", store.deleted)
	}
	if errs := multierr.Errors(err); len(errs) != 2 {
		t.Fatalf("expected two combined errors, got %v", err)
	}
}
