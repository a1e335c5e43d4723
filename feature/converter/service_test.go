package converter

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"payqr/core/cache"
	"payqr/core/database"
	"payqr/core/payload"
	"payqr/core/prefs"
	"payqr/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testProfile = payload.Profile{
	Name:        "OOO Vostok Trade",
	PersonalAcc: "40702810938000012345",
	BankName:    "PAO Sberbank",
	BIC:         "044525225",
	CorrespAcc:  "30101810400000000225",
	PayeeINN:    "7701234567",
}

type fakeRenderer struct {
	mu    sync.Mutex
	calls []string
	gate  chan struct{}
	fail  bool
}

func (f *fakeRenderer) Render(ctx context.Context, text, top, bottom string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	gate, fail := f.gate, f.fail
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail {
		return nil, errors.New("renderer down")
	}
	return []byte("png:" + top + ":" + text), nil
}

func (f *fakeRenderer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRenderer) set(gate chan struct{}, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate, f.fail = gate, fail
}

func ptr(v float64) *float64 { return &v }

func startService(t *testing.T, opts Options) *Service {
	t.Helper()
	if opts.Profile == (payload.Profile{}) {
		opts.Profile = testProfile
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	svc := NewService(opts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return svc
}

func waitStatus(t *testing.T, svc *Service, want Status) View {
	t.Helper()
	var v View
	require.Eventually(t, func() bool {
		var err error
		v, err = svc.View(context.Background())
		return err == nil && v.Status == want
	}, 2*time.Second, 5*time.Millisecond)
	return v
}

func TestService_ScenarioRateThenAmount(t *testing.T) {
	r := &fakeRenderer{}
	svc := startService(t, Options{Renderer: r, Cache: cache.New(8)})
	ctx := context.Background()

	v, err := svc.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusEmpty, v.Status)
	assert.Equal(t, ReasonInsufficient, v.Reason)

	v, err = svc.Edit(ctx, reconcile.FieldRate, ptr(11.65))
	require.NoError(t, err)
	assert.Equal(t, ReasonInsufficient, v.Reason)

	v, err = svc.Edit(ctx, reconcile.FieldAmountA, ptr(1000))
	require.NoError(t, err)
	require.NotNil(t, v.Triple)
	assert.InDelta(t, 11650, v.Triple.AmountB, 1e-6)
	assert.Equal(t, "amount_a", v.Edited)
	assert.Contains(t, v.Payload, "|Sum=1165000|")
	assert.Equal(t, "11,650 RUB = 1,000 RMB x 11.65", v.Caption)
	require.NotNil(t, v.Inputs.AmountB)
	assert.InDelta(t, 11650, *v.Inputs.AmountB, 1e-6)

	img, err := svc.Artifact(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(img), "png:11,650 RUB:ST00012|"))

	stats := svc.CacheStats()
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Count)
}

func TestService_EditAmountBDerivesAmountA(t *testing.T) {
	svc := startService(t, Options{Renderer: &fakeRenderer{}})
	ctx := context.Background()

	_, err := svc.Edit(ctx, reconcile.FieldRate, ptr(11.65))
	require.NoError(t, err)
	_, err = svc.Edit(ctx, reconcile.FieldAmountA, ptr(1000))
	require.NoError(t, err)

	v, err := svc.Edit(ctx, reconcile.FieldAmountB, ptr(23300))
	require.NoError(t, err)
	require.NotNil(t, v.Triple)
	assert.InDelta(t, 2000, v.Triple.AmountA, 1e-9)
	assert.InDelta(t, 11.65, v.Triple.Rate, 1e-12)
	assert.True(t, v.Triple.Consistent())
}

func TestService_InvalidInputClearsDisplay(t *testing.T) {
	svc := startService(t, Options{Renderer: &fakeRenderer{}})
	ctx := context.Background()

	_, err := svc.Edit(ctx, reconcile.FieldAmountA, ptr(1000))
	require.NoError(t, err)
	_, err = svc.Edit(ctx, reconcile.FieldRate, ptr(11.65))
	require.NoError(t, err)
	waitStatus(t, svc, StatusReady)

	v, err := svc.Edit(ctx, reconcile.FieldRate, ptr(5000))
	require.NoError(t, err)
	assert.Equal(t, StatusEmpty, v.Status)
	assert.Equal(t, ReasonInvalid, v.Reason)
	assert.NotEmpty(t, v.Problems)
	assert.Nil(t, v.Triple)
	assert.Empty(t, v.Payload)

	_, err = svc.Artifact(ctx)
	assert.ErrorIs(t, err, ErrNoArtifact)
}

func TestService_SingleRenderInFlight(t *testing.T) {
	gate := make(chan struct{})
	r := &fakeRenderer{}
	r.set(gate, false)
	c := cache.New(8)
	svc := startService(t, Options{Renderer: r, Cache: c})
	ctx := context.Background()

	_, err := svc.Edit(ctx, reconcile.FieldRate, ptr(10))
	require.NoError(t, err)
	_, err = svc.Edit(ctx, reconcile.FieldAmountA, ptr(1000))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return r.count() == 1 }, time.Second, time.Millisecond)

	v, err := svc.Edit(ctx, reconcile.FieldAmountA, ptr(2000))
	require.NoError(t, err)
	assert.Equal(t, StatusRendering, v.Status)
	// Still blocked on the first render
	assert.Equal(t, 1, r.count())

	close(gate)
	v = waitStatus(t, svc, StatusReady)
	assert.Equal(t, 2, r.count())
	assert.Contains(t, v.Payload, "Sum=2000000")

	img, err := svc.Artifact(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(img), "Sum=2000000")

	// Both keys were cached even though the first one was no longer on display
	assert.Equal(t, []cache.Key{
		cache.NewKey("1,000", "1000000", "fast_payment"),
		cache.NewKey("2,000", "2000000", "fast_payment"),
	}, c.Keys())
}

func TestService_SubCentRateChangeRendersNewSum(t *testing.T) {
	r := &fakeRenderer{}
	c := cache.New(8)
	svc := startService(t, Options{Renderer: r, Cache: c})
	ctx := context.Background()

	_, err := svc.Edit(ctx, reconcile.FieldAmountA, ptr(1000))
	require.NoError(t, err)

	for _, tt := range []struct {
		rate float64
		sum  string
	}{
		{11.650001, "Sum=1165000|"},
		{11.649996, "Sum=1164999|"},
		{11.650001, "Sum=1165000|"},
	} {
		_, err = svc.Edit(ctx, reconcile.FieldRate, ptr(tt.rate))
		require.NoError(t, err)
		v := waitStatus(t, svc, StatusReady)
		assert.Contains(t, v.Payload, tt.sum)

		img, err := svc.Artifact(ctx)
		require.NoError(t, err)
		assert.Equal(t, "png:11,650 RUB:"+v.Payload, string(img), "rate %v", tt.rate)
	}

	// The last edit was served from the cache
	assert.Equal(t, 2, r.count())
	assert.Equal(t, uint64(1), c.Statistics().Hits)
}

func TestService_DerivedValueOutOfRangeIsNotWrittenBack(t *testing.T) {
	svc := startService(t, Options{Renderer: &fakeRenderer{}})
	ctx := context.Background()

	_, err := svc.Edit(ctx, reconcile.FieldAmountA, ptr(1))
	require.NoError(t, err)
	v, err := svc.Edit(ctx, reconcile.FieldAmountB, ptr(5000))
	require.NoError(t, err)
	assert.Equal(t, StatusEmpty, v.Status)
	assert.Equal(t, ReasonInvalid, v.Reason)
	assert.Equal(t, []string{"derived rate must not exceed 1000"}, v.Problems)
	assert.Nil(t, v.Inputs.Rate)

	// A later edit that brings the rate into range recovers without touching it
	v, err = svc.Edit(ctx, reconcile.FieldAmountA, ptr(10))
	require.NoError(t, err)
	require.NotNil(t, v.Triple)
	assert.InDelta(t, 500, v.Triple.Rate, 1e-9)
	assert.Empty(t, v.Problems)
}

func TestService_ArtifactWaitsForRender(t *testing.T) {
	gate := make(chan struct{})
	r := &fakeRenderer{}
	r.set(gate, false)
	svc := startService(t, Options{Renderer: r})
	ctx := context.Background()

	_, err := svc.Edit(ctx, reconcile.FieldRate, ptr(2))
	require.NoError(t, err)
	_, err = svc.Edit(ctx, reconcile.FieldAmountA, ptr(50))
	require.NoError(t, err)

	got := make(chan []byte, 1)
	go func() {
		img, err := svc.Artifact(ctx)
		assert.NoError(t, err)
		got <- img
	}()

	select {
	case <-got:
		t.Fatal("artifact returned before the render finished")
	case <-time.After(20 * time.Millisecond):
	}

	// A caller that gives up stops waiting without affecting the render
	short, cancel := context.WithCancel(ctx)
	cancel()
	_, err = svc.Artifact(short)
	assert.ErrorIs(t, err, context.Canceled)

	close(gate)
	select {
	case img := <-got:
		assert.Contains(t, string(img), "Sum=10000|")
	case <-time.After(2 * time.Second):
		t.Fatal("artifact never returned")
	}
}

func TestService_RenderFailure(t *testing.T) {
	r := &fakeRenderer{}
	r.set(nil, true)
	svc := startService(t, Options{Renderer: r})
	ctx := context.Background()

	_, err := svc.Edit(ctx, reconcile.FieldRate, ptr(3))
	require.NoError(t, err)
	_, err = svc.Edit(ctx, reconcile.FieldAmountA, ptr(7))
	require.NoError(t, err)

	waitStatus(t, svc, StatusFailed)
	_, err = svc.Artifact(ctx)
	assert.ErrorIs(t, err, ErrRenderFailed)
	assert.Zero(t, svc.CacheStats().Count)

	// The in-flight flag was released: a later edit renders again
	r.set(nil, false)
	_, err = svc.Edit(ctx, reconcile.FieldAmountA, ptr(8))
	require.NoError(t, err)
	waitStatus(t, svc, StatusReady)
	assert.Equal(t, 2, r.count())
}

func TestService_RenderTimeout(t *testing.T) {
	r := &fakeRenderer{}
	r.set(make(chan struct{}), false)
	svc := startService(t, Options{Renderer: r, RenderTimeout: 20 * time.Millisecond})
	ctx := context.Background()

	_, err := svc.Edit(ctx, reconcile.FieldRate, ptr(3))
	require.NoError(t, err)
	_, err = svc.Edit(ctx, reconcile.FieldAmountA, ptr(7))
	require.NoError(t, err)

	waitStatus(t, svc, StatusFailed)
}

func TestService_FormatCycleUsesCache(t *testing.T) {
	r := &fakeRenderer{}
	svc := startService(t, Options{Renderer: r, Cache: cache.New(8)})
	ctx := context.Background()

	_, err := svc.Edit(ctx, reconcile.FieldRate, ptr(11.65))
	require.NoError(t, err)
	_, err = svc.Edit(ctx, reconcile.FieldAmountA, ptr(1000))
	require.NoError(t, err)
	waitStatus(t, svc, StatusReady)

	want := []string{"bank_transfer", "plain_text", "fast_payment"}
	for _, f := range want {
		v, err := svc.NextFormat(ctx)
		require.NoError(t, err)
		assert.Equal(t, f, v.Format)
		waitStatus(t, svc, StatusReady)
	}

	stats := svc.CacheStats()
	assert.Equal(t, uint64(3), stats.Misses)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, 3, r.count())

	stats, err = svc.ClearCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, cache.Stats{Capacity: 8}, stats)
}

func TestService_ContractChangeRerenders(t *testing.T) {
	r := &fakeRenderer{}
	svc := startService(t, Options{Renderer: r})
	ctx := context.Background()

	_, err := svc.Edit(ctx, reconcile.FieldRate, ptr(11.65))
	require.NoError(t, err)
	_, err = svc.Edit(ctx, reconcile.FieldAmountA, ptr(1000))
	require.NoError(t, err)
	waitStatus(t, svc, StatusReady)

	v, err := svc.SetContract(ctx, payload.Contract{Enabled: true, Reference: "KX-2024/17"})
	require.NoError(t, err)
	assert.Contains(t, v.Payload, "Purpose=Payment under contract KX-2024/17. Goods payment service 1,000 RMB")

	waitStatus(t, svc, StatusReady)
	img, err := svc.Artifact(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(img), "KX-2024/17")
	assert.Equal(t, 2, r.count())
}

func TestService_PersistsAndRestores(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	store := prefs.NewStore(db, zap.NewNop())
	require.NoError(t, store.Migrate())
	ctx := context.Background()

	first := startService(t, Options{Renderer: &fakeRenderer{}, Store: store})
	_, err = first.Edit(ctx, reconcile.FieldRate, ptr(11.65))
	require.NoError(t, err)
	_, err = first.Edit(ctx, reconcile.FieldAmountA, ptr(1000))
	require.NoError(t, err)
	_, err = first.SetContract(ctx, payload.Contract{Enabled: true, Reference: "R-1"})
	require.NoError(t, err)

	var state prefs.State
	require.Eventually(t, func() bool {
		state = store.Load(ctx)
		return state.Contract.Reference == "R-1" && state.Inputs.AmountB != nil
	}, 2*time.Second, 5*time.Millisecond)
	assert.InDelta(t, 11650, *state.Inputs.AmountB, 1e-6)

	second := startService(t, Options{Renderer: &fakeRenderer{}, Store: store, Initial: state})
	v := waitStatus(t, second, StatusReady)
	assert.Equal(t, "none", v.Edited)
	assert.Equal(t, "R-1", v.Contract.Reference)
	assert.InDelta(t, 11650, v.Triple.AmountB, 1e-6)
}

func TestService_Lifecycle(t *testing.T) {
	svc := NewService(Options{Renderer: &fakeRenderer{}, Profile: testProfile})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	_, err := svc.Edit(context.Background(), reconcile.FieldNone, ptr(1))
	assert.Error(t, err)

	_, err = svc.View(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Run(context.Background()), ErrAlreadyRunning)

	cancel()
	require.NoError(t, <-done)

	_, err = svc.View(context.Background())
	assert.ErrorIs(t, err, ErrStopped)
	_, err = svc.Artifact(context.Background())
	assert.ErrorIs(t, err, ErrStopped)
}

func TestService_PersistsLatestInputsUnderConcurrentEdits(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	store := prefs.NewStore(db, zap.NewNop())
	require.NoError(t, store.Migrate())

	svc := NewService(Options{Renderer: &fakeRenderer{}, Profile: testProfile, Store: store})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	_, err = svc.Edit(ctx, reconcile.FieldRate, ptr(2))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(amount float64) {
			defer wg.Done()
			_, err := svc.Edit(ctx, reconcile.FieldAmountA, ptr(amount))
			assert.NoError(t, err)
		}(float64(i * 100))
	}
	wg.Wait()

	final, err := svc.View(ctx)
	require.NoError(t, err)
	require.NotNil(t, final.Inputs.AmountA)

	// Run returns only after pending inputs are written
	cancel()
	require.NoError(t, <-done)

	state := store.Load(context.Background())
	require.NotNil(t, state.Inputs.AmountA)
	require.NotNil(t, state.Inputs.AmountB)
	assert.Equal(t, *final.Inputs.AmountA, *state.Inputs.AmountA)
	assert.Equal(t, *final.Inputs.AmountB, *state.Inputs.AmountB)
}
