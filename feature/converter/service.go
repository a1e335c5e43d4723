package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"payqr/core/cache"
	"payqr/core/payload"
	"payqr/core/prefs"
	"payqr/core/reconcile"
	"payqr/core/render"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrNoArtifact is returned when the display is empty.
	ErrNoArtifact = errors.New("no artifact for the current inputs")
	// ErrRenderFailed is returned when the current artifact could not be rendered.
	ErrRenderFailed = errors.New("rendering the current artifact failed")
	// ErrStopped is returned once the session loop has exited.
	ErrStopped = errors.New("converter session is not running")
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("converter session is already running")
)

// Options configures a Service.
type Options struct {
	Profile       payload.Profile
	Renderer      render.Renderer
	Cache         *cache.Cache
	Store         *prefs.Store
	Logger        *zap.Logger
	RenderTimeout time.Duration
	// Initial is the persisted state to start from.
	Initial prefs.State
}

// persistTimeout bounds a single preference write.
const persistTimeout = 5 * time.Second

type savedInputs struct {
	inputs   reconcile.Inputs
	contract payload.Contract
}

type renderResult struct {
	key        cache.Key
	generation uint64
	artifact   []byte
	err        error
}

// Service is one converter session. All session state is owned by the Run
// loop; public methods send closures to it and wait for their result.
type Service struct {
	profile  payload.Profile
	renderer render.Renderer
	cache    *cache.Cache
	store    *prefs.Store
	logger   *zap.Logger
	timeout  time.Duration

	cmds    chan func()
	renders chan renderResult
	// saves holds at most the latest unsaved inputs; only the loop sends
	saves   chan savedInputs
	stopped chan struct{}
	running atomic.Bool

	// Loop-owned state below.
	loopCtx  context.Context
	inputs   reconcile.Inputs
	edited   reconcile.Field
	contract payload.Contract
	format   payload.Format

	triple   *reconcile.Triple
	text     string
	caption  string
	top      string
	bottom   string
	key      cache.Key
	hasKey   bool
	artifact []byte
	status   Status
	reason   string
	problems []string

	// generation changes whenever cached artifacts stop matching their keys
	generation uint64
	inFlight   bool
	waiters    []chan struct{}
}

// NewService creates a session. Run must be started before any other call returns.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := opts.Store
	if store == nil {
		store = prefs.NewStore(nil, logger)
	}
	c := opts.Cache
	if c == nil {
		c = cache.New(0)
	}
	c.Restore(opts.Initial.Hits, opts.Initial.Misses)

	return &Service{
		profile:  opts.Profile,
		renderer: opts.Renderer,
		cache:    c,
		store:    store,
		logger:   logger,
		timeout:  opts.RenderTimeout,
		cmds:     make(chan func()),
		renders:  make(chan renderResult),
		saves:    make(chan savedInputs, 1),
		stopped:  make(chan struct{}),
		inputs:   cloneInputs(opts.Initial.Inputs),
		contract: opts.Initial.Contract,
		format:   payload.FormatFastPayment,
		status:   StatusEmpty,
	}
}

// Cache returns the artifact cache used by the session.
func (s *Service) Cache() *cache.Cache {
	return s.cache
}

// Run drives the session until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(s.stopped)

	quit := make(chan struct{})
	persisted := make(chan struct{})
	go func() {
		defer close(persisted)
		s.runPersister(quit)
	}()
	defer func() {
		close(quit)
		<-persisted
	}()

	s.loopCtx = ctx
	s.refresh()

	for {
		select {
		case <-ctx.Done():
			s.notifyWaiters()
			return nil
		case fn := <-s.cmds:
			fn()
			s.notifyIfSettled()
		case res := <-s.renders:
			s.completeRender(res)
			s.notifyIfSettled()
		}
	}
}

// do runs fn on the loop and waits for it to finish.
func (s *Service) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case s.cmds <- func() { fn(); close(done) }:
	case <-s.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-done
	return nil
}

// Edit applies a user edit to one field. A nil value clears the field.
func (s *Service) Edit(ctx context.Context, field reconcile.Field, value *float64) (View, error) {
	if field == reconcile.FieldNone {
		return View{}, fmt.Errorf("field %q is not editable", field)
	}

	var v View
	err := s.do(ctx, func() {
		var copied *float64
		if value != nil {
			x := *value
			copied = &x
		}
		switch field {
		case reconcile.FieldRate:
			s.inputs.Rate = copied
		case reconcile.FieldAmountA:
			s.inputs.AmountA = copied
		case reconcile.FieldAmountB:
			s.inputs.AmountB = copied
		}
		s.edited = field
		s.refresh()
		s.queueSave()
		v = s.snapshot()
	})
	if err != nil {
		return View{}, err
	}
	return v, nil
}

// SetContract changes the contract clause of the purpose.
func (s *Service) SetContract(ctx context.Context, c payload.Contract) (View, error) {
	var v View
	err := s.do(ctx, func() {
		if s.contract != c {
			s.contract = c
			// Keys do not cover the purpose, so artifacts rendered with the old text are stale
			s.cache.Purge()
			s.generation++
		}
		s.refresh()
		s.queueSave()
		v = s.snapshot()
	})
	if err != nil {
		return View{}, err
	}
	return v, nil
}

// NextFormat cycles the payload format.
func (s *Service) NextFormat(ctx context.Context) (View, error) {
	var v View
	err := s.do(ctx, func() {
		s.format = s.format.Next()
		s.refresh()
		v = s.snapshot()
	})
	return v, err
}

// View returns the current session snapshot.
func (s *Service) View(ctx context.Context) (View, error) {
	var v View
	err := s.do(ctx, func() { v = s.snapshot() })
	return v, err
}

// Artifact returns the PNG for the current inputs, waiting for an in-flight
// render to finish.
func (s *Service) Artifact(ctx context.Context) ([]byte, error) {
	for {
		var (
			img    []byte
			wait   chan struct{}
			status Status
		)
		err := s.do(ctx, func() {
			status = s.status
			switch status {
			case StatusReady:
				img = bytes.Clone(s.artifact)
			case StatusRendering:
				wait = make(chan struct{})
				s.waiters = append(s.waiters, wait)
			}
		})
		if err != nil {
			return nil, err
		}

		switch status {
		case StatusReady:
			return img, nil
		case StatusFailed:
			return nil, ErrRenderFailed
		case StatusRendering:
			select {
			case <-wait:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		default:
			return nil, ErrNoArtifact
		}
	}
}

// CacheStats returns the artifact cache counters.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Statistics()
}

// ClearCache empties the artifact cache and resets its counters.
func (s *Service) ClearCache(ctx context.Context) (cache.Stats, error) {
	err := s.do(ctx, func() { s.cache.Clear() })
	if err != nil {
		return cache.Stats{}, err
	}
	return s.cache.Statistics(), nil
}

// queueSave hands the current inputs to the persister, replacing any snapshot
// it has not picked up yet. It runs on the loop only.
func (s *Service) queueSave() {
	select {
	case <-s.saves:
	default:
	}
	s.saves <- savedInputs{inputs: cloneInputs(s.inputs), contract: s.contract}
}

// runPersister writes queued inputs in order until quit is closed, then
// writes whatever is still pending.
func (s *Service) runPersister(quit <-chan struct{}) {
	for {
		select {
		case in := <-s.saves:
			s.persist(in)
		case <-quit:
			select {
			case in := <-s.saves:
				s.persist(in)
			default:
			}
			return
		}
	}
}

func (s *Service) persist(in savedInputs) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.store.SaveInputs(ctx, in.inputs, in.contract); err != nil {
		s.logger.Warn("Failed to persist inputs", zap.Error(err))
	}
}

// refresh recomputes the display from the inputs. It runs on the loop only.
func (s *Service) refresh() {
	s.triple = nil
	s.text, s.caption, s.top, s.bottom = "", "", "", ""
	s.hasKey = false
	s.artifact = nil
	s.reason, s.problems = "", nil

	t, err := reconcile.Resolve(s.edited, s.inputs)
	if err != nil {
		s.clear(err)
		return
	}

	// Programmatic write-back: the edit tracker is left alone
	s.inputs = t.Inputs()
	s.triple = &t

	text, err := payload.Encode(t, s.profile, payload.Purpose(t.AmountA, s.contract), s.format)
	if err != nil {
		s.clear(err)
		return
	}
	s.text = text
	s.top = payload.AmountLabel(t)
	s.bottom = payload.Sanitize(s.profile.Name)
	s.caption = fmt.Sprintf("%s = %s RMB x %s", s.top, payload.FormatWhole(t.AmountA),
		decimal.NewFromFloat(t.Rate).Round(4).String())

	s.key = payload.CacheKey(t, s.format)
	s.hasKey = true

	if img, ok := s.cache.Lookup(s.key); ok {
		s.artifact = img
		s.status = StatusReady
		return
	}

	s.status = StatusRendering
	if !s.inFlight {
		s.startRender()
	}
}

func (s *Service) clear(err error) {
	s.status = StatusEmpty
	var verr *reconcile.ValidationError
	if errors.As(err, &verr) {
		s.reason = ReasonInvalid
		s.problems = append([]string(nil), verr.Problems...)
		return
	}
	s.reason = ReasonInsufficient
}

// startRender renders the current key off the loop.
func (s *Service) startRender() {
	s.inFlight = true
	key, gen, text, top, bottom := s.key, s.generation, s.text, s.top, s.bottom
	loopCtx := s.loopCtx

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(loopCtx, s.timeout)
	} else {
		ctx, cancel = context.WithCancel(loopCtx)
	}

	s.logger.Debug("Rendering artifact", zap.Stringer("key", key))
	go func() {
		defer cancel()
		img, err := s.renderer.Render(ctx, text, top, bottom)
		if err == nil && len(img) == 0 {
			err = errors.New("renderer returned no image")
		}
		select {
		case s.renders <- renderResult{key: key, generation: gen, artifact: img, err: err}:
		case <-loopCtx.Done():
		}
	}()
}

// completeRender applies a finished render. It runs on the loop only.
func (s *Service) completeRender(res renderResult) {
	s.inFlight = false

	stale := res.generation != s.generation
	current := s.hasKey && s.key == res.key && !stale
	if res.err != nil {
		s.logger.Warn("Render failed", zap.Stringer("key", res.key), zap.Error(res.err))
		if current {
			s.status = StatusFailed
			s.artifact = nil
		}
	} else if !stale {
		s.cache.Insert(res.key, res.artifact, 0)
		if current {
			s.artifact = res.artifact
			s.status = StatusReady
		}
	}

	// The inputs moved on while rendering: render what is displayed now
	if !current && s.hasKey && s.status == StatusRendering {
		s.startRender()
	}
}

func (s *Service) notifyIfSettled() {
	if s.status != StatusRendering {
		s.notifyWaiters()
	}
}

func (s *Service) notifyWaiters() {
	for _, w := range s.waiters {
		close(w)
	}
	s.waiters = nil
}

func (s *Service) snapshot() View {
	v := View{
		Inputs:   cloneInputs(s.inputs),
		Edited:   s.edited.String(),
		Contract: s.contract,
		Format:   s.format.String(),
		Payload:  s.text,
		Caption:  s.caption,
		Status:   s.status,
		Reason:   s.reason,
		Problems: append([]string(nil), s.problems...),
	}
	if s.triple != nil {
		t := *s.triple
		v.Triple = &t
	}
	if s.hasKey {
		k := s.key
		v.Key = &k
	}
	return v
}
