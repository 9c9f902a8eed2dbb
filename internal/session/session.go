package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/metrics"
	"github.com/MrSnakeDoc/folio/internal/page"
	"github.com/MrSnakeDoc/folio/internal/router"
	"github.com/MrSnakeDoc/folio/internal/sheetapi"
)

// maxPending caps queued browser events per session.
const maxPending = 512

var (
	// ErrClosed is returned when dispatching to a closed session.
	ErrClosed = errors.New("session closed")
	// ErrBusy is returned when the session has too many pending events.
	ErrBusy = errors.New("session busy")
)

// Config holds everything one page session needs.
type Config struct {
	ID        string
	Sections  []domain.Section
	Default   string
	Messages  page.Messages
	Localizer page.Localizer
	Client    sheetapi.Client
	Throttle  Throttle // optional
	ClientKey string   // identifies the visitor for the throttle
	Logger    logger.Logger
}

// Session is the server-side state of one visitor's page.
//
// A single loop goroutine owns the router, the document and the location.
// Remote calls run in their own goroutines and post completions back.
type Session struct {
	id        string
	router    *router.Router
	doc       *page.Document
	render    *page.Renderer
	msgs      page.Messages
	client    sheetapi.Client
	throttle  Throttle
	clientKey string
	log       logger.Logger

	// location mirror, loop-owned
	fragment string
	history  []string

	queue    *queue
	lastSeen atomic.Int64
	inflight atomic.Int32

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}
	once   sync.Once
}

// New creates a session and starts its loop.
func New(cfg Config) (*Session, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("remote client is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	r, err := router.New(cfg.Sections, cfg.Default)
	if err != nil {
		return nil, fmt.Errorf("building router: %w", err)
	}

	msgs := cfg.Messages.WithDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:        cfg.ID,
		router:    r,
		doc:       page.NewDocument(cfg.Sections, msgs),
		render:    page.NewRenderer(msgs, cfg.Localizer),
		msgs:      msgs,
		client:    cfg.Client,
		throttle:  cfg.Throttle,
		clientKey: cfg.ClientKey,
		log:       cfg.Logger.With(logger.String("session", cfg.ID)),
		queue:     newQueue(),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	s.Touch()

	go s.loop()
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Renderer returns the renderer bound to the visitor's locale.
func (s *Session) Renderer() *page.Renderer { return s.render }

// Touch marks the session as active now.
func (s *Session) Touch() { s.lastSeen.Store(time.Now().UnixNano()) }

// LastSeen returns the time of the last activity.
func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

// Dispatch queues a browser event.
func (s *Session) Dispatch(ev Event) error {
	if s.queue.len() >= maxPending {
		return ErrBusy
	}
	if !s.queue.push(ev) {
		return ErrClosed
	}
	s.Touch()
	return nil
}

// Notify is signalled when patches are pending.
func (s *Session) Notify() <-chan struct{} { return s.doc.Notify() }

// Drain returns the pending patches.
func (s *Session) Drain() []page.Patch { return s.doc.Drain() }

// Done is closed once the session loop stopped.
func (s *Session) Done() <-chan struct{} { return s.done }

// Snapshot returns the full page view, taken on the loop.
func (s *Session) Snapshot(ctx context.Context) (page.View, error) {
	var v page.View
	err := s.do(ctx, func() {
		v = s.doc.View()
		v.SessionID = s.id
		v.Fragment = s.fragment
		v.Locale = s.render.Localizer().Locale()
	})
	return v, err
}

// Location returns the mirrored fragment and the history entries pushed so far.
func (s *Session) Location(ctx context.Context) (string, []string, error) {
	var (
		fragment string
		history  []string
	)
	err := s.do(ctx, func() {
		fragment = s.fragment
		history = append([]string(nil), s.history...)
	})
	return fragment, history, err
}

// Close stops the loop and waits for in-flight remote calls to return.
func (s *Session) Close() {
	s.once.Do(func() {
		s.cancel()
		s.queue.close()
		<-s.done
		s.wg.Wait()
	})
}

func (s *Session) do(ctx context.Context, fn func()) error {
	c := call{fn: fn, done: make(chan struct{})}
	if !s.queue.push(c) {
		return ErrClosed
	}
	select {
	case <-c.done:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.queue.wake:
		}
		for {
			if s.ctx.Err() != nil {
				return
			}
			ev, ok := s.queue.pop()
			if !ok {
				break
			}
			s.handle(ev)
		}
	}
}

// async runs fn outside the loop and posts its result back.
func (s *Session) async(fn func(ctx context.Context) Event) {
	s.wg.Add(1)
	s.inflight.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.inflight.Add(-1)
		if ev := fn(s.ctx); ev != nil {
			s.queue.push(ev)
		}
	}()
}

func (s *Session) handle(ev Event) {
	if _, internal := ev.(call); !internal {
		metrics.ObserveEvent(ev.eventType())
	}

	switch e := ev.(type) {
	case PageReady:
		s.fragment = router.NormalizeFragment(e.Fragment)
		s.apply(s.router.Handle(router.PageReady{Fragment: e.Fragment}))
	case FragmentChanged:
		s.fragment = router.NormalizeFragment(e.Fragment)
		s.apply(s.router.Handle(router.FragmentChanged{Fragment: e.Fragment}))
	case NavClicked:
		s.apply(s.router.Handle(router.NavClicked{Section: e.Section}))
	case Submit:
		s.submit(e)
	case DebugToggle:
		s.doc.ToggleDebug()
	case DebugTest:
		s.probe(e.Operation)
	case postsLoaded:
		s.postsLoaded(e)
	case commentsLoaded:
		s.commentsLoaded(e)
	case submitted:
		s.submitted(e)
	case probeDone:
		if !s.doc.Commit(page.ContainerTestResult, e.token, s.render.Probe(e.report)) {
			s.log.Debug("discarding stale probe result")
		}
	case call:
		e.fn()
		close(e.done)
	}
}

func (s *Session) apply(effects []router.Effect) {
	for _, eff := range effects {
		switch e := eff.(type) {
		case router.ShowSection:
			s.doc.ShowSection(e.ID)
		case router.ReplaceFragment:
			s.fragment = e.ID
			s.doc.ReplaceFragment(e.ID)
		case router.AssignFragment:
			s.history = append(s.history, e.ID)
			s.fragment = e.ID
			s.doc.PushFragment(e.ID)
			s.queue.push(FragmentChanged{Fragment: e.ID})
		case router.LoadRemote:
			s.loadPosts()
			s.loadComments()
		}
	}
}

func (s *Session) loadPosts() {
	tok := s.doc.Begin(page.ContainerPosts, s.render.Message(s.msgs.LoadingPosts))
	s.async(func(ctx context.Context) Event {
		posts, err := s.client.GetBlogPosts(ctx)
		return postsLoaded{token: tok, posts: posts, err: err}
	})
}

func (s *Session) loadComments() {
	tok := s.doc.Begin(page.ContainerComments, s.render.Message(s.msgs.LoadingComments))
	s.async(func(ctx context.Context) Event {
		comments, err := s.client.GetComments(ctx)
		return commentsLoaded{token: tok, comments: comments, err: err}
	})
}

func (s *Session) postsLoaded(e postsLoaded) {
	html := s.render.Posts(e.posts)
	if e.err != nil {
		s.logFailure("loading blog posts failed", domain.OpGetBlogPosts, e.err)
		html = s.render.PostsError(e.err)
	}
	if !s.doc.Commit(page.ContainerPosts, e.token, html) {
		s.log.Debug("discarding stale posts")
	}
}

func (s *Session) commentsLoaded(e commentsLoaded) {
	html := s.render.Comments(e.comments)
	if e.err != nil {
		s.logFailure("loading comments failed", domain.OpGetComments, e.err)
		html = s.render.CommentsError(e.err)
	}
	if !s.doc.Commit(page.ContainerComments, e.token, html) {
		s.log.Debug("discarding stale comments")
	}
}

func (s *Session) submit(e Submit) {
	form := s.doc.Form(e.Form)
	if form == nil {
		s.log.Warn("submit for unknown form", logger.String("form", e.Form))
		return
	}
	if form.Submit.Disabled {
		s.log.Debug("ignoring submit while request in flight", logger.String("form", e.Form))
		return
	}
	s.doc.SetFields(e.Form, e.Fields)

	switch e.Form {
	case page.FormComment:
		name, message := form.Value(page.FieldReviewerName), form.Value(page.FieldCommentText)
		s.doc.BeginSubmit(e.Form, s.msgs.CommentPosting)
		s.async(func(ctx context.Context) Event {
			return submitted{form: page.FormComment, err: s.throttled(ctx, func() error {
				return s.client.AddComment(ctx, name, message)
			})}
		})
	case page.FormRecommendation:
		rec := domain.Recommendation{Name: form.Value(page.FieldName), Message: form.Value(page.FieldMessage)}
		s.doc.BeginSubmit(e.Form, s.msgs.RecommendationSend)
		s.async(func(ctx context.Context) Event {
			return submitted{form: page.FormRecommendation, err: s.throttled(ctx, func() error {
				return s.client.AddRecommendation(ctx, rec)
			})}
		})
	}
}

// throttled runs send unless the visitor is over the submission limit.
// A failing throttle store does not block submissions.
func (s *Session) throttled(ctx context.Context, send func() error) error {
	if s.throttle != nil {
		ok, err := s.throttle.Allow(ctx, s.clientKey)
		if err != nil {
			s.log.Warn("submission throttle unavailable", logger.Error(err))
		} else if !ok {
			return ErrThrottled
		}
	}
	return send()
}

func (s *Session) submitted(e submitted) {
	defer s.doc.RestoreSubmit(e.form)

	switch e.form {
	case page.FormComment:
		if e.err != nil {
			s.logFailure("posting comment failed", domain.OpAddComment, e.err)
			s.doc.Alert(s.msgs.CommentFailed)
			return
		}
		s.doc.Alert(s.msgs.CommentThanks)
		s.doc.ResetForm(e.form)
		s.loadComments()
	case page.FormRecommendation:
		if e.err != nil {
			s.logFailure("sending recommendation failed", domain.OpAddRecommendation, e.err)
			s.doc.Alert(s.msgs.RecommendationFailed)
			return
		}
		s.doc.Alert(s.msgs.RecommendationThanks)
		s.doc.ResetForm(e.form)
	}
}

func (s *Session) probe(op domain.Operation) {
	tok := s.doc.Begin(page.ContainerTestResult, s.render.Message(s.msgs.TestingConnection))
	s.async(func(ctx context.Context) Event {
		return probeDone{token: tok, report: s.client.Probe(ctx, op)}
	})
}

// maxLoggedBody caps the raw response body kept in failure logs.
const maxLoggedBody = 1024

func (s *Session) logFailure(msg string, op domain.Operation, err error) {
	kind := string(sheetapi.Classify(err))
	if errors.Is(err, ErrThrottled) {
		kind = "throttled"
	}
	fields := []logger.Field{
		logger.String("operation", op.String()),
		logger.String("kind", kind),
		logger.Error(err),
	}
	var me *sheetapi.MalformedResponseError
	if errors.As(err, &me) {
		fields = append(fields, logger.String("raw", truncate(me.Raw, maxLoggedBody)))
	}
	s.log.Error(msg, fields...)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
