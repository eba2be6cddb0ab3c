// Package pipeline runs the capture -> preview -> publish flow for one
// capture session as an explicit state machine:
//
//	Idle -> PermissionRequested -> CameraBound -> Capturing -> Captured
//	     -> Previewing -> Publishing -> Published | Failed
//
// Capture and Publish each hold an in-flight token; a second trigger while
// one is running returns apperr.ErrInFlight without doing any work. A failed
// publish is reported as Failed and then returns to Previewing with the
// draft intact. Close releases the camera and is safe to call repeatedly.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dalemusser/photoshare/internal/app/system/camera"
	"github.com/dalemusser/photoshare/internal/app/system/htmlsanitize"
	"github.com/dalemusser/photoshare/internal/app/system/photoedit"
	"github.com/dalemusser/photoshare/internal/app/system/photostore"
	"github.com/dalemusser/photoshare/internal/app/system/timeouts"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the data access Publish needs.
type Store interface {
	CreatePost(ctx context.Context, p models.Post) (models.Post, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	UpdateEvent(ctx context.Context, e models.Event) error
}

// Editor applies the preview transform to a captured file.
type Editor interface {
	Apply(ctx context.Context, src string, t photoedit.Transform) (string, error)
}

// Config wires a Pipeline. Camera, Permissions, Store, and CurrentUser are
// required; Editor and Uploader are optional steps.
type Config struct {
	Camera      camera.Device
	Permissions camera.Permissions
	Store       Store
	Editor      Editor
	Uploader    photostore.Store
	// CurrentUser resolves the signed-in user id from the publish context;
	// "" means nobody is signed in.
	CurrentUser func(ctx context.Context) string

	Lens    camera.Lens
	PostTTL time.Duration
	Log     *zap.Logger
	Now     func() time.Time
	NewID   func() string
}

// Pipeline is one capture session's state machine. It is safe for
// concurrent use.
type Pipeline struct {
	cfg Config
	log *zap.Logger

	capturing  atomic.Bool
	publishing atomic.Bool

	mu        sync.Mutex
	state     State
	lens      camera.Lens
	bound     bool
	draft     *Draft
	lastErr   error
	lastPost  string
	observers []Observer
}

// New returns an Idle pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.PostTTL <= 0 {
		cfg.PostTTL = models.DefaultPostTTL
	}
	if cfg.Lens == "" {
		cfg.Lens = camera.LensBack
	}
	return &Pipeline{cfg: cfg, log: cfg.Log, state: Idle, lens: cfg.Lens}
}

// Observe registers fn for every later transition.
func (p *Pipeline) Observe(fn Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, fn)
}

// State returns the current state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Snapshot is a consistent view of the pipeline for reporting.
type Snapshot struct {
	State     State       `json:"state"`
	Lens      camera.Lens `json:"lens"`
	Draft     *Draft      `json:"draft,omitempty"`
	LastError string      `json:"last_error,omitempty"`
	LastPost  string      `json:"last_post_id,omitempty"`
}

// Snapshot returns the current state, lens and draft.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := Snapshot{State: p.state, Lens: p.lens, LastPost: p.lastPost}
	if p.draft != nil {
		d := *p.draft
		s.Draft = &d
	}
	if p.lastErr != nil {
		s.LastError = apperr.Message(p.lastErr)
	}
	return s
}

// move changes state with p.mu held and returns the transition to emit
// once the lock is released.
func (p *Pipeline) move(to State, mod func(*Transition)) Transition {
	t := Transition{From: p.state, To: to, At: p.cfg.Now()}
	if mod != nil {
		mod(&t)
	}
	p.state = to
	if to == Failed {
		p.lastErr = t.Err
	}
	return t
}

func (p *Pipeline) emit(ts ...Transition) {
	p.mu.Lock()
	obs := append([]Observer(nil), p.observers...)
	p.mu.Unlock()
	for _, t := range ts {
		fields := []zap.Field{zap.String("from", string(t.From)), zap.String("to", string(t.To))}
		if t.Err != nil {
			fields = append(fields, zap.Error(t.Err))
		}
		p.log.Debug("capture transition", fields...)
		for _, fn := range obs {
			fn(t)
		}
	}
}

func wrongState(action string, s State) error {
	return fmt.Errorf("%s while %s: %w", action, s, apperr.ErrState)
}

func failWith(err error) func(*Transition) {
	return func(t *Transition) { t.Err = err }
}

func (p *Pipeline) step(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeouts.Step())
}

// Start requests camera permission and binds the camera. A denial ends in
// Failed with apperr.ErrPermissionDenied and the camera is never bound.
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.bound || (p.state != Idle && p.state != Failed) {
		s := p.state
		p.mu.Unlock()
		return wrongState("start", s)
	}
	t1 := p.move(PermissionRequested, nil)
	lens := p.lens
	p.mu.Unlock()
	p.emit(t1)

	granted, err := p.cfg.Permissions.Request(ctx)
	if err != nil || !granted {
		var denied error = apperr.ErrPermissionDenied
		if err != nil {
			denied = fmt.Errorf("%w: %w", apperr.ErrPermissionDenied, err)
		}
		p.fail(denied)
		return denied
	}
	if p.State() == Closed {
		return wrongState("start", Closed)
	}

	sctx, cancel := p.step(ctx)
	defer cancel()
	if err := p.cfg.Camera.Bind(sctx, lens); err != nil {
		err = apperr.Device("bind camera", err)
		p.fail(err)
		return err
	}

	p.mu.Lock()
	if p.state == Closed {
		// Closed while binding; give the camera back.
		p.mu.Unlock()
		_ = p.cfg.Camera.Release()
		return wrongState("start", Closed)
	}
	p.bound = true
	t2 := p.move(CameraBound, nil)
	p.mu.Unlock()
	p.emit(t2)
	return nil
}

func (p *Pipeline) fail(err error) {
	p.mu.Lock()
	if p.state == Closed {
		p.mu.Unlock()
		return
	}
	t := p.move(Failed, failWith(err))
	p.mu.Unlock()
	p.emit(t)
}

// Capture takes a photo. On a device error the pipeline returns to
// CameraBound so the user can retry.
func (p *Pipeline) Capture(ctx context.Context) (string, error) {
	if !p.capturing.CompareAndSwap(false, true) {
		return "", apperr.ErrInFlight
	}
	defer p.capturing.Store(false)

	p.mu.Lock()
	if !p.bound || (p.state != CameraBound && p.state != Published) {
		s := p.state
		p.mu.Unlock()
		return "", wrongState("capture", s)
	}
	t1 := p.move(Capturing, nil)
	p.mu.Unlock()
	p.emit(t1)

	sctx, cancel := p.step(ctx)
	uri, err := p.cfg.Camera.Capture(sctx)
	cancel()

	p.mu.Lock()
	if p.state == Closed {
		p.mu.Unlock()
		return "", wrongState("capture", Closed)
	}
	if err != nil {
		err = apperr.Device("capture", err)
		p.lastErr = err
		t := p.move(CameraBound, failWith(err))
		p.mu.Unlock()
		p.emit(t)
		return "", err
	}
	p.draft = &Draft{URI: uri, Transform: photoedit.Identity()}
	t2 := p.move(Captured, func(t *Transition) { t.URI = uri })
	p.mu.Unlock()
	p.emit(t2)
	return uri, nil
}

// Preview enters preview for the captured photo and returns the draft.
func (p *Pipeline) Preview() (Draft, error) {
	p.mu.Lock()
	switch p.state {
	case Previewing:
		d := *p.draft
		p.mu.Unlock()
		return d, nil
	case Captured:
	default:
		s := p.state
		p.mu.Unlock()
		return Draft{}, wrongState("preview", s)
	}
	t := p.move(Previewing, nil)
	d := *p.draft
	p.mu.Unlock()
	p.emit(t)
	return d, nil
}

// Draft returns the current draft while one exists.
func (p *Pipeline) Draft() (Draft, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.draft == nil {
		return Draft{}, false
	}
	return *p.draft, true
}

func (p *Pipeline) editDraft(action string, fn func(d *Draft) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Previewing {
		return wrongState(action, p.state)
	}
	d := *p.draft
	if err := fn(&d); err != nil {
		return err
	}
	p.draft = &d
	return nil
}

// SetContent sets the caption after stripping markup. Captions longer than
// models.MaxContentLength characters are rejected.
func (p *Pipeline) SetContent(s string) error {
	clean := htmlsanitize.PlainText(s)
	if n := len([]rune(clean)); n > models.MaxContentLength {
		return apperr.Validation("post content is limited to %d characters (got %d)", models.MaxContentLength, n)
	}
	return p.editDraft("edit content", func(d *Draft) error {
		d.Content = clean
		return nil
	})
}

// SelectGroup targets the draft at a group, clearing any event.
func (p *Pipeline) SelectGroup(id string) error {
	if id == "" {
		return apperr.Validation("group id is required")
	}
	return p.editDraft("select group", func(d *Draft) error {
		d.Target = models.Target{GroupID: id}
		return nil
	})
}

// SelectEvent targets the draft at an event, clearing any group.
func (p *Pipeline) SelectEvent(id string) error {
	if id == "" {
		return apperr.Validation("event id is required")
	}
	return p.editDraft("select event", func(d *Draft) error {
		d.Target = models.Target{EventID: id}
		return nil
	})
}

// SelectProfile targets the draft at the author's public profile.
func (p *Pipeline) SelectProfile() error {
	return p.editDraft("select profile", func(d *Draft) error {
		d.Target = models.Target{}
		return nil
	})
}

// SetTransform sets the brightness and crop applied at publish.
func (p *Pipeline) SetTransform(t photoedit.Transform) error {
	if err := t.Validate(); err != nil {
		return err
	}
	return p.editDraft("edit photo", func(d *Draft) error {
		d.Transform = t.Normalize()
		return nil
	})
}

// Publish turns the draft into a post. On any failure the pipeline reports
// Failed, returns to Previewing with the draft kept, and returns the error.
func (p *Pipeline) Publish(ctx context.Context) (models.Post, error) {
	if !p.publishing.CompareAndSwap(false, true) {
		return models.Post{}, apperr.ErrInFlight
	}
	defer p.publishing.Store(false)

	p.mu.Lock()
	if p.state != Previewing {
		s := p.state
		p.mu.Unlock()
		return models.Post{}, wrongState("publish", s)
	}
	draft := *p.draft
	t1 := p.move(Publishing, nil)
	p.mu.Unlock()
	p.emit(t1)

	post, err := p.publish(ctx, draft)
	if err != nil {
		p.mu.Lock()
		if p.state == Closed {
			p.mu.Unlock()
			return models.Post{}, err
		}
		tf := p.move(Failed, failWith(err))
		tb := p.move(Previewing, nil)
		p.mu.Unlock()
		p.emit(tf, tb)
		return models.Post{}, err
	}

	p.mu.Lock()
	p.draft = nil
	p.lastErr = nil
	p.lastPost = post.ID
	if p.state == Closed {
		p.mu.Unlock()
		return post, nil
	}
	t2 := p.move(Published, func(t *Transition) { t.PostID = post.ID })
	p.mu.Unlock()
	p.emit(t2)
	return post, nil
}

func (p *Pipeline) publish(ctx context.Context, d Draft) (models.Post, error) {
	userID := ""
	if p.cfg.CurrentUser != nil {
		userID = p.cfg.CurrentUser(ctx)
	}
	if userID == "" {
		return models.Post{}, apperr.ErrNotAuthenticated
	}

	photo := d.URI
	if p.cfg.Editor != nil && !d.Transform.IsIdentity() {
		sctx, cancel := p.step(ctx)
		edited, err := p.cfg.Editor.Apply(sctx, photo, d.Transform)
		cancel()
		if err != nil {
			return models.Post{}, fmt.Errorf("edit photo: %w", err)
		}
		photo = edited
	}

	var imageURL string
	if p.cfg.Uploader != nil {
		sctx, cancel := p.step(ctx)
		url, err := p.cfg.Uploader.Upload(sctx, userID, photo)
		cancel()
		if err != nil {
			return models.Post{}, fmt.Errorf("upload photo: %w", err)
		}
		imageURL = url
	}

	post := models.NewPost(p.cfg.NewID(), userID, d.Content, d.Target, p.cfg.Now(), p.cfg.PostTTL)
	post.ImageURL = models.StringPtr(imageURL)

	created, err := p.cfg.Store.CreatePost(ctx, post)
	if err != nil {
		return models.Post{}, fmt.Errorf("create post: %w", err)
	}

	if d.Target.EventID != "" && imageURL != "" {
		// The post exists; a failure here only loses the event gallery entry.
		if err := p.attachToEvent(ctx, d.Target.EventID, imageURL); err != nil {
			p.log.Warn("attach photo to event failed",
				zap.String("event_id", d.Target.EventID),
				zap.String("post_id", created.ID),
				zap.Error(err))
		}
	}
	p.log.Info("post published",
		zap.String("post_id", created.ID),
		zap.String("user_id", userID),
		zap.String("visibility", string(created.Visibility)))
	return created, nil
}

func (p *Pipeline) attachToEvent(ctx context.Context, eventID, url string) error {
	ev, err := p.cfg.Store.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if ev == nil {
		return fmt.Errorf("event %q: %w", eventID, apperr.ErrNotFound)
	}
	ev.AddPhoto(url)
	return p.cfg.Store.UpdateEvent(ctx, *ev)
}

// FlipLens rebinds the camera to the other lens.
func (p *Pipeline) FlipLens(ctx context.Context) error {
	if !p.capturing.CompareAndSwap(false, true) {
		return apperr.ErrInFlight
	}
	defer p.capturing.Store(false)

	p.mu.Lock()
	if !p.bound || (p.state != CameraBound && p.state != Published) {
		s := p.state
		p.mu.Unlock()
		return wrongState("flip lens", s)
	}
	next := p.lens.Other()
	// Close must not release the device this flip is about to release.
	p.bound = false
	p.mu.Unlock()

	if err := p.cfg.Camera.Release(); err != nil {
		p.log.Warn("camera release before flip failed", zap.Error(err))
	}
	sctx, cancel := p.step(ctx)
	err := p.cfg.Camera.Bind(sctx, next)
	cancel()

	p.mu.Lock()
	if p.state == Closed {
		// Closed while binding; give the camera back.
		p.mu.Unlock()
		if err == nil {
			_ = p.cfg.Camera.Release()
		}
		return wrongState("flip lens", Closed)
	}
	if err != nil {
		p.bound = false
		err = apperr.Device("bind camera", err)
		t := p.move(Failed, failWith(err))
		p.mu.Unlock()
		p.emit(t)
		return err
	}
	p.lens = next
	p.bound = true
	p.mu.Unlock()
	return nil
}

// Close releases the camera if it is bound. Further calls are no-ops.
func (p *Pipeline) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.state == Closed {
		p.mu.Unlock()
		return nil
	}
	wasBound := p.bound
	p.bound = false
	p.draft = nil
	t := p.move(Closed, nil)
	p.mu.Unlock()

	var err error
	if wasBound {
		if rerr := p.cfg.Camera.Release(); rerr != nil {
			err = apperr.Device("release camera", rerr)
		}
	}
	p.emit(t)
	return err
}

// IsBusy reports whether a capture or publish is running.
func (p *Pipeline) IsBusy() bool {
	return p.capturing.Load() || p.publishing.Load()
}
