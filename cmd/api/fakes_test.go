package main

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"eventreview/internal/auth"
	"eventreview/internal/domain/admins"
	"eventreview/internal/domain/events"
	"eventreview/internal/domain/organizers"
	"eventreview/internal/domain/responses"
	"eventreview/internal/domain/reviews"
	"eventreview/internal/domain/storage"
	"eventreview/internal/domain/users"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memory backs every fake store with one set of maps so cross-store
// lookups (organizer reviews, response attach) see the same data.
type memory struct {
	mu         sync.Mutex
	users      map[uuid.UUID]*users.User
	events     map[uuid.UUID]*events.Event
	organizers map[uuid.UUID]*organizers.Organizer
	admins     map[uuid.UUID]*admins.Admin
	reviews    map[uuid.UUID]*reviews.Review
	responses  map[uuid.UUID]*responses.Response
}

func newMemory() *memory {
	return &memory{
		users:      map[uuid.UUID]*users.User{},
		events:     map[uuid.UUID]*events.Event{},
		organizers: map[uuid.UUID]*organizers.Organizer{},
		admins:     map[uuid.UUID]*admins.Admin{},
		reviews:    map[uuid.UUID]*reviews.Review{},
		responses:  map[uuid.UUID]*responses.Response{},
	}
}

type fakeUsers struct{ m *memory }

func (f fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*users.User, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	u, ok := f.m.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*users.User, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var found *users.User
	for _, u := range f.m.users {
		if u.Email == email && (found == nil || u.CreatedAt.Before(found.CreatedAt)) {
			found = u
		}
	}
	if found == nil {
		return nil, users.ErrNotFound
	}
	cp := *found
	return &cp, nil
}

func (f fakeUsers) Create(_ context.Context, u *users.User) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	cp := *u
	f.m.users[u.ID] = &cp
	return nil
}

func (f fakeUsers) List(context.Context) ([]users.User, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	list := []users.User{}
	for _, u := range f.m.users {
		list = append(list, *u)
	}
	return list, nil
}

func (f fakeUsers) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	_, ok := f.m.users[id]
	return ok, nil
}

type fakeEvents struct{ m *memory }

func (f fakeEvents) Create(_ context.Context, e *events.Event) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	cp := *e
	f.m.events[e.ID] = &cp
	return nil
}

func (f fakeEvents) List(context.Context) ([]events.Event, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	list := []events.Event{}
	for _, e := range f.m.events {
		list = append(list, *e)
	}
	return list, nil
}

func (f fakeEvents) GetByID(_ context.Context, id uuid.UUID) (*events.Event, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	e, ok := f.m.events[id]
	if !ok {
		return nil, events.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

type fakeOrganizers struct{ m *memory }

func (f fakeOrganizers) Create(_ context.Context, o *organizers.Organizer) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, existing := range f.m.organizers {
		if existing.Email == o.Email {
			return organizers.ErrDuplicateEmail
		}
	}
	for _, id := range o.Events {
		if _, ok := f.m.events[id]; !ok {
			return organizers.ErrEventNotFound
		}
	}
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	if o.Events == nil {
		o.Events = []uuid.UUID{}
	}
	cp := *o
	f.m.organizers[o.ID] = &cp
	return nil
}

func (f fakeOrganizers) List(context.Context) ([]organizers.Organizer, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	list := []organizers.Organizer{}
	for _, o := range f.m.organizers {
		list = append(list, *o)
	}
	return list, nil
}

func (f fakeOrganizers) GetByID(_ context.Context, id uuid.UUID) (*organizers.Organizer, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	o, ok := f.m.organizers[id]
	if !ok {
		return nil, organizers.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f fakeOrganizers) GetByEmail(_ context.Context, email string) (*organizers.Organizer, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, o := range f.m.organizers {
		if o.Email == email {
			cp := *o
			return &cp, nil
		}
	}
	return nil, organizers.ErrNotFound
}

func (f fakeOrganizers) SetValidated(_ context.Context, id uuid.UUID, validated bool) (*organizers.Organizer, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	o, ok := f.m.organizers[id]
	if !ok {
		return nil, organizers.ErrNotFound
	}
	o.Validated = validated
	cp := *o
	return &cp, nil
}

type fakeAdmins struct{ m *memory }

func (f fakeAdmins) GetByID(_ context.Context, id uuid.UUID) (*admins.Admin, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	a, ok := f.m.admins[id]
	if !ok {
		return nil, admins.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f fakeAdmins) GetByEmail(_ context.Context, email string) (*admins.Admin, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, a := range f.m.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, admins.ErrNotFound
}

func (f fakeAdmins) Upsert(_ context.Context, a *admins.Admin) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, existing := range f.m.admins {
		if existing.Email == a.Email {
			existing.Password = a.Password
			a.ID = existing.ID
			a.CreatedAt = existing.CreatedAt
			return nil
		}
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	cp := *a
	f.m.admins[a.ID] = &cp
	return nil
}

type fakeReviews struct{ m *memory }

func (f fakeReviews) Create(_ context.Context, rv *reviews.Review) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.users[rv.UserID]; !ok {
		return reviews.ErrReferenceNotFound
	}
	if _, ok := f.m.events[rv.EventID]; !ok {
		return reviews.ErrReferenceNotFound
	}
	rv.ID = uuid.New()
	rv.CreatedAt = time.Now()
	rv.Likes = []uuid.UUID{}
	rv.Reports = []uuid.UUID{}
	cp := *rv
	f.m.reviews[rv.ID] = &cp
	return nil
}

func (f fakeReviews) GetByID(_ context.Context, id uuid.UUID) (*reviews.Review, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	rv, ok := f.m.reviews[id]
	if !ok {
		return nil, reviews.ErrNotFound
	}
	cp := *rv
	cp.Likes = slices.Clone(rv.Likes)
	cp.Reports = slices.Clone(rv.Reports)
	return &cp, nil
}

func (f fakeReviews) ListByEvent(_ context.Context, eventID uuid.UUID) ([]reviews.Review, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	list := []reviews.Review{}
	for _, rv := range f.m.reviews {
		if rv.EventID == eventID {
			list = append(list, *rv)
		}
	}
	return list, nil
}

func (f fakeReviews) ListByOrganizer(_ context.Context, organizerID uuid.UUID) ([]reviews.Review, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	list := []reviews.Review{}
	o, ok := f.m.organizers[organizerID]
	if !ok {
		return list, nil
	}
	for _, rv := range f.m.reviews {
		if slices.Contains(o.Events, rv.EventID) {
			list = append(list, *rv)
		}
	}
	return list, nil
}

func (f fakeReviews) Like(_ context.Context, reviewID, userID uuid.UUID) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	rv, ok := f.m.reviews[reviewID]
	if !ok {
		return 0, reviews.ErrNotFound
	}
	if slices.Contains(rv.Likes, userID) {
		return 0, reviews.ErrAlreadyLiked
	}
	rv.Likes = append(rv.Likes, userID)
	return len(rv.Likes), nil
}

func (f fakeReviews) Report(_ context.Context, reviewID, userID uuid.UUID) (*reviews.ReportResult, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	rv, ok := f.m.reviews[reviewID]
	if !ok {
		return nil, reviews.ErrNotFound
	}
	if slices.Contains(rv.Reports, userID) {
		return nil, reviews.ErrAlreadyReported
	}
	rv.Reports = append(rv.Reports, userID)
	wasFlagged := rv.Flagged
	rv.Flagged = rv.Flagged || len(rv.Reports) > reviews.FlagThreshold
	return &reviews.ReportResult{
		Reports:      len(rv.Reports),
		Flagged:      rv.Flagged,
		NewlyFlagged: rv.Flagged && !wasFlagged,
	}, nil
}

type fakeResponses struct{ m *memory }

func (f fakeResponses) Create(_ context.Context, resp *responses.Response) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.reviews[resp.ReviewID]; !ok {
		return responses.ErrReferenceNotFound
	}
	resp.ID = uuid.New()
	resp.CreatedAt = time.Now()
	cp := *resp
	f.m.responses[resp.ID] = &cp
	return nil
}

func (f fakeResponses) ListByReview(_ context.Context, reviewID uuid.UUID) ([]responses.Response, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	list := []responses.Response{}
	for _, resp := range f.m.responses {
		if resp.ReviewID == reviewID {
			list = append(list, *resp)
		}
	}
	return list, nil
}

func (f fakeResponses) CreateForReview(_ context.Context, resp *responses.Response) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	rv, ok := f.m.reviews[resp.ReviewID]
	if !ok {
		return responses.ErrReviewNotFound
	}
	if rv.OrganizerResponse != nil {
		return responses.ErrAlreadyResponded
	}
	resp.ID = uuid.New()
	resp.CreatedAt = time.Now()
	cp := *resp
	f.m.responses[resp.ID] = &cp

	attached := &reviews.OrganizerResponse{ID: resp.ID, Content: resp.Content, CreatedAt: resp.CreatedAt}
	if resp.OrganizerID != nil {
		if o, ok := f.m.organizers[*resp.OrganizerID]; ok {
			attached.Organizer = &reviews.OrganizerSummary{ID: o.ID, Name: o.Name, Email: o.Email}
		}
	}
	rv.OrganizerResponse = attached
	return nil
}

type sentMail struct {
	template string
	username string
	email    string
	data     any
}

// recordingMailer keeps every message instead of sending it.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(templateFile, username, email string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{templateFile, username, email, data})
	return nil
}

func (m *recordingMailer) messages() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.sent)
}

type testApp struct {
	*application
	mem  *memory
	mail *recordingMailer
}

func newTestApplication(t *testing.T) *testApp {
	t.Helper()

	mem := newMemory()
	mail := &recordingMailer{}
	app := &application{
		config: config{
			env:  "test",
			auth: authConfig{basic: basicConfig{user: "ops", pass: "secret"}},
			mail: mailConfig{moderationEmail: "moderation@example.com"},
		},
		store: &storage.Container{
			Users:      fakeUsers{mem},
			Events:     fakeEvents{mem},
			Organizers: fakeOrganizers{mem},
			Reviews:    fakeReviews{mem},
			Responses:  fakeResponses{mem},
			Admins:     fakeAdmins{mem},
		},
		logger:        zap.NewNop().Sugar(),
		mailer:        mail,
		authenticator: auth.NewJWTAuthenticator("test-secret", time.Hour, "eventreview"),
	}
	return &testApp{application: app, mem: mem, mail: mail}
}
