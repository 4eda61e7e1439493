package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"menuCms/internal/modules/menus/domain"
	restaurants "menuCms/internal/modules/restaurants/domain"
)

var errDiskFull = errors.New("disk full")

type memoryStore struct {
	mu      sync.Mutex
	doc     domain.Document
	saveErr error
	saves   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{doc: domain.Document{}}
}

func (s *memoryStore) LoadAll(context.Context) (domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneDocument(s.doc), nil
}

func (s *memoryStore) SaveAll(_ context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.doc = cloneDocument(doc)
	return nil
}

func cloneDocument(doc domain.Document) domain.Document {
	out := domain.Document{}
	for rid, weeks := range doc {
		out[rid] = make(map[string]domain.WeekMenu, len(weeks))
		for key, week := range weeks {
			for i := range week.Days {
				week.Days[i].Dishes = append([]domain.Dish(nil), week.Days[i].Dishes...)
			}
			out[rid][key] = week
		}
	}
	return out
}

type recordingActivity struct {
	entries []domain.ActivityEntry
}

func (r *recordingActivity) Append(_ context.Context, entry domain.ActivityEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

type recordingPublisher struct {
	messages []*domain.Message
	err      error
}

func (r *recordingPublisher) Publish(_ context.Context, msg *domain.Message) error {
	r.messages = append(r.messages, msg)
	return r.err
}

// 2024-01-17 is a Wednesday.
var fixedNow = time.Date(2024, time.January, 17, 10, 30, 0, 0, time.UTC)

var (
	week15 = domain.NewDate(2024, time.January, 15)
	week22 = domain.NewDate(2024, time.January, 22)
	week08 = domain.NewDate(2024, time.January, 8)
)

type fixture struct {
	store    *memoryStore
	activity *recordingActivity
	events   *recordingPublisher
	service  *MenuService
}

func newFixture() *fixture {
	catalog, err := restaurants.NewCatalog(restaurants.DefaultRestaurants())
	if err != nil {
		panic(err)
	}
	f := &fixture{
		store:    newMemoryStore(),
		activity: &recordingActivity{},
		events:   &recordingPublisher{},
	}
	clock := domain.NewClock(time.UTC, func() time.Time { return fixedNow })
	f.service = NewMenuService(f.store, f.activity, f.events, catalog, domain.DefaultSettings(), clock)
	return f
}

var editor = Actor{UserID: "admin", Name: "Administrator", IP: "10.0.0.1"}

func gulasSubmission() domain.Submission {
	return domain.Submission{Days: map[string]domain.DaySubmission{
		"0": {Dishes: map[string][]domain.DishSubmission{
			"soup": {{Name: "Gulášová polévka", Price: "45"}},
			"main": {
				{Name: "Guláš", Price: "120", GlutenFree: "1"},
				{Name: "Smažený sýr", Price: 135, Vegetarian: true},
			},
		}},
		"2": {Closed: "1", ClosedNote: "Státní svátek"},
	}}
}
