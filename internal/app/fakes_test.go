package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"campus_life/internal/domain"
)

// In-memory stand-ins for the gateway and campus store.

type fakeGateway struct {
	mu       sync.Mutex
	campuses []domain.Campus
	accs     map[int64][]domain.Accommodation
	rests    map[int64][]domain.Restaurant
	clinics  map[int64][]domain.Clinic
	errs     map[string]error // by table
	calls    map[string]int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		campuses: []domain.Campus{
			{ID: 1, Name: "Anggrek", City: "Jakarta"},
			{ID: 2, Name: "Syahdan", City: "Jakarta"},
			{ID: 3, Name: "Alam Sutera", City: "Tangerang"},
		},
		accs: map[int64][]domain.Accommodation{
			1: {{ID: 11, CampusID: 1, Name: "Kost Anggrek", Price: 2500000}},
			2: {{ID: 21, CampusID: 2, Name: "Kost Syahdan", Price: 1800000}},
		},
		rests: map[int64][]domain.Restaurant{
			1: {{ID: 12, CampusID: 1, Cuisine: "Indonesian"}},
		},
		clinics: map[int64][]domain.Clinic{
			1: {{ID: 13, CampusID: 1, HasEmergencyService: true}},
		},
		errs:  map[string]error{},
		calls: map[string]int{},
	}
}

func (f *fakeGateway) hit(table string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[table]++
	return f.errs[table]
}

func (f *fakeGateway) count(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[table]
}

func (f *fakeGateway) ListCampuses(ctx context.Context) ([]domain.Campus, error) {
	if err := f.hit("campuses"); err != nil {
		return nil, err
	}
	return f.campuses, nil
}

func (f *fakeGateway) ListAccommodations(ctx context.Context, s domain.Scope) ([]domain.Accommodation, error) {
	if err := f.hit("accommodations"); err != nil {
		return nil, err
	}
	if s.CampusID == nil {
		var all []domain.Accommodation
		for _, v := range f.accs {
			all = append(all, v...)
		}
		return all, nil
	}
	return f.accs[*s.CampusID], nil
}

func (f *fakeGateway) ListRestaurants(ctx context.Context, s domain.Scope) ([]domain.Restaurant, error) {
	if err := f.hit("restaurants"); err != nil {
		return nil, err
	}
	if s.CampusID == nil {
		return nil, nil
	}
	return f.rests[*s.CampusID], nil
}

func (f *fakeGateway) ListClinics(ctx context.Context, s domain.Scope) ([]domain.Clinic, error) {
	if err := f.hit("clinics"); err != nil {
		return nil, err
	}
	if s.CampusID == nil {
		return nil, nil
	}
	return f.clinics[*s.CampusID], nil
}

type miss struct {
	campusID int64
	table    string
	status   int
}

type fakeRepo struct {
	mu       sync.Mutex
	campuses []domain.Campus
	accs     map[int64][]domain.Accommodation
	rests    map[int64][]domain.Restaurant
	clinics  map[int64][]domain.Clinic
	misses   []miss
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		accs:    map[int64][]domain.Accommodation{},
		rests:   map[int64][]domain.Restaurant{},
		clinics: map[int64][]domain.Clinic{},
	}
}

func (f *fakeRepo) ListCampuses(ctx context.Context) ([]domain.Campus, error) { return f.campuses, nil }
func (f *fakeRepo) ListAccommodations(ctx context.Context, s domain.Scope) ([]domain.Accommodation, error) {
	return nil, nil
}
func (f *fakeRepo) ListRestaurants(ctx context.Context, s domain.Scope) ([]domain.Restaurant, error) {
	return nil, nil
}
func (f *fakeRepo) ListClinics(ctx context.Context, s domain.Scope) ([]domain.Clinic, error) {
	return nil, nil
}
func (f *fakeRepo) UpsertCampus(ctx context.Context, c domain.Campus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.campuses = append(f.campuses, c)
	return nil
}
func (f *fakeRepo) ReplaceAccommodations(ctx context.Context, id int64, rs []domain.Accommodation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accs[id] = rs
	return nil
}
func (f *fakeRepo) ReplaceRestaurants(ctx context.Context, id int64, rs []domain.Restaurant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rests[id] = rs
	return nil
}
func (f *fakeRepo) ReplaceClinics(ctx context.Context, id int64, rs []domain.Clinic) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clinics[id] = rs
	return nil
}
func (f *fakeRepo) LogMiss(ctx context.Context, id int64, table string, status int, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.misses = append(f.misses, miss{id, table, status})
	return nil
}

// fakeCache stores JSON like the redis adapter does.
type fakeCache struct {
	mu      sync.Mutex
	store   map[string][]byte
	deleted []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.deleted = append(c.deleted, key)
	return nil
}

type fakeStore struct {
	mu sync.Mutex
	m  map[string]domain.Campus
}

func newFakeStore() *fakeStore { return &fakeStore{m: map[string]domain.Campus{}} }

func (s *fakeStore) Save(ctx context.Context, session string, c domain.Campus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[session] = c
	return nil
}
func (s *fakeStore) Load(ctx context.Context, session string) (domain.Campus, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.m[session]
	return c, ok, nil
}
func (s *fakeStore) Clear(ctx context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, session)
	return nil
}

type failingStore struct{}

func (failingStore) Save(context.Context, string, domain.Campus) error { return errors.New("redis down") }
func (failingStore) Load(context.Context, string) (domain.Campus, bool, error) {
	return domain.Campus{}, false, nil
}
func (failingStore) Clear(context.Context, string) error { return errors.New("redis down") }

type fakeAuth struct {
	signedIn  string
	signedOut string
	recovered string
}

func (a *fakeAuth) SignIn(ctx context.Context, email, password string) (domain.AuthSession, error) {
	a.signedIn = email
	return domain.AuthSession{AccessToken: "tok", User: domain.User{Email: email}}, nil
}
func (a *fakeAuth) SignUp(ctx context.Context, email, password string, p domain.Profile) (domain.AuthSession, error) {
	return domain.AuthSession{User: domain.User{Email: email, Profile: p}}, nil
}
func (a *fakeAuth) SignOut(ctx context.Context, token string) error {
	a.signedOut = token
	return nil
}
func (a *fakeAuth) RecoverPassword(ctx context.Context, email string) error {
	a.recovered = email
	return nil
}
