package api

import (
	"sort"
	"strings"
	"sync"

	"edupath/internal/models"
)

type userRecord struct {
	user models.UserIdentity
	hash []byte
}

// memStore keeps every account and record in memory for the lifetime of the
// dev server.
type memStore struct {
	mu       sync.RWMutex
	users    map[string]*userRecord
	byEmail  map[string]string
	profiles map[string]models.StudentProfile
	records  []models.RecommendationRecord
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*userRecord),
		byEmail:  make(map[string]string),
		profiles: make(map[string]models.StudentProfile),
	}
}

func emailKey(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// addUser returns false when the email is taken.
func (s *memStore) addUser(u models.UserIdentity, hash []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := emailKey(u.Email)
	if _, ok := s.byEmail[key]; ok {
		return false
	}
	s.users[u.ID] = &userRecord{user: u, hash: hash}
	s.byEmail[key] = u.ID
	return true
}

func (s *memStore) userByEmail(email string) (*userRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[emailKey(email)]
	if !ok {
		return nil, false
	}
	rec := *s.users[id]
	return &rec, true
}

func (s *memStore) userByID(id string) (models.UserIdentity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.users[id]
	if !ok {
		return models.UserIdentity{}, false
	}
	return rec.user, true
}

func (s *memStore) countRole(role models.Role) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, rec := range s.users {
		if rec.user.Role == role {
			n++
		}
	}
	return n
}

func (s *memStore) profile(userID string) (models.StudentProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	return p, ok
}

func (s *memStore) putProfile(p models.StudentProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.profiles[p.UserID]; ok && p.ID == "" {
		p.ID = old.ID
	}
	s.profiles[p.UserID] = p
}

func (s *memStore) addRecord(r models.RecommendationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
}

// history returns at most limit records of userID, newest first.
func (s *memStore) history(userID string, limit int) []models.RecommendationRecord {
	s.mu.RLock()
	var out []models.RecommendationRecord
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt.Time) })
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []models.RecommendationRecord{}
	}
	return out
}

func (s *memStore) countRecords(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.records {
		if r.UserID == userID {
			n++
		}
	}
	return n
}
