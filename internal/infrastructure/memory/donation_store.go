package memory

import (
	"context"
	"time"

	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
	"github.com/bloodlink/bloodlink-backend/internal/domain/repository"
	"github.com/bloodlink/bloodlink-backend/pkg/apperr"
)

type DonationStore struct {
	guard
	donations map[string]*entity.DonationRequest
}

func NewDonationStore() *DonationStore {
	return &DonationStore{donations: make(map[string]*entity.DonationRequest)}
}

func (s *DonationStore) Insert(_ context.Context, d *entity.DonationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = newID()
	}
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	cp := *d
	s.donations[d.ID] = &cp
	return nil
}

func (s *DonationStore) GetByID(_ context.Context, id string) (*entity.DonationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.donations[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, apperr.New(apperr.NotFound, "donation request not found")
}

// Update replaces content fields only; requester identity and status are
// preserved from the stored copy no matter what the argument carries.
func (s *DonationStore) Update(_ context.Context, d *entity.DonationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.donations[d.ID]
	if !ok {
		return apperr.New(apperr.NotFound, "donation request not found")
	}
	cp := *d
	cp.RequesterEmail = stored.RequesterEmail
	cp.Status = stored.Status
	cp.CreatedAt = stored.CreatedAt
	cp.UpdatedAt = time.Now().UTC()
	s.donations[d.ID] = &cp
	return nil
}

// UpdateStatus performs the compare-and-set under the store lock, mirroring
// the conditional UPDATE the Postgres implementation issues.
func (s *DonationStore) UpdateStatus(_ context.Context, id string, from, to entity.DonationStatus, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[id]
	if !ok || d.Status != from {
		return false, nil
	}
	d.Status = to
	d.UpdatedAt = at
	return true, nil
}

func (s *DonationStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.donations[id]; !ok {
		return apperr.New(apperr.NotFound, "donation request not found")
	}
	delete(s.donations, id)
	return nil
}

func (s *DonationStore) List(_ context.Context, f repository.DonationFilter, p repository.Page) ([]*entity.DonationRequest, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := []*entity.DonationRequest{}
	for _, d := range s.donations {
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if f.RequesterEmail != "" && d.RequesterEmail != f.RequesterEmail {
			continue
		}
		if f.Search != "" &&
			!containsFold(d.RecipientName, f.Search) &&
			!containsFold(d.RequesterName, f.Search) &&
			!containsFold(d.HospitalName, f.Search) &&
			!containsFold(d.BloodGroup, f.Search) {
			continue
		}
		cp := *d
		matched = append(matched, &cp)
	}
	sortDonationsNewestFirst(matched)
	total := len(matched)
	if p.Limit > 0 {
		start := p.Offset()
		if start >= len(matched) {
			matched = []*entity.DonationRequest{}
		} else {
			end := start + p.Limit
			if end > len(matched) {
				end = len(matched)
			}
			matched = matched[start:end]
		}
	}
	return matched, total, nil
}

func (s *DonationStore) CountByRequester(_ context.Context, email string) (map[entity.DonationStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[entity.DonationStatus]int{}
	for _, d := range s.donations {
		if d.RequesterEmail == email {
			out[d.Status]++
		}
	}
	return out, nil
}

// Len reports how many donation requests are stored; used by tests.
func (s *DonationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.donations)
}

var _ repository.DonationRepository = (*DonationStore)(nil)
