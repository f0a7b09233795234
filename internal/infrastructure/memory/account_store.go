package memory

import (
	"context"
	"time"

	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
	"github.com/bloodlink/bloodlink-backend/internal/domain/repository"
	"github.com/bloodlink/bloodlink-backend/pkg/apperr"
)

type AccountStore struct {
	guard
	byEmail map[string]*entity.Account
}

func NewAccountStore() *AccountStore {
	return &AccountStore{byEmail: make(map[string]*entity.Account)}
}

func (s *AccountStore) Insert(_ context.Context, a *entity.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[a.Email]; ok {
		return apperr.New(apperr.AlreadyExists, "account already exists")
	}
	if a.ID == "" {
		a.ID = newID()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	cp := *a
	s.byEmail[a.Email] = &cp
	return nil
}

func (s *AccountStore) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.byEmail[email]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, apperr.New(apperr.NotFound, "account not found")
}

func (s *AccountStore) GetByID(_ context.Context, id string) (*entity.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.byEmail {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "account not found")
}

func (s *AccountStore) Update(_ context.Context, a *entity.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.byEmail[a.Email]
	if !ok {
		return apperr.New(apperr.NotFound, "account not found")
	}
	cp := *a
	cp.CreatedAt = stored.CreatedAt
	cp.UpdatedAt = time.Now().UTC()
	s.byEmail[a.Email] = &cp
	return nil
}

func (s *AccountStore) List(_ context.Context, f repository.AccountFilter, p repository.Page) ([]*entity.Account, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := []*entity.Account{}
	for _, a := range s.byEmail {
		if f.Search != "" &&
			!containsFold(a.Name, f.Search) &&
			!containsFold(a.Email, f.Search) &&
			!containsFold(a.Phone, f.Search) {
			continue
		}
		cp := *a
		matched = append(matched, &cp)
	}
	sortAccountsNewestFirst(matched)
	total := len(matched)
	return paginateAccounts(matched, p), total, nil
}

func (s *AccountStore) SearchDonors(_ context.Context, f repository.DonorFilter) ([]*entity.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := []*entity.Account{}
	for _, a := range s.byEmail {
		if a.Role != entity.RoleDonor || a.Status != entity.AccountActive {
			continue
		}
		if f.BloodGroup != "" && a.BloodGroup != f.BloodGroup {
			continue
		}
		if f.District != "" && a.District != f.District {
			continue
		}
		if f.Upazila != "" && a.Upazila != f.Upazila {
			continue
		}
		cp := *a
		matched = append(matched, &cp)
	}
	sortAccountsNewestFirst(matched)
	return matched, nil
}

// Len reports how many accounts are stored; used by tests.
func (s *AccountStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byEmail)
}

func paginateAccounts(in []*entity.Account, p repository.Page) []*entity.Account {
	if p.Limit <= 0 {
		return in
	}
	start := p.Offset()
	if start >= len(in) {
		return []*entity.Account{}
	}
	end := start + p.Limit
	if end > len(in) {
		end = len(in)
	}
	return in[start:end]
}

var _ repository.AccountRepository = (*AccountStore)(nil)
