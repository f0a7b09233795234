package memory

import (
	"context"
	"sort"
	"time"

	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
	"github.com/bloodlink/bloodlink-backend/internal/domain/repository"
	"github.com/bloodlink/bloodlink-backend/pkg/apperr"
)

type FundingStore struct {
	guard
	byIntent map[string]*entity.FundingRecord
}

func NewFundingStore() *FundingStore {
	return &FundingStore{byIntent: make(map[string]*entity.FundingRecord)}
}

// Insert enforces payment-intent uniqueness atomically with the write, the
// same guarantee the Postgres unique index gives: of two concurrent inserts
// for one intent, exactly one wins and the other gets AlreadyExists.
func (s *FundingStore) Insert(_ context.Context, rec *entity.FundingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byIntent[rec.PaymentIntentID]; ok {
		return apperr.New(apperr.AlreadyExists, "funding record already exists")
	}
	if rec.ID == "" {
		rec.ID = newID()
	}
	rec.CreatedAt = time.Now().UTC()
	cp := *rec
	s.byIntent[rec.PaymentIntentID] = &cp
	return nil
}

func (s *FundingStore) GetByPaymentIntent(_ context.Context, intentID string) (*entity.FundingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.byIntent[intentID]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, apperr.New(apperr.NotFound, "funding record not found")
}

func (s *FundingStore) List(_ context.Context, limit int, checkoutSessionID string) ([]*entity.FundingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 10
	}
	out := []*entity.FundingRecord{}
	for _, rec := range s.byIntent {
		if checkoutSessionID != "" && rec.CheckoutSessionID != checkoutSessionID {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len reports the ledger size; used by idempotency tests.
func (s *FundingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byIntent)
}

var _ repository.FundingRepository = (*FundingStore)(nil)
