package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/bloodlink/bloodlink-backend/internal/authz"
	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
	repo "github.com/bloodlink/bloodlink-backend/internal/domain/repository"
	"github.com/bloodlink/bloodlink-backend/internal/referencedata"
	"github.com/bloodlink/bloodlink-backend/pkg/apperr"
	"github.com/bloodlink/bloodlink-backend/pkg/mailer"
)

// DonationService orchestrates the donation-request lifecycle. Status moves
// only through Transition; the generic Update path has no way to express a
// status change.
type DonationService struct {
	Donations repo.DonationRepository
	Accounts  repo.AccountRepository
	ES        *elasticsearch.Client
	ESIndex   string
	Queue     JobQueue
	Logger    *logrus.Logger
}

func NewDonationService(donations repo.DonationRepository, accounts repo.AccountRepository, es *elasticsearch.Client, esIndex string, queue JobQueue, logger *logrus.Logger) *DonationService {
	return &DonationService{
		Donations: donations,
		Accounts:  accounts,
		ES:        es,
		ESIndex:   esIndex,
		Queue:     queue,
		Logger:    logger,
	}
}

type CreateDonationInput struct {
	RecipientName  string
	District       string
	Upazila        string
	HospitalName   string
	FullAddress    string
	BloodGroup     string
	DonationDate   string
	DonationTime   string
	RequestMessage string
}

// Create posts a new donation request for the caller. Blocked accounts are
// rejected before anything is written, and the initial status is always
// pending no matter what the client sent.
func (s *DonationService) Create(ctx context.Context, callerEmail string, in CreateDonationInput) (*entity.DonationRequest, error) {
	caller, err := loadCaller(ctx, s.Accounts, callerEmail)
	if err != nil {
		return nil, err
	}
	if caller.IsBlocked() {
		return nil, apperr.New(apperr.AccountBlocked, "blocked accounts cannot create donation requests")
	}
	if !referencedata.ValidBloodGroup(in.BloodGroup) {
		return nil, apperr.New(apperr.Invalid, "unknown blood group %q", in.BloodGroup)
	}
	d := &entity.DonationRequest{
		RequesterEmail: caller.Email,
		RequesterName:  caller.Name,
		RecipientName:  in.RecipientName,
		District:       in.District,
		Upazila:        in.Upazila,
		HospitalName:   in.HospitalName,
		FullAddress:    in.FullAddress,
		BloodGroup:     in.BloodGroup,
		DonationDate:   in.DonationDate,
		DonationTime:   in.DonationTime,
		RequestMessage: in.RequestMessage,
		Status:         entity.DonationPending,
	}
	if err := s.Donations.Insert(ctx, d); err != nil {
		return nil, err
	}
	s.index(ctx, d)
	return d, nil
}

// Get returns one donation request to any authenticated caller.
func (s *DonationService) Get(ctx context.Context, callerEmail, id string) (*entity.DonationRequest, error) {
	caller, err := loadCaller(ctx, s.Accounts, callerEmail)
	if err != nil {
		return nil, err
	}
	if err := authz.Decide(caller, authz.AnyAuthenticated, ""); err != nil {
		return nil, err
	}
	return s.Donations.GetByID(ctx, id)
}

// Update edits the content fields of a request. Owner or admin. The patch
// cannot carry id, requester identity, or status.
func (s *DonationService) Update(ctx context.Context, callerEmail, id string, patch entity.DonationPatch) (*entity.DonationRequest, error) {
	caller, err := loadCaller(ctx, s.Accounts, callerEmail)
	if err != nil {
		return nil, err
	}
	d, err := s.Donations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Decide(caller, authz.OwnerOrAdmin, d.RequesterEmail); err != nil {
		return nil, err
	}
	if patch.BloodGroup != nil && !referencedata.ValidBloodGroup(*patch.BloodGroup) {
		return nil, apperr.New(apperr.Invalid, "unknown blood group %q", *patch.BloodGroup)
	}
	patch.Apply(d)
	d.UpdatedAt = time.Now().UTC()
	if err := s.Donations.Update(ctx, d); err != nil {
		return nil, err
	}
	s.index(ctx, d)
	return d, nil
}

// Transition moves a request to the next lifecycle status via a conditional
// update keyed on the status the caller observed. A lost race returns
// Conflict; an illegal successor returns InvalidTransition with the state
// untouched. Volunteer or admin only.
func (s *DonationService) Transition(ctx context.Context, callerEmail, id string, next entity.DonationStatus) (*entity.DonationRequest, error) {
	caller, err := loadCaller(ctx, s.Accounts, callerEmail)
	if err != nil {
		return nil, err
	}
	if !next.Valid() {
		return nil, apperr.New(apperr.Invalid, "unknown status %q", next)
	}
	d, err := s.Donations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Decide(caller, authz.VolunteerOrAdmin, ""); err != nil {
		return nil, err
	}
	if !d.Status.CanTransitionTo(next) {
		return nil, apperr.New(apperr.InvalidTransition, "cannot move %s request to %s", d.Status, next)
	}

	now := time.Now().UTC()
	ok, err := s.Donations.UpdateStatus(ctx, id, d.Status, next, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The row moved under us (or vanished). Re-read to tell which.
		if _, gErr := s.Donations.GetByID(ctx, id); gErr != nil {
			return nil, gErr
		}
		return nil, apperr.New(apperr.Conflict, "status changed concurrently, expected %s", d.Status)
	}

	d.Status = next
	d.UpdatedAt = now
	s.index(ctx, d)
	s.notifyStatus(ctx, d, caller)
	return d, nil
}

// Delete removes a request. Owner or admin.
func (s *DonationService) Delete(ctx context.Context, callerEmail, id string) error {
	caller, err := loadCaller(ctx, s.Accounts, callerEmail)
	if err != nil {
		return err
	}
	d, err := s.Donations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.Decide(caller, authz.OwnerOrAdmin, d.RequesterEmail); err != nil {
		return err
	}
	return s.Donations.Delete(ctx, id)
}

// ListPublicPending is the unauthenticated browse page: pending requests only.
func (s *DonationService) ListPublicPending(ctx context.Context, p repo.Page) ([]*entity.DonationRequest, int, error) {
	return s.Donations.List(ctx, repo.DonationFilter{Status: entity.DonationPending}, p)
}

// ListMine pages through the caller's own requests.
func (s *DonationService) ListMine(ctx context.Context, callerEmail string, status entity.DonationStatus, p repo.Page) ([]*entity.DonationRequest, int, error) {
	caller, err := loadCaller(ctx, s.Accounts, callerEmail)
	if err != nil {
		return nil, 0, err
	}
	if status != "" && !status.Valid() {
		return nil, 0, apperr.New(apperr.Invalid, "unknown status %q", status)
	}
	return s.Donations.List(ctx, repo.DonationFilter{RequesterEmail: caller.Email, Status: status}, p)
}

// ListAll is the management listing with multi-field search. Volunteer or
// admin. Search goes through Elasticsearch when configured and falls back to
// the SQL repository otherwise.
func (s *DonationService) ListAll(ctx context.Context, callerEmail string, f repo.DonationFilter, p repo.Page) ([]*entity.DonationRequest, int, error) {
	caller, err := loadCaller(ctx, s.Accounts, callerEmail)
	if err != nil {
		return nil, 0, err
	}
	if err := authz.Decide(caller, authz.VolunteerOrAdmin, ""); err != nil {
		return nil, 0, err
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, apperr.New(apperr.Invalid, "unknown status %q", f.Status)
	}
	if f.Search != "" && s.ES != nil && s.ESIndex != "" {
		if ds, total, sErr := s.searchIndex(ctx, f, p); sErr == nil {
			return ds, total, nil
		}
		// fall through to SQL on any search-index failure
	}
	return s.Donations.List(ctx, f, p)
}

// MySummary is the donor home screen: per-status totals plus the most recent
// requests.
type MySummary struct {
	Totals map[entity.DonationStatus]int
	Recent []*entity.DonationRequest
}

func (s *DonationService) Summary(ctx context.Context, callerEmail string) (*MySummary, error) {
	caller, err := loadCaller(ctx, s.Accounts, callerEmail)
	if err != nil {
		return nil, err
	}
	totals, err := s.Donations.CountByRequester(ctx, caller.Email)
	if err != nil {
		return nil, err
	}
	recent, _, err := s.Donations.List(ctx, repo.DonationFilter{RequesterEmail: caller.Email}, repo.Page{Number: 1, Limit: 4})
	if err != nil {
		return nil, err
	}
	return &MySummary{Totals: totals, Recent: recent}, nil
}

func (s *DonationService) notifyStatus(ctx context.Context, d *entity.DonationRequest, actor *entity.Account) {
	if s.Queue == nil {
		return
	}
	job := mailer.EmailJob{
		To:       d.RequesterEmail,
		Subject:  "Your donation request is now " + string(d.Status),
		Template: mailer.TemplateDonationStatus,
		Data: map[string]any{
			"Name":          d.RequesterName,
			"RecipientName": d.RecipientName,
			"BloodGroup":    d.BloodGroup,
			"HospitalName":  d.HospitalName,
			"Status":        string(d.Status),
			"DonorName":     actor.Name,
			"DonorEmail":    actor.Email,
		},
	}
	if err := s.Queue.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("donation_id", d.ID).Warn("status notification publish failed")
	}
}

func (s *DonationService) index(ctx context.Context, d *entity.DonationRequest) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":              d.ID,
		"requester_email": d.RequesterEmail,
		"requester_name":  d.RequesterName,
		"recipient_name":  d.RecipientName,
		"district":        d.District,
		"upazila":         d.Upazila,
		"hospital_name":   d.HospitalName,
		"blood_group":     d.BloodGroup,
		"status":          string(d.Status),
		"created_at":      d.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":      d.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: d.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("donation_id", d.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("donation_id", d.ID).Warn("es index response error")
	}
}

func (s *DonationService) searchIndex(ctx context.Context, f repo.DonationFilter, p repo.Page) ([]*entity.DonationRequest, int, error) {
	must := []map[string]any{
		{
			"multi_match": map[string]any{
				"query":  f.Search,
				"fields": []string{"recipient_name^2", "requester_name", "hospital_name", "blood_group"},
			},
		},
	}
	if f.Status != "" {
		must = append(must, map[string]any{"term": map[string]any{"status": string(f.Status)}})
	}
	limit := p.Limit
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	query := map[string]any{
		"query": map[string]any{"bool": map[string]any{"must": must}},
		"from":  p.Offset(),
		"size":  limit,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
		s.ES.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, 0, apperr.New(apperr.Unavailable, "search index error: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, err
	}

	// Hydrate from the source of truth; the index stores a projection.
	out := make([]*entity.DonationRequest, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		d, gErr := s.Donations.GetByID(ctx, h.ID)
		if gErr != nil {
			continue // stale index entry
		}
		out = append(out, d)
	}
	return out, parsed.Hits.Total.Value, nil
}
