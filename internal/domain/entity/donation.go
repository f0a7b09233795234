package entity

import "time"

// DonationStatus is the lifecycle state of a donation request.
//
//	pending -> inprogress -> completed
//	pending | inprogress -> canceled
//
// completed and canceled are terminal.
type DonationStatus string

const (
	DonationPending    DonationStatus = "pending"
	DonationInProgress DonationStatus = "inprogress"
	DonationCompleted  DonationStatus = "completed"
	DonationCanceled   DonationStatus = "canceled"
)

func (s DonationStatus) Valid() bool {
	switch s {
	case DonationPending, DonationInProgress, DonationCompleted, DonationCanceled:
		return true
	}
	return false
}

func (s DonationStatus) Terminal() bool {
	return s == DonationCompleted || s == DonationCanceled
}

// CanTransitionTo reports whether next is a permitted successor of s.
func (s DonationStatus) CanTransitionTo(next DonationStatus) bool {
	switch s {
	case DonationPending:
		return next == DonationInProgress || next == DonationCanceled
	case DonationInProgress:
		return next == DonationCompleted || next == DonationCanceled
	default:
		return false
	}
}

// DonationRequest is a request for blood tracked through the status
// lifecycle. RequesterEmail never changes after creation, and Status is only
// ever moved through the guarded transition operation.
type DonationRequest struct {
	ID             string
	RequesterEmail string
	RequesterName  string
	RecipientName  string
	District       string
	Upazila        string
	HospitalName   string
	FullAddress    string
	BloodGroup     string
	DonationDate   string
	DonationTime   string
	RequestMessage string
	Status         DonationStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DonationPatch carries the content fields an owner or admin may edit.
// Identity (ID, RequesterEmail) and Status have no representation here, so
// the generic update path cannot hijack ownership or bypass the transition
// guard.
type DonationPatch struct {
	RecipientName  *string
	District       *string
	Upazila        *string
	HospitalName   *string
	FullAddress    *string
	BloodGroup     *string
	DonationDate   *string
	DonationTime   *string
	RequestMessage *string
}

func (p DonationPatch) Apply(d *DonationRequest) {
	if p.RecipientName != nil {
		d.RecipientName = *p.RecipientName
	}
	if p.District != nil {
		d.District = *p.District
	}
	if p.Upazila != nil {
		d.Upazila = *p.Upazila
	}
	if p.HospitalName != nil {
		d.HospitalName = *p.HospitalName
	}
	if p.FullAddress != nil {
		d.FullAddress = *p.FullAddress
	}
	if p.BloodGroup != nil {
		d.BloodGroup = *p.BloodGroup
	}
	if p.DonationDate != nil {
		d.DonationDate = *p.DonationDate
	}
	if p.DonationTime != nil {
		d.DonationTime = *p.DonationTime
	}
	if p.RequestMessage != nil {
		d.RequestMessage = *p.RequestMessage
	}
}
