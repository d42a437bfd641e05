package entities

import (
	"fmt"
	"time"
)

// InvitationStatus is the invitation state machine: pending -> accepted | rejected.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// ParseResponse accepts only the two terminal statuses.
func ParseResponse(s string) (InvitationStatus, error) {
	switch st := InvitationStatus(s); st {
	case InvitationAccepted, InvitationRejected:
		return st, nil
	}
	return "", fmt.Errorf("%w (got %q)", ErrInvalidResponse, s)
}

// Invitation asks a person to join a department as a volunteer.
type Invitation struct {
	ID           string
	PersonID     string
	DepartmentID string
	InvitedBy    string
	Status       InvitationStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Pending reports whether the invitation still awaits a response.
func (i Invitation) Pending() bool { return i.Status == InvitationPending }
