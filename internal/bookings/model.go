// Package bookings implements the appointment booking workflow: a request
// is persisted as a pending row and promoted to confirmed within the same
// call. A background reconciler repairs rows stranded in pending when the
// confirmation update fails.
package bookings

import (
	"strings"
	"time"
)

// Booking lifecycle states. Cancellation is set out-of-band by a separate
// surface and never produced here.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusFailed    = "failed"
)

// Booking is the persisted appointment row.
type Booking struct {
	ID              string     `json:"id"`
	DoctorName      string     `json:"doctor_name"`
	Specialty       string     `json:"specialty"`
	Clinic          string     `json:"clinic"`
	AppointmentDate time.Time  `json:"appointment_date"`
	AppointmentTime string     `json:"appointment_time"`
	UserID          string     `json:"user_id"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
	ConfirmAttempts int        `json:"-"`
}

// SubmitRequest is the typed booking submission body. Every field is
// required; the date must be YYYY-MM-DD. No foreign-key validation happens
// here — identifiers are opaque and the store is the authority.
type SubmitRequest struct {
	DoctorName string `json:"doctorName"`
	Specialty  string `json:"specialty"`
	Clinic     string `json:"clinic"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	UserID     string `json:"userId"`
}

// Validate checks the request and returns the parsed appointment date.
func (r *SubmitRequest) Validate() (time.Time, error) {
	if strings.TrimSpace(r.DoctorName) == "" {
		return time.Time{}, ErrMissingDoctor
	}
	if strings.TrimSpace(r.Specialty) == "" {
		return time.Time{}, ErrMissingSpecialty
	}
	if strings.TrimSpace(r.Clinic) == "" {
		return time.Time{}, ErrMissingClinic
	}
	if strings.TrimSpace(r.Time) == "" {
		return time.Time{}, ErrMissingTime
	}
	if strings.TrimSpace(r.UserID) == "" {
		return time.Time{}, ErrMissingUser
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(r.Date))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}
