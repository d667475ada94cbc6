package bookings

import "errors"

var (
	// ErrMissingDoctor is returned when doctorName is absent.
	ErrMissingDoctor = errors.New("doctorName is required")

	// ErrMissingSpecialty is returned when specialty is absent.
	ErrMissingSpecialty = errors.New("specialty is required")

	// ErrMissingClinic is returned when clinic is absent.
	ErrMissingClinic = errors.New("clinic is required")

	// ErrMissingTime is returned when the appointment time is absent.
	ErrMissingTime = errors.New("time is required")

	// ErrMissingUser is returned when userId is absent.
	ErrMissingUser = errors.New("userId is required")

	// ErrInvalidDate is returned when date is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("date must be formatted YYYY-MM-DD")

	// ErrBookingNotFound is returned when a booking id has no row.
	ErrBookingNotFound = errors.New("booking not found")
)
