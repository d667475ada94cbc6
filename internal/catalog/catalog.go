// Package catalog holds the static table of clinic services and the slug
// mapping used to address them from the front end.
package catalog

import (
	"sort"
	"strings"

	"github.com/wolfman30/clinic-booking-platform/internal/availability"
)

// Service is one bookable offering with its weekly schedule.
type Service struct {
	Slug        string
	Name        string
	Description string
	Duration    string
	Schedule    availability.Schedule
}

// CreateServiceSlug derives the canonical URL-safe identifier for a
// service name. Runs of non-alphanumeric characters collapse to a single
// hyphen and the result carries no leading or trailing hyphen:
// "Teeth Whitening" -> "teeth-whitening".
func CreateServiceSlug(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

var weekdaysOnly = availability.Schedule{
	"Mon": "09:00 - 18:00",
	"Tue": "09:00 - 18:00",
	"Wed": "09:00 - 18:00",
	"Thu": "09:00 - 18:00",
	"Fri": "09:00 - 17:00",
	"Sat": availability.Closed,
	"Sun": availability.Closed,
}

var withSaturdays = availability.Schedule{
	"Mon": "09:00 - 18:00",
	"Tue": "09:00 - 18:00",
	"Wed": "09:00 - 18:00",
	"Thu": "09:00 - 18:00",
	"Fri": "09:00 - 17:00",
	"Sat": "10:00 - 14:00",
	"Sun": availability.Closed,
}

// services is the static catalog, keyed by canonical slug.
var services = map[string]*Service{
	"general-consultation": {
		Slug:        "general-consultation",
		Name:        "General Consultation",
		Description: "Initial examination and treatment planning.",
		Duration:    "30 min",
		Schedule:    withSaturdays,
	},
	"teeth-whitening": {
		Slug:        "teeth-whitening",
		Name:        "Teeth Whitening",
		Description: "In-clinic whitening session.",
		Duration:    "60 min",
		Schedule:    weekdaysOnly,
	},
	"dental-implants": {
		Slug:        "dental-implants",
		Name:        "Dental Implants",
		Description: "Implant placement and follow-up.",
		Duration:    "90 min",
		Schedule:    weekdaysOnly,
	},
	"orthodontics": {
		Slug:        "orthodontics",
		Name:        "Orthodontics",
		Description: "Braces and aligner consultations.",
		Duration:    "45 min",
		Schedule:    weekdaysOnly,
	},
	"root-canal-treatment": {
		Slug:        "root-canal-treatment",
		Name:        "Root Canal Treatment",
		Description: "Endodontic therapy.",
		Duration:    "90 min",
		Schedule:    weekdaysOnly,
	},
	"pediatric-dentistry": {
		Slug:        "pediatric-dentistry",
		Name:        "Pediatric Dentistry",
		Description: "Dental care for children.",
		Duration:    "30 min",
		Schedule:    withSaturdays,
	},
}

// ServiceBySlug looks up a catalog entry by its canonical slug.
func ServiceBySlug(slug string) (*Service, bool) {
	s, ok := services[slug]
	return s, ok
}

// ResolveService maps a human-readable service name to its catalog entry
// via the slug mapper.
func ResolveService(name string) (*Service, bool) {
	return ServiceBySlug(CreateServiceSlug(name))
}

// Services returns every catalog entry. The returned slice is sorted by
// slug so callers render a stable order.
func Services() []*Service {
	out := make([]*Service, 0, len(services))
	for _, s := range services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}
