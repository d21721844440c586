// Package model defines the position opening document and its field types.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical, locale-independent textual form for the
// calendar dates carried by a posting.
const DateLayout = "2006-01-02"

// Date is a calendar date (no time-of-day component). It marshals to and
// from the canonical YYYY-MM-DD form.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month, and day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// String renders the date in the canonical YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler using the canonical form.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting the canonical form.
func (d *Date) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("invalid date literal %s: %w", string(data), err)
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid date %q (want %s): %w", s, DateLayout, err)
	}
	d.Time = t
	return nil
}

// Location is a single city/state pair attached to a posting. State is the
// 2-letter USPS code.
type Location struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// String flattens the pair to the public "City, ST" form.
func (l Location) String() string {
	return l.City + ", " + l.State
}

// PositionOpening is the indexed document for a single job posting.
// ID ordering doubles as the recency order: a higher id is a newer posting.
type PositionOpening struct {
	ID               int        `json:"id"`
	Type             string     `json:"type,omitempty"`
	PositionTitle    string     `json:"position_title"`
	OrganizationID   string     `json:"organization_id"`
	OrganizationName string     `json:"organization_name"`
	StartDate        Date       `json:"start_date"`
	EndDate          Date       `json:"end_date"`
	Minimum          float64    `json:"minimum"`
	Maximum          float64    `json:"maximum"`
	RateIntervalCode string     `json:"rate_interval_code"`
	Locations        []Location `json:"locations"`
}

// DocumentID returns the stable external key used by the index.
func (p PositionOpening) DocumentID() string {
	return strconv.Itoa(p.ID)
}

// OpenOn reports whether the posting is eligible to appear in results on the
// given date. Future-dated postings exist in the index but are never returned.
func (p PositionOpening) OpenOn(today Date) bool {
	return !p.StartDate.After(today.Time)
}

// Validate checks the structural invariants of a posting record.
func (p PositionOpening) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("position opening id must be a positive integer, got %d", p.ID)
	}
	if strings.TrimSpace(p.PositionTitle) == "" {
		return fmt.Errorf("position opening %d: position_title cannot be empty", p.ID)
	}
	if p.EndDate.Before(p.StartDate.Time) {
		return fmt.Errorf("position opening %d: end_date %s precedes start_date %s",
			p.ID, p.EndDate, p.StartDate)
	}
	if len(p.Locations) == 0 {
		return fmt.Errorf("position opening %d: at least one location is required", p.ID)
	}
	for i, loc := range p.Locations {
		if strings.TrimSpace(loc.City) == "" {
			return fmt.Errorf("position opening %d: location %d is missing a city", p.ID, i)
		}
		if len(loc.State) != 2 {
			return fmt.Errorf("position opening %d: location %d state %q is not a 2-letter code", p.ID, i, loc.State)
		}
	}
	return nil
}
