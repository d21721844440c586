package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.September, 30)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"2024-09-30"` {
		t.Errorf("Expected \"2024-09-30\", got %s", string(data))
	}

	var parsed Date
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !parsed.Equal(d.Time) {
		t.Errorf("Round trip changed the date: got %s, want %s", parsed, d)
	}
}

func TestDateUnmarshalRejectsBadInput(t *testing.T) {
	cases := []string{`"30/09/2024"`, `"2024-13-01"`, `"not a date"`, `20240930`}
	for _, input := range cases {
		var d Date
		if err := json.Unmarshal([]byte(input), &d); err == nil {
			t.Errorf("Expected error unmarshaling %s, got none", input)
		}
	}
}

func TestOpenOn(t *testing.T) {
	today := NewDate(2024, time.September, 30)

	opening := PositionOpening{StartDate: NewDate(2024, time.September, 30)}
	if !opening.OpenOn(today) {
		t.Error("A posting starting today should be open")
	}

	opening.StartDate = NewDate(2024, time.October, 1)
	if opening.OpenOn(today) {
		t.Error("A future-dated posting should not be open")
	}

	opening.StartDate = NewDate(2023, time.January, 1)
	if !opening.OpenOn(today) {
		t.Error("A posting started in the past should be open")
	}
}

func TestValidate(t *testing.T) {
	valid := PositionOpening{
		ID:            1,
		PositionTitle: "Physician Assistant",
		StartDate:     NewDate(2024, time.January, 1),
		EndDate:       NewDate(2024, time.December, 31),
		Locations:     []Location{{City: "Fulton", State: "MD"}},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected valid posting, got: %v", err)
	}

	t.Run("rejects non-positive id", func(t *testing.T) {
		p := valid
		p.ID = 0
		if err := p.Validate(); err == nil {
			t.Error("Expected error for id 0")
		}
	})

	t.Run("rejects empty title", func(t *testing.T) {
		p := valid
		p.PositionTitle = "   "
		if err := p.Validate(); err == nil {
			t.Error("Expected error for blank title")
		}
	})

	t.Run("rejects inverted date window", func(t *testing.T) {
		p := valid
		p.EndDate = NewDate(2023, time.December, 31)
		if err := p.Validate(); err == nil {
			t.Error("Expected error for end_date before start_date")
		}
	})

	t.Run("rejects missing locations", func(t *testing.T) {
		p := valid
		p.Locations = nil
		if err := p.Validate(); err == nil {
			t.Error("Expected error for no locations")
		}
	})

	t.Run("rejects bad state code", func(t *testing.T) {
		p := valid
		p.Locations = []Location{{City: "Fulton", State: "Maryland"}}
		if err := p.Validate(); err == nil {
			t.Error("Expected error for non-2-letter state")
		}
	})
}

func TestLocationString(t *testing.T) {
	loc := Location{City: "Pentagon Arlington", State: "VA"}
	if got := loc.String(); got != "Pentagon Arlington, VA" {
		t.Errorf("Expected 'Pentagon Arlington, VA', got %q", got)
	}
}

func TestDocumentID(t *testing.T) {
	p := PositionOpening{ID: 42}
	if got := p.DocumentID(); got != "42" {
		t.Errorf("Expected \"42\", got %q", got)
	}
}
