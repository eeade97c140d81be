package washsale

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime asserts that time() is canonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := NewDate(2025, 7, 31)
	d2 := NewDate(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected Date
		err      bool
	}{
		{"2025-01-15", NewDate(2025, time.January, 15), false},
		{"2025-7-1", NewDate(2025, time.July, 1), false},
		{"invalid-date", Date{}, true},
		{"2025-13-01", Date{}, true},
		{"", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.err {
				t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.err)
				return
			}
			if !tt.err && got != tt.expected {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDate_Add(t *testing.T) {
	tests := []struct {
		start    Date
		days     int
		expected Date
	}{
		{NewDate(2024, time.January, 31), 1, NewDate(2024, time.February, 1)},
		{NewDate(2024, time.February, 28), 1, NewDate(2024, time.February, 29)}, // leap year
		{NewDate(2024, time.December, 31), 1, NewDate(2025, time.January, 1)},
		{NewDate(2024, time.March, 1), -30, NewDate(2024, time.January, 31)},
		{NewDate(2024, time.March, 1), 0, NewDate(2024, time.March, 1)},
	}
	for _, tt := range tests {
		if got := tt.start.Add(tt.days); got != tt.expected {
			t.Errorf("%v.Add(%d) = %v, want %v", tt.start, tt.days, got, tt.expected)
		}
	}
}

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		expected Date
		wantErr  bool
	}{
		{
			name:     "Zero Date from empty string",
			json:     `""`,
			expected: Date{},
			wantErr:  false,
		},
		{
			name:     "Non-Zero Date",
			json:     `"2024-05-21"`,
			expected: NewDate(2024, 5, 21),
			wantErr:  false,
		},
		{
			name:    "Invalid Date",
			json:    `"not-a-date"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.json), &d)
			if (err != nil) != tt.wantErr {
				t.Errorf("json.Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && d != tt.expected {
				t.Errorf("json.Unmarshal() got = %v, want %v", d, tt.expected)
			}
		})
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		date     Date
		expected string
	}{
		{"Zero Date", Date{}, `""`},
		{"Non-Zero Date", NewDate(2024, 5, 21), `"2024-05-21"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.date)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("json.Marshal() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestRange(t *testing.T) {
	r := NewRange(NewDate(2024, time.March, 10), NewDate(2024, time.January, 1))
	if r.From.After(r.To) {
		t.Fatal("NewRange() did not swap reversed boundaries")
	}
	tests := []struct {
		date Date
		want bool
	}{
		{NewDate(2024, time.January, 1), true},
		{NewDate(2024, time.February, 15), true},
		{NewDate(2024, time.March, 10), true},
		{NewDate(2023, time.December, 31), false},
		{NewDate(2024, time.March, 11), false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.date); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestYearRange(t *testing.T) {
	r := YearRange(2024)
	if r.From != NewDate(2024, time.January, 1) || r.To != NewDate(2024, time.December, 31) {
		t.Errorf("YearRange(2024) = %v, want the full calendar year", r)
	}
}
