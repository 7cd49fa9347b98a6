package core

import (
	"encoding/json"
	"testing"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "valid date", input: "2024-03-01", want: "2024-03-01"},
		{name: "valid date with whitespace", input: " 2024-12-31 ", want: "2024-12-31"},
		{name: "empty string", input: "", wantErr: true},
		{name: "wrong layout", input: "01/03/2024", wantErr: true},
		{name: "date with time component", input: "2024-03-01T10:00:00Z", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q) expected error, got %v", tt.input, d)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if d.String() != tt.want {
				t.Errorf("ParseDate(%q) = %q, want %q", tt.input, d.String(), tt.want)
			}
		})
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, 3, 1)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-03-01"` {
		t.Errorf("marshal = %s, want %q", b, `"2024-03-01"`)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip mismatch: %v != %v", back, d)
	}
}

func TestTimeEntryTotalHours(t *testing.T) {
	entry := TimeEntry{SubjectHours: map[string]float64{"HSE": 2, "Recrutement": 0, "Formation": 1.5}}
	if got := entry.TotalHours(); got != 3.5 {
		t.Errorf("TotalHours = %v, want 3.5", got)
	}

	empty := TimeEntry{}
	if got := empty.TotalHours(); got != 0 {
		t.Errorf("TotalHours of empty entry = %v, want 0", got)
	}
}

func TestTimeEntryValidate(t *testing.T) {
	valid := TimeEntry{
		Date:         NewDate(2024, 3, 1),
		EmployeeID:   "e1",
		ClientID:     "c1",
		SubjectHours: map[string]float64{"HSE": 2},
	}

	tests := []struct {
		name    string
		mutate  func(*TimeEntry)
		wantErr error
	}{
		{name: "valid entry", mutate: func(*TimeEntry) {}, wantErr: nil},
		{name: "zero date", mutate: func(e *TimeEntry) { e.Date = Date{} }, wantErr: ErrInvalidDate},
		{name: "missing employee", mutate: func(e *TimeEntry) { e.EmployeeID = "" }, wantErr: ErrNoEmployee},
		{name: "missing client", mutate: func(e *TimeEntry) { e.ClientID = " " }, wantErr: ErrNoClient},
		{name: "unknown subject", mutate: func(e *TimeEntry) {
			e.SubjectHours = map[string]float64{"Comptabilité": 1}
		}, wantErr: ErrUnknownSubject},
		{name: "negative hours", mutate: func(e *TimeEntry) {
			e.SubjectHours = map[string]float64{"HSE": -1}
		}, wantErr: ErrNegativeHours},
		{name: "all zero hours", mutate: func(e *TimeEntry) {
			e.SubjectHours = map[string]float64{"HSE": 0, "Formation": 0}
		}, wantErr: ErrNoHours},
		{name: "no hours at all", mutate: func(e *TimeEntry) { e.SubjectHours = nil }, wantErr: ErrNoHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := valid
			entry.SubjectHours = map[string]float64{"HSE": 2}
			tt.mutate(&entry)
			err := entry.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && err != tt.wantErr {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEmployeeValidate(t *testing.T) {
	if err := (Employee{Name: "Nadia", Title: "Consultante RH"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Employee{Title: "Consultante RH"}).Validate(); err != ErrEmptyName {
		t.Errorf("got %v, want ErrEmptyName", err)
	}
	if err := (Employee{Name: "Nadia"}).Validate(); err != ErrEmptyTitle {
		t.Errorf("got %v, want ErrEmptyTitle", err)
	}
}

func TestClientValidate(t *testing.T) {
	if err := (Client{Name: "Acme"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Client{Name: "  "}).Validate(); err != ErrEmptyName {
		t.Errorf("got %v, want ErrEmptyName", err)
	}
}

func TestIsKnownSubject(t *testing.T) {
	for _, s := range Subjects {
		if !IsKnownSubject(s) {
			t.Errorf("IsKnownSubject(%q) = false, want true", s)
		}
	}
	if IsKnownSubject("Comptabilité") {
		t.Error("IsKnownSubject accepted a label outside the closed set")
	}
}
