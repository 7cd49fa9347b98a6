package core

import (
	"errors"
	"strings"
	"time"
)

// Subjects is the closed set of activity labels a time entry may carry.
// The set is fixed for this version and not user-extensible.
var Subjects = []string{
	"Recrutement",
	"Administratif",
	"Développement des compétences",
	"Juridique et social",
	"Marque employeur",
	"HSE",
	"Formation",
	"Prospection",
}

// UnknownName is rendered when an entry references a deleted employee or client.
const UnknownName = "Inconnu"

var (
	ErrEmptyName      = errors.New("empty name")
	ErrEmptyTitle     = errors.New("empty title")
	ErrInvalidDate    = errors.New("invalid date")
	ErrNoEmployee     = errors.New("missing employee reference")
	ErrNoClient       = errors.New("missing client reference")
	ErrUnknownSubject = errors.New("unknown subject")
	ErrNegativeHours  = errors.New("negative hours")
	ErrNoHours        = errors.New("at least one subject must have hours")
)

type (
	// Date is a calendar date with no time-of-day component.
	// The canonical wire and storage form is "2006-01-02".
	Date struct {
		time.Time
	}

	Employee struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Title string `json:"title"`
	}

	Client struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	// TimeEntry records hours one employee spent for one client on one
	// day, broken down by subject. Absent subject keys and keys present
	// with zero hours are equivalent.
	TimeEntry struct {
		ID           string             `json:"id,omitempty"`
		Date         Date               `json:"date"`
		EmployeeID   string             `json:"employeeId"`
		ClientID     string             `json:"clientId"`
		SubjectHours map[string]float64 `json:"subjectHours"`
	}
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses the canonical "2006-01-02" form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// DateOf truncates any timestamp to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// Normalize drops any time-of-day component so boundary days compare equal.
func (d Date) Normalize() Date {
	return DateOf(d.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsValidationError reports whether err is one of the record validation
// sentinels, as opposed to a storage or transport failure.
func IsValidationError(err error) bool {
	for _, sentinel := range []error{
		ErrEmptyName, ErrEmptyTitle, ErrInvalidDate, ErrNoEmployee,
		ErrNoClient, ErrUnknownSubject, ErrNegativeHours, ErrNoHours,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// IsKnownSubject reports whether s belongs to the closed subject set.
func IsKnownSubject(s string) bool {
	for _, known := range Subjects {
		if s == known {
			return true
		}
	}
	return false
}

func (e Employee) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

func (c Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// TotalHours is the sum of all subject hours on the entry.
func (t TimeEntry) TotalHours() float64 {
	var sum float64
	for _, h := range t.SubjectHours {
		sum += h
	}
	return sum
}

// Validate enforces the write-side invariants. The aggregation engine
// never validates; entries must pass here before they are persisted.
func (t TimeEntry) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.EmployeeID) == "" {
		return ErrNoEmployee
	}
	if strings.TrimSpace(t.ClientID) == "" {
		return ErrNoClient
	}
	hasHours := false
	for subject, hours := range t.SubjectHours {
		if !IsKnownSubject(subject) {
			return ErrUnknownSubject
		}
		if hours < 0 {
			return ErrNegativeHours
		}
		if hours > 0 {
			hasHours = true
		}
	}
	if !hasHours {
		return ErrNoHours
	}
	return nil
}
