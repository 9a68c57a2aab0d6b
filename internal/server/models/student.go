package models

import (
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

type Student struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Age            int       `json:"age"`
	Major          string    `json:"major"`
	GPA            float64   `json:"gpa"`
	GraduationYear int       `json:"graduationYear"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// StudentInput is a client payload. Nil fields were not supplied.
type StudentInput struct {
	FirstName      *string  `json:"firstName"`
	LastName       *string  `json:"lastName"`
	Email          *string  `json:"email"`
	Age            *int     `json:"age"`
	Major          *string  `json:"major"`
	GPA            *float64 `json:"gpa"`
	GraduationYear *int     `json:"graduationYear"`
}

// Normalize trims string fields and lowercases the email.
func (in StudentInput) Normalize() StudentInput {
	in.FirstName = trimmed(in.FirstName)
	in.LastName = trimmed(in.LastName)
	in.Email = trimmed(in.Email)
	if in.Email != nil {
		e := strings.ToLower(*in.Email)
		in.Email = &e
	}
	in.Major = trimmed(in.Major)
	return in
}

// Validate checks every field and reports all violations at once.
// The input is expected to be normalized.
func (in StudentInput) Validate() error {
	c := &checker{}

	c.requiredString(in.FirstName, "First name is required")
	c.requiredString(in.LastName, "Last name is required")
	if c.requiredString(in.Email, "Email is required") && !emailPattern.MatchString(*in.Email) {
		c.add("Please enter a valid email")
	}

	switch {
	case in.Age == nil:
		c.add("Age is required")
	case *in.Age < 16:
		c.add("Age must be at least 16")
	case *in.Age > 100:
		c.add("Age must be less than or equal to 100")
	}

	c.requiredString(in.Major, "Major is required")

	switch {
	case in.GPA == nil:
		c.add("GPA is required")
	case *in.GPA < 0:
		c.add("GPA must be at least 0")
	case *in.GPA > 4:
		c.add("GPA must be at most 4")
	}

	switch {
	case in.GraduationYear == nil:
		c.add("Graduation year is required")
	case *in.GraduationYear < currentYear():
		c.add("Graduation year must be current year or later")
	}

	return c.err()
}

// Input returns the record as a fully populated payload.
func (s *Student) Input() StudentInput {
	return StudentInput{
		FirstName:      &s.FirstName,
		LastName:       &s.LastName,
		Email:          &s.Email,
		Age:            &s.Age,
		Major:          &s.Major,
		GPA:            &s.GPA,
		GraduationYear: &s.GraduationYear,
	}
}

// Apply copies supplied fields into the record.
func (s *Student) Apply(in StudentInput) {
	set(&s.FirstName, in.FirstName)
	set(&s.LastName, in.LastName)
	set(&s.Email, in.Email)
	set(&s.Age, in.Age)
	set(&s.Major, in.Major)
	set(&s.GPA, in.GPA)
	set(&s.GraduationYear, in.GraduationYear)
}
