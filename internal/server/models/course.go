package models

import (
	"strings"
	"time"
)

type Course struct {
	ID         string    `json:"id"`
	CourseCode string    `json:"courseCode"`
	Title      string    `json:"title"`
	Credits    int       `json:"credits"`
	Instructor string    `json:"instructor"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CourseInput is a client payload. Nil fields were not supplied.
type CourseInput struct {
	CourseCode *string `json:"courseCode"`
	Title      *string `json:"title"`
	Credits    *int    `json:"credits"`
	Instructor *string `json:"instructor"`
}

// Normalize trims string fields and uppercases the course code.
func (in CourseInput) Normalize() CourseInput {
	in.CourseCode = trimmed(in.CourseCode)
	if in.CourseCode != nil {
		code := strings.ToUpper(*in.CourseCode)
		in.CourseCode = &code
	}
	in.Title = trimmed(in.Title)
	in.Instructor = trimmed(in.Instructor)
	return in
}

func (in CourseInput) Validate() error {
	c := &checker{}

	c.requiredString(in.CourseCode, "Course code is required")
	c.requiredString(in.Title, "Title is required")

	switch {
	case in.Credits == nil:
		c.add("Credits is required")
	case *in.Credits < 1:
		c.add("Credits must be at least 1")
	case *in.Credits > 6:
		c.add("Credits must be at most 6")
	}

	c.requiredString(in.Instructor, "Instructor is required")

	return c.err()
}

func (c *Course) Input() CourseInput {
	return CourseInput{
		CourseCode: &c.CourseCode,
		Title:      &c.Title,
		Credits:    &c.Credits,
		Instructor: &c.Instructor,
	}
}

func (c *Course) Apply(in CourseInput) {
	set(&c.CourseCode, in.CourseCode)
	set(&c.Title, in.Title)
	set(&c.Credits, in.Credits)
	set(&c.Instructor, in.Instructor)
}
