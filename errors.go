package onetool

import (
	"errors"
	"fmt"
	"time"
)

// Wrap wraps an error by prepending additional text.
// The text can contain formatting parameters.
func Wrap(err error, msg string, v ...interface{}) error {
	msg = fmt.Sprintf(msg, v...)
	return fmt.Errorf("%v: %w", msg, err)
}

type notFound struct {
	message string
}

// NewNotFound creates a new "not found" error.
func NewNotFound(s string, v ...interface{}) error {
	return asNotFound(fmt.Errorf(s, v...))
}

func (n notFound) Error() string {
	return n.message
}

func asNotFound(e error) error {
	return notFound{fmt.Sprintf("Not found: %v", e)}
}

// IsNotFound checks if the given error is a "not found" error.
func IsNotFound(err error) bool {
	var nf notFound
	return errors.As(err, &nf)
}

// ParseError is returned when raw XML from the collaborator cannot be read.
type ParseError struct {
	Err error
}

func (p *ParseError) Error() string {
	return fmt.Sprintf("malformed XML: %v", p.Err)
}

func (p *ParseError) Unwrap() error {
	return p.Err
}

// IsParseError checks if the given error is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// StaleCreationError is returned by Editor.Create when the newest page in the
// section is not the page that was just requested.
type StaleCreationError struct {
	PageID    string
	Created   time.Time
	Requested time.Time
	Reason    string
}

func (s *StaleCreationError) Error() string {
	if s.Reason != "" {
		return fmt.Sprintf("could not find freshly created page: %v", s.Reason)
	}
	return fmt.Sprintf("page %q was created at %v, too old for a request made at %v",
		s.PageID, s.Created.Format(time.RFC3339), s.Requested.Format(time.RFC3339))
}

// IsStaleCreation checks if the given error is a StaleCreationError.
func IsStaleCreation(err error) bool {
	var se *StaleCreationError
	return errors.As(err, &se)
}

// InvalidStateError is returned when an editing operation is called before a
// page was opened.
type InvalidStateError struct {
	Op    string
	State State
}

func (i *InvalidStateError) Error() string {
	return fmt.Sprintf("%v: not allowed in state %v", i.Op, i.State)
}

// IsInvalidState checks if the given error is an InvalidStateError.
func IsInvalidState(err error) bool {
	var ie *InvalidStateError
	return errors.As(err, &ie)
}

// InvalidReplacementError is returned when raw XML edits would produce a
// document that no longer parses.
type InvalidReplacementError struct {
	Err error
}

func (i *InvalidReplacementError) Error() string {
	return fmt.Sprintf("replacement produced invalid XML: %v", i.Err)
}

func (i *InvalidReplacementError) Unwrap() error {
	return i.Err
}

// IsInvalidReplacement checks if the given error is an InvalidReplacementError.
func IsInvalidReplacement(err error) bool {
	var ie *InvalidReplacementError
	return errors.As(err, &ie)
}

// RangeError is returned for a line index outside of the current line list.
type RangeError struct {
	Index int
	Len   int
}

func (r *RangeError) Error() string {
	return fmt.Sprintf("line index %d out of range [0:%d]", r.Index, r.Len)
}
