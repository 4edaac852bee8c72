package model

import "errors"

// VideoSortField is a column videos can be ordered by.
type VideoSortField string

const (
	SortByCreatedAt VideoSortField = "createdAt"
	SortByTitle     VideoSortField = "title"
	SortByDuration  VideoSortField = "duration"
)

var ErrInvalidSortField = errors.New("sort field must be one of createdAt, title, duration")

// ParseVideoSortField defaults an empty value to SortByCreatedAt.
func ParseVideoSortField(s string) (VideoSortField, error) {
	switch f := VideoSortField(s); f {
	case "":
		return SortByCreatedAt, nil
	case SortByCreatedAt, SortByTitle, SortByDuration:
		return f, nil
	default:
		return "", ErrInvalidSortField
	}
}

// ParseSortDirection accepts "asc" or "desc"; empty means descending.
func ParseSortDirection(s string) (desc bool, err error) {
	switch s {
	case "", "desc":
		return true, nil
	case "asc":
		return false, nil
	default:
		return false, ErrInvalidSortDirection
	}
}

var ErrInvalidSortDirection = errors.New("sort direction must be asc or desc")
