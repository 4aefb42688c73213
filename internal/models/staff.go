package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Staff represents a staff member tasks can be assigned to
type Staff struct {
	ID         int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name       string `json:"name" gorm:"not null"`
	Department string `json:"department,omitempty"`
	Photo      string `json:"photo,omitempty"`
	PhotoQ1    string `json:"photo_q1,omitempty" gorm:"column:photo_q1"`
	PhotoQ2    string `json:"photo_q2,omitempty" gorm:"column:photo_q2"`
	PhotoQ3    string `json:"photo_q3,omitempty" gorm:"column:photo_q3"`
	PhotoQ4    string `json:"photo_q4,omitempty" gorm:"column:photo_q4"`
}

// TableName specifies the table name for Staff Model
func (Staff) TableName() string {
	return "staff"
}

// QuadrantPhoto returns the avatar stored for quadrant q, if any.
func (s Staff) QuadrantPhoto(q int) string {
	switch q {
	case 1:
		return s.PhotoQ1
	case 2:
		return s.PhotoQ2
	case 3:
		return s.PhotoQ3
	case 4:
		return s.PhotoQ4
	}
	return ""
}

// SetQuadrantPhoto stores filename as the avatar for quadrant q.
func (s *Staff) SetQuadrantPhoto(q int, filename string) {
	switch q {
	case 1:
		s.PhotoQ1 = filename
	case 2:
		s.PhotoQ2 = filename
	case 3:
		s.PhotoQ3 = filename
	case 4:
		s.PhotoQ4 = filename
	}
}

// PhotoFor resolves the avatar for a quadrant-aware render: the quadrant
// photo first, then the legacy photo. An empty result means the caller
// should fall back to Initial.
func (s Staff) PhotoFor(q int) string {
	if p := s.QuadrantPhoto(q); p != "" {
		return p
	}
	return s.Photo
}

// Initial returns the upper-cased first letter of the name, used as the
// placeholder avatar.
func (s Staff) Initial() string {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}
