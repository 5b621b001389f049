package domain

import (
	"fmt"

	apperrors "elearn/internal/platform/errors"
	"elearn/internal/platform/siren"
)

const organizationRel = "/rels/organization"

// Course is one organization unit the user is enrolled in.
type Course struct {
	ID   string
	Name string
}

// EnrollmentHrefs lists the enrollment links of a user's enrollments document
// in document order. entries counts every enrollment entry, including ones
// without a link or dropped as malformed.
func EnrollmentHrefs(doc siren.Entity) (hrefs []string, entries int) {
	hrefs = make([]string, 0, len(doc.Entities))
	for _, e := range doc.Entities {
		if e.Href != "" {
			hrefs = append(hrefs, e.Href)
		}
	}
	return hrefs, len(doc.Entities) + doc.Malformed
}

// OrganizationID extracts the course id from an enrollment: the last path
// segment of its organization link.
func OrganizationID(enrollment siren.Entity) (string, error) {
	link, ok := enrollment.FirstLink(organizationRel)
	if !ok {
		return "", fmt.Errorf("%w: enrollment has no organization link", apperrors.ErrParse)
	}
	return link.LastSegment()
}

// OrganizationName reads the display name of an organization document.
func OrganizationName(org siren.Entity) (string, error) {
	name, ok := org.Properties.String("name")
	if !ok || name == "" {
		return "", fmt.Errorf("%w: organization has no name", apperrors.ErrParse)
	}
	return name, nil
}
