package config

import (
	"fmt"
	"net/url"
)

// Endpoints renders every remote URL the client talks to.
type Endpoints struct {
	base          string
	apiVersion    string
	enrollments   string
	organizations string
	sequences     string
}

func (c Config) Endpoints() Endpoints {
	return Endpoints{
		base:          c.BaseURL,
		apiVersion:    c.APIVersion,
		enrollments:   c.EnrollmentsURL,
		organizations: c.OrganizationsURL,
		sequences:     c.SequencesURL,
	}
}

func (e Endpoints) Profile() string { return e.base + "/d2l/lp/profile/profile_edit.d2l" }
func (e Endpoints) Home() string    { return e.base + "/d2l/home" }
func (e Endpoints) Login() string   { return e.base + "/d2l/lp/auth/login/login.d2l" }
func (e Endpoints) Token() string   { return e.base + "/d2l/lp/auth/oauth2/token" }

func (e Endpoints) Grades(orgID, userID string) string {
	return fmt.Sprintf("%s/d2l/api/le/%s/%s/grades/values/%s/", e.base, e.apiVersion, url.PathEscape(orgID), url.PathEscape(userID))
}

func (e Endpoints) Calendar(orgID string) string {
	return fmt.Sprintf("%s/d2l/api/le/%s/%s/calendar/events/", e.base, e.apiVersion, url.PathEscape(orgID))
}

func (e Endpoints) Enrollments(userID string) string {
	return fmt.Sprintf("%s/users/%s?search=&pageSize=20&embedDepth=0&sort=current&parentOrganizations=&orgUnitTypeId=3&promotePins=true&roles=&excludeEnded=true&excludeIndirect=false", e.enrollments, url.PathEscape(userID))
}

func (e Endpoints) Organization(orgID string) string {
	return fmt.Sprintf("%s/%s?localeId=100021", e.organizations, url.PathEscape(orgID))
}

func (e Endpoints) Sequence(orgID string) string {
	return fmt.Sprintf("%s/%s?deepEmbedEntities=1&embedDepth=1&filterOnDatesAndDepth=0", e.sequences, url.PathEscape(orgID))
}
