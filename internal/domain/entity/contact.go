package entity

import (
	"regexp"
	"strings"
)

// NotificationPreference is how a contact wants to be reached.
type NotificationPreference string

const (
	PreferenceSMS   NotificationPreference = "sms"
	PreferenceEmail NotificationPreference = "email"
	PreferenceBoth  NotificationPreference = "both"
)

// Valid reports whether p is a known preference.
func (p NotificationPreference) Valid() bool {
	switch p {
	case PreferenceSMS, PreferenceEmail, PreferenceBoth:
		return true
	default:
		return false
	}
}

// Contact is a person notified about alerts on their associated nodes.
type Contact struct {
	ID                     string                 `json:"id"`
	Name                   string                 `json:"name"`
	Phone                  string                 `json:"phone"`
	Email                  string                 `json:"email,omitempty"`
	AssociatedNodes        []string               `json:"associatedNodes"`
	NotificationPreference NotificationPreference `json:"notificationPreference"`
	CreatedAt              Millis                 `json:"createdAt"`
	LastUpdated            Millis                 `json:"lastUpdated"`
}

// WatchesAny reports whether the contact is associated with any of nodeIDs.
func (c *Contact) WatchesAny(nodeIDs []string) bool {
	for _, associated := range c.AssociatedNodes {
		for _, id := range nodeIDs {
			if associated == id {
				return true
			}
		}
	}

	return false
}

const phoneCountryCode = "+91"

var (
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
	mobilePattern   = regexp.MustCompile(`^[6-9][0-9]{9}$`)
)

// NormalizePhone validates a 10-digit mobile number, optionally prefixed with
// +91, 91 or 0, and returns it in +91XXXXXXXXXX form.
func NormalizePhone(raw string) (string, bool) {
	digits := phoneSeparators.Replace(strings.TrimSpace(raw))

	switch {
	case strings.HasPrefix(digits, phoneCountryCode):
		digits = strings.TrimPrefix(digits, phoneCountryCode)
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		digits = digits[2:]
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		digits = digits[1:]
	}

	if !mobilePattern.MatchString(digits) {
		return "", false
	}

	return phoneCountryCode + digits, true
}
