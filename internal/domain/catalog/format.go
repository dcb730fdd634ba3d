package catalog

// Status is the circulation state of a single format.
type Status string

// Format status constants.
const (
	// StatusAvailable means at least one copy can be borrowed right now.
	StatusAvailable  Status = "available"
	StatusWaitlist   Status = "waitlist"
	StatusCheckedOut Status = "checked_out"
	// StatusMaintenance means the copy is being repaired or inspected.
	StatusMaintenance Status = "maintenance"
	StatusReserved    Status = "reserved"
)

// IsValid checks if the status is one of the supported values.
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusWaitlist, StatusCheckedOut, StatusMaintenance, StatusReserved:
		return true
	}
	return false
}

// Format is one circulating form of an item (physical, ebook, audiobook, disc).
type Format struct {
	Type            string `json:"type"`
	Status          Status `json:"status"`
	CopiesAvailable int    `json:"copies_available,omitempty"`
	WaitTime        string `json:"wait_time,omitempty"`
	Holds           int    `json:"holds,omitempty"`
}
