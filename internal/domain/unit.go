package domain

import "time"

// Unit is an organizational unit (school site) professors belong to.
type Unit struct {
	ID        string
	Nome      string
	CreatedAt time.Time
}
