package models

import (
	"encoding/json"
	"time"
)

type EntryStatus string

const (
	StatusWaiting  EntryStatus = "waiting"
	StatusNotified EntryStatus = "notified"
	StatusSeated   EntryStatus = "seated"
)

// WaitlistEntry is one party queued at a restaurant. Its status is never
// stored; it is derived from the notified and seated flags.
type WaitlistEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"not null;index:idx_waitlist_restaurant_created,priority:1" json:"restaurantId"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	PhoneNumber  string    `gorm:"type:varchar(50);not null" json:"phoneNumber"`
	TableSize    int       `gorm:"not null;default:1" json:"tableSize"`
	Notified     bool      `gorm:"not null;default:false" json:"notified"`
	Seated       bool      `gorm:"not null;default:false;index" json:"seated"`
	CreatedAt    time.Time `gorm:"index:idx_waitlist_restaurant_created,priority:2" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Status derives the display status. Seated takes precedence over notified.
func (e WaitlistEntry) Status() EntryStatus {
	switch {
	case e.Seated:
		return StatusSeated
	case e.Notified:
		return StatusNotified
	default:
		return StatusWaiting
	}
}

func (e WaitlistEntry) MarshalJSON() ([]byte, error) {
	type entry WaitlistEntry
	return json.Marshal(struct {
		entry
		Status EntryStatus `json:"status"`
	}{entry: entry(e), Status: e.Status()})
}

// ParseEntryStatus accepts the three derived statuses; ok is false otherwise.
func ParseEntryStatus(s string) (EntryStatus, bool) {
	switch st := EntryStatus(s); st {
	case StatusWaiting, StatusNotified, StatusSeated:
		return st, true
	}
	return "", false
}
