package entities

import (
	"crypto/rand"
	"time"
)

// Unit represents a pair of members sharing recordings, answers and reports.
// The ID doubles as the join code the second member types in.
type Unit struct {
	ID        string    `json:"id" bson:"_id"`
	CreatorID string    `json:"creatorId" bson:"creatorId"`
	Members   []string  `json:"members" bson:"members"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

const unitCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const unitCodeLength = 8

// NewUnit creates a unit with a fresh join code and the creator as the
// only member.
func NewUnit(creatorID string) *Unit {
	return &Unit{
		ID:        NewUnitCode(),
		CreatorID: creatorID,
		Members:   []string{creatorID},
		CreatedAt: time.Now(),
	}
}

// NewUnitCode generates an 8-character alphanumeric unit code. The
// alphabet skips easily confused characters (0/O, 1/I).
func NewUnitCode() string {
	buf := make([]byte, unitCodeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails if the OS entropy source is broken
		panic(err)
	}
	for i, b := range buf {
		buf[i] = unitCodeAlphabet[int(b)%len(unitCodeAlphabet)]
	}
	return string(buf)
}

// HasMember reports whether the user belongs to this unit
func (u *Unit) HasMember(userID string) bool {
	for _, id := range u.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// OtherMembers returns member ids excluding the given user
func (u *Unit) OtherMembers(userID string) []string {
	others := make([]string, 0, len(u.Members))
	for _, id := range u.Members {
		if id != userID {
			others = append(others, id)
		}
	}
	return others
}
