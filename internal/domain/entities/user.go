package entities

import "time"

// User represents an app member
type User struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Gender    string    `json:"gender" bson:"gender"`
	UnitID    string    `json:"unitId,omitempty" bson:"unitId,omitempty"`
	FCMToken  string    `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Member is the speaker roster entry passed to the transcription and
// synthesis models. Order matters: it follows the unit's member order.
type Member struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender string `json:"gender"`
}

// RosterFromUsers builds the ordered roster from resolved users,
// preserving the order of memberIDs. Unresolvable ids are skipped.
func RosterFromUsers(memberIDs []string, users map[string]*User) []Member {
	roster := make([]Member, 0, len(memberIDs))
	for _, id := range memberIDs {
		u, ok := users[id]
		if !ok || u == nil {
			continue
		}
		name := u.Name
		if name == "" {
			name = "unknown"
		}
		gender := u.Gender
		if gender == "" {
			gender = "unknown"
		}
		roster = append(roster, Member{ID: id, Name: name, Gender: gender})
	}
	return roster
}
