package entities

import "time"

// TimeSlot is one of the three fixed daily question windows
type TimeSlot string

const (
	TimeSlotMorning   TimeSlot = "morning"
	TimeSlotAfternoon TimeSlot = "afternoon"
	TimeSlotEvening   TimeSlot = "evening"
)

// TimeSlots lists all slots in daily order
var TimeSlots = []TimeSlot{TimeSlotMorning, TimeSlotAfternoon, TimeSlotEvening}

// Valid reports whether s is a known time slot
func (s TimeSlot) Valid() bool {
	switch s {
	case TimeSlotMorning, TimeSlotAfternoon, TimeSlotEvening:
		return true
	}
	return false
}

// Question is an immutable master catalog entry, loaded once by the
// seed tool. IDs are zero-padded (q001..) so catalog order is the id order.
type Question struct {
	ID       string   `json:"id" bson:"_id"`
	Text     string   `json:"text" bson:"text"`
	TimeSlot TimeSlot `json:"timeSlot" bson:"timeSlot"`
	Category string   `json:"category" bson:"category"`
}

// SelectedQuestion is one entry of a unit's active question set. Master
// questions carry their catalog id; AI questions have a nil id and IsAI set.
type SelectedQuestion struct {
	ID   *string `json:"id" bson:"id"`
	Text string  `json:"text" bson:"text"`
	IsAI bool    `json:"isAI" bson:"isAI"`
}

// QuestionStats holds per-unit display counts, one map per slot keyed by
// master question id. Counts reset to zero once a slot's pool has fully
// cycled (every question shown at least once).
type QuestionStats struct {
	UnitID    string         `json:"unitId" bson:"_id"`
	Morning   map[string]int `json:"morning" bson:"morning,omitempty"`
	Afternoon map[string]int `json:"afternoon" bson:"afternoon,omitempty"`
	Evening   map[string]int `json:"evening" bson:"evening,omitempty"`
}

// CountsFor returns the count map for a slot, never nil
func (s *QuestionStats) CountsFor(slot TimeSlot) map[string]int {
	if s == nil {
		return map[string]int{}
	}
	var m map[string]int
	switch slot {
	case TimeSlotMorning:
		m = s.Morning
	case TimeSlotAfternoon:
		m = s.Afternoon
	case TimeSlotEvening:
		m = s.Evening
	}
	if m == nil {
		return map[string]int{}
	}
	return m
}

// CurrentQuestions is the per-unit snapshot of today's active question
// set for one slot. Overwritten on every slot trigger, never historized.
type CurrentQuestions struct {
	UnitID    string             `json:"unitId" bson:"_id"`
	Questions []SelectedQuestion `json:"questions" bson:"questions"`
	TimeSlot  TimeSlot           `json:"timeSlot" bson:"timeSlot"`
	Date      string             `json:"date" bson:"date"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
