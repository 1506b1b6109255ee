package simulation

import (
	"time"

	"airport-simulator/pkg/types"
)

type Event struct {
	Timestamp time.Time
	Flight    types.FlightID
	Message   string
	IsUrgent  bool
}

func (s *Simulation) addEvent(now time.Time, id types.FlightID, message string, isUrgent bool) {
	s.eventLog = append(s.eventLog, Event{
		Timestamp: now,
		Flight:    id,
		Message:   message,
		IsUrgent:  isUrgent,
	})

	if len(s.eventLog) > s.maxEventLogSize {
		s.eventLog = s.eventLog[len(s.eventLog)-s.maxEventLogSize:]
	}
}
