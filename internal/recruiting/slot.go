package recruiting

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	SlotAvailable = "available"
	SlotBooked    = "booked"
)

// Slot is a bookable interview time window.
type Slot struct {
	ID              int64  `json:"id"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	AIInterviewType string `json:"ai_interview_type,omitempty"`
	Status          string `json:"status"`
	CurrentBookings int    `json:"current_bookings"`
	MaxCandidates   int    `json:"max_candidates"`
	InterviewDate   string `json:"interview_date"`

	// raw keeps fields this client does not model so that a PUT does not drop them.
	raw map[string]any
}

// capacity treats a missing max_candidates as a single seat.
func (s *Slot) capacity() int {
	if s.MaxCandidates <= 0 {
		return 1
	}
	return s.MaxCandidates
}

// IsFull reports whether no seat is left.
func (s *Slot) IsFull() bool {
	return s.CurrentBookings >= s.capacity() || strings.EqualFold(s.Status, SlotBooked)
}

// Booked returns a copy of the slot with one more booking. Taking the last seat marks it booked.
func (s *Slot) Booked() *Slot {
	booked := *s
	capacity := s.capacity()
	if s.CurrentBookings >= capacity-1 {
		booked.CurrentBookings = capacity
		booked.Status = SlotBooked
	} else {
		booked.CurrentBookings = s.CurrentBookings + 1
	}
	return &booked
}

// Released returns a copy of the slot with one booking less. A slot below capacity becomes available.
func (s *Slot) Released() *Slot {
	released := *s
	released.CurrentBookings = max(0, s.CurrentBookings-1)
	if released.CurrentBookings < s.MaxCandidates {
		released.Status = SlotAvailable
	}
	return &released
}

// StartClock returns the start time as HH:MM.
func (s *Slot) StartClock() string {
	return clock(s.StartTime)
}

// EndClock returns the end time as HH:MM.
func (s *Slot) EndClock() string {
	return clock(s.EndTime)
}

func clock(value string) string {
	value = strings.TrimSpace(value)
	if idx := strings.Index(value, "T"); idx != -1 {
		value = value[idx+1:]
	}
	if len(value) > 5 {
		value = value[:5]
	}
	return value
}

// payload merges the modelled fields over the raw object the slot was read from.
func (s *Slot) payload() map[string]any {
	result := make(map[string]any, len(s.raw)+9)
	for key, value := range s.raw {
		result[key] = value
	}

	encoded, err := json.Marshal(s)
	if err != nil {
		return result
	}

	var known map[string]any
	if err := json.Unmarshal(encoded, &known); err != nil {
		return result
	}

	for key, value := range known {
		result[key] = value
	}

	return result
}

func (c *Client) GetSlot(ctx context.Context, id int64) (*Slot, error) {
	if id <= 0 {
		return nil, fmt.Errorf("slot id is required")
	}

	var raw map[string]any
	if err := c.getObject(ctx, fmt.Sprintf("%s%d/", slotsPath, id), nil, &raw); err != nil {
		return nil, err
	}

	return slotFromRaw(raw)
}

// ListSlotsByDate returns the slots of a day formatted as YYYY-MM-DD.
func (c *Client) ListSlotsByDate(ctx context.Context, date string) ([]*Slot, error) {
	q := url.Values{}
	q.Set("date", strings.TrimSpace(date))

	items, err := c.GetItems(ctx, slotsPath, q)
	if err != nil {
		return nil, err
	}

	slots := make([]*Slot, 0, len(items))
	for _, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}
		slot, err := slotFromRaw(raw)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// UpdateSlot replaces the slot on the server with a full object.
func (c *Client) UpdateSlot(ctx context.Context, slot *Slot) (*Slot, error) {
	if slot == nil || slot.ID <= 0 {
		return nil, fmt.Errorf("slot id is required")
	}

	var raw map[string]any
	if err := c.send(ctx, http.MethodPut, fmt.Sprintf("%s%d/", slotsPath, slot.ID), slot.payload(), &raw); err != nil {
		return nil, err
	}

	if raw == nil {
		return slot, nil
	}

	return slotFromRaw(raw)
}

func slotFromRaw(raw map[string]any) (*Slot, error) {
	var slot Slot
	if err := decode(raw, &slot); err != nil {
		return nil, err
	}
	slot.raw = raw
	return &slot, nil
}

// FindSlotByClock returns the slot whose start and end match the given HH:MM values.
func FindSlotByClock(slots []*Slot, start, end string) *Slot {
	for _, slot := range slots {
		if slot == nil {
			continue
		}
		if slot.StartClock() == clock(start) && slot.EndClock() == clock(end) {
			return slot
		}
	}
	return nil
}
