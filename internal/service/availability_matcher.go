package service

import (
	"fmt"
	"strings"

	"clinic-appointment-api/internal/domain/entity"
)

// AvailabilityPolicy decides how a requested slot is matched against a declared one.
type AvailabilityPolicy string

const (
	// PolicyContainment accepts a request nested inside an available window on the same day.
	PolicyContainment AvailabilityPolicy = "containment"
	// PolicyExact accepts only a request equal to an available slot.
	PolicyExact AvailabilityPolicy = "exact"
)

func ParseAvailabilityPolicy(s string) (AvailabilityPolicy, error) {
	switch AvailabilityPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyContainment:
		return PolicyContainment, nil
	case PolicyExact:
		return PolicyExact, nil
	default:
		return "", fmt.Errorf("unknown availability policy %q", s)
	}
}

// AvailabilityMatcher checks requested slots against a doctor's availability set.
type AvailabilityMatcher struct {
	policy AvailabilityPolicy
}

func NewAvailabilityMatcher(policy AvailabilityPolicy) *AvailabilityMatcher {
	if policy == "" {
		policy = PolicyContainment
	}
	return &AvailabilityMatcher{policy: policy}
}

func (m *AvailabilityMatcher) Policy() AvailabilityPolicy {
	return m.policy
}

func (m *AvailabilityMatcher) IsContained(requested, available entity.Slot) bool {
	if m.policy == PolicyExact {
		return available.Equal(requested)
	}
	return available.Contains(requested)
}

// FindAvailable returns the first entry of availability, in insertion order,
// that accepts requested.
func (m *AvailabilityMatcher) FindAvailable(requested entity.Slot, availability []entity.Slot) (entity.Slot, bool) {
	for _, slot := range availability {
		if m.IsContained(requested, slot) {
			return slot, true
		}
	}
	return entity.Slot{}, false
}
