package domain

import (
	"fmt"
	"strconv"
)

const (
	SettingWorkStartTime        = "work_start_time"
	SettingLateThresholdMinutes = "late_threshold_minutes"
	SettingConfidenceThreshold  = "confidence_threshold"
)

// MaxLateThresholdMinutes caps the grace period at one day.
const MaxLateThresholdMinutes = 24 * 60

// DefaultSettings are used whenever a key is unset or the store is unreachable.
var DefaultSettings = map[string]string{
	SettingWorkStartTime:        "09:00",
	SettingLateThresholdMinutes: "15",
	SettingConfidenceThreshold:  "0.5",
}

// ValidateSetting checks a key/value pair before it is persisted.
func ValidateSetting(key, value string) error {
	switch key {
	case SettingWorkStartTime:
		if _, _, err := ParseClock(value); err != nil {
			return fmt.Errorf("%s must be HH:MM", key)
		}
	case SettingLateThresholdMinutes:
		if _, err := ParseLateThresholdMinutes(value); err != nil {
			return err
		}
	case SettingConfidenceThreshold:
		if _, err := ParseConfidenceThreshold(value); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

// ParseLateThresholdMinutes parses a grace period in whole minutes within
// [0, MaxLateThresholdMinutes].
func ParseLateThresholdMinutes(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 || n > MaxLateThresholdMinutes {
		return 0, fmt.Errorf("%s must be an integer between 0 and %d", SettingLateThresholdMinutes, MaxLateThresholdMinutes)
	}
	return n, nil
}

// ParseConfidenceThreshold parses a threshold in [0, 1]. NaN and infinities
// are rejected.
func ParseConfidenceThreshold(value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || !(f >= 0 && f <= 1) {
		return 0, fmt.Errorf("%s must be a number between 0 and 1", SettingConfidenceThreshold)
	}
	return f, nil
}
