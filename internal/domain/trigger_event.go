package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TriggerEventBase contains fields common to all events sent by an app-open
// detector.
type TriggerEventBase struct {
	EventName string `json:"event"`
	Source    string `json:"source"` // detector that sent the event, e.g. "usage_stats"
}

// AppOpenInput is sent when a monitored app is detected in the foreground.
type AppOpenInput struct {
	TriggerEventBase
	AppName    string `json:"app_name"`
	AppPackage string `json:"app_package"`
	DetectedAt string `json:"detected_at"`
}

// ParseTriggerEvent parses raw JSON into the appropriate typed event struct.
func ParseTriggerEvent(data []byte) (any, error) {
	var base TriggerEventBase
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("failed to parse trigger event: %w", err)
	}

	if base.EventName == "" {
		return nil, fmt.Errorf("missing event")
	}

	switch base.EventName {
	case "AppOpen":
		var event AppOpenInput
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, fmt.Errorf("failed to parse AppOpen event: %w", err)
		}
		event.AppName = strings.TrimSpace(event.AppName)
		event.AppPackage = strings.TrimSpace(event.AppPackage)
		if event.AppName == "" && event.AppPackage == "" {
			return nil, fmt.Errorf("AppOpen event needs app_name or app_package")
		}
		if event.AppName == "" {
			event.AppName = event.AppPackage
		}
		return &event, nil

	default:
		return nil, fmt.Errorf("unknown trigger event: %s", base.EventName)
	}
}
