package main

import (
	"errors"
	"fmt"
)

// Theme is the display theme chosen by the user.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// UserSettings holds the user preferences.
type UserSettings struct {
	ReadingGoal   int   `json:"readingGoal"`
	Theme         Theme `json:"theme"`
	Notifications bool  `json:"notifications"`
}

// DefaultUserSettings returns the settings used when nothing was saved yet.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		ReadingGoal:   10,
		Theme:         ThemeLight,
		Notifications: true,
	}
}

// SettingsPatch is a partial update of the user settings.
type SettingsPatch struct {
	ReadingGoal   *int   `json:"readingGoal,omitempty"`
	Theme         *Theme `json:"theme,omitempty"`
	Notifications *bool  `json:"notifications,omitempty"`
}

// Validate reports the first invalid field of the patch.
func (p SettingsPatch) Validate() error {
	if p.ReadingGoal != nil && *p.ReadingGoal < 0 {
		return errors.New("readingGoal must not be negative")
	}
	if p.Theme != nil && *p.Theme != ThemeLight && *p.Theme != ThemeDark {
		return fmt.Errorf("theme must be one of %s, %s", ThemeLight, ThemeDark)
	}
	return nil
}

// Merge applies the top-level keys present in the patch.
func (s UserSettings) Merge(p SettingsPatch) UserSettings {
	if p.ReadingGoal != nil {
		s.ReadingGoal = *p.ReadingGoal
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	return s
}
