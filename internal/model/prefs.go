package model

import "encoding/json"

type Screen string

const (
	ScreenPlan      Screen = "plan"
	ScreenFocus     Screen = "focus"
	ScreenDashboard Screen = "dashboard"
)

func (s Screen) IsValid() bool {
	switch s {
	case ScreenPlan, ScreenFocus, ScreenDashboard:
		return true
	default:
		return false
	}
}

// UIPrefs is stored under KeyUIPrefs, independently of AppState.
type UIPrefs struct {
	Screen          Screen `json:"screen" yaml:"screen"`
	DarkMode        bool   `json:"darkMode" yaml:"darkMode"`
	FocusCursor     int    `json:"focusCursor" yaml:"focusCursor"`
	ShowMomentumBar bool   `json:"showMomentumBar" yaml:"showMomentumBar"`
	ShowWeeklyBox   bool   `json:"showWeeklyBox" yaml:"showWeeklyBox"`
}

func DefaultUIPrefs() UIPrefs {
	return UIPrefs{
		Screen:          ScreenPlan,
		DarkMode:        false,
		FocusCursor:     0,
		ShowMomentumBar: true,
		ShowWeeklyBox:   true,
	}
}

// DecodeUIPrefs never rejects the whole payload: every field that is missing
// or has the wrong type keeps its default.
func DecodeUIPrefs(data []byte) UIPrefs {
	out := DefaultUIPrefs()
	raw, err := decodeUntrusted(data)
	if err != nil {
		return out
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return out
	}
	if v, ok := obj["screen"].(string); ok && Screen(v).IsValid() {
		out.Screen = Screen(v)
	}
	if v, ok := obj["darkMode"].(bool); ok {
		out.DarkMode = v
	}
	if v, ok := intField(obj, "focusCursor"); ok && v >= 0 {
		out.FocusCursor = v
	}
	if v, ok := obj["showMomentumBar"].(bool); ok {
		out.ShowMomentumBar = v
	}
	if v, ok := obj["showWeeklyBox"].(bool); ok {
		out.ShowWeeklyBox = v
	}
	return out
}

func (p UIPrefs) Encode() ([]byte, error) {
	return json.Marshal(p)
}
