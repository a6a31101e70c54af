package entry

import (
	"fmt"
	"strings"
)

// WeatherKind enumerates the built-in weather tags.
type WeatherKind string

const (
	WeatherNone   WeatherKind = ""
	WeatherSunny  WeatherKind = "sunny"
	WeatherCloudy WeatherKind = "cloudy"
	WeatherRainy  WeatherKind = "rainy"
	WeatherSnowy  WeatherKind = "snowy"
	WeatherWindy  WeatherKind = "windy"
	WeatherStormy WeatherKind = "stormy"
	WeatherFoggy  WeatherKind = "foggy"
	WeatherCustom WeatherKind = "custom"
)

var weatherSymbols = map[WeatherKind]string{
	WeatherSunny:  "☀️",
	WeatherCloudy: "☁️",
	WeatherRainy:  "🌧️",
	WeatherSnowy:  "❄️",
	WeatherWindy:  "💨",
	WeatherStormy: "⛈️",
	WeatherFoggy:  "🌫️",
}

// Weather is a symbolic weather tag: either a built-in kind or a custom
// symbol+label pair.
type Weather struct {
	Kind   WeatherKind `json:"kind,omitempty"`
	Symbol string      `json:"symbol,omitempty"`
	Label  string      `json:"label,omitempty"`
}

// IsZero reports whether no weather was recorded.
func (w Weather) IsZero() bool {
	return w.Kind == WeatherNone
}

// Display renders the weather as "symbol label".
func (w Weather) Display() string {
	switch w.Kind {
	case WeatherNone:
		return ""
	case WeatherCustom:
		return strings.TrimSpace(w.Symbol + " " + w.Label)
	default:
		return weatherSymbols[w.Kind] + " " + string(w.Kind)
	}
}

// String returns the form accepted by ParseWeather.
func (w Weather) String() string {
	if w.Kind == WeatherCustom {
		return fmt.Sprintf("custom:%s:%s", w.Symbol, w.Label)
	}
	return string(w.Kind)
}

// ParseWeather parses a built-in kind ("rainy") or a custom tag
// ("custom:<symbol>:<label>"). The empty string yields the zero Weather.
func ParseWeather(s string) (Weather, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Weather{}, nil
	}
	if strings.HasPrefix(s, "custom:") {
		parts := strings.SplitN(strings.TrimPrefix(s, "custom:"), ":", 2)
		if len(parts) != 2 || parts[0] == "" {
			return Weather{}, fmt.Errorf("invalid custom weather %q (use custom:<symbol>:<label>)", s)
		}
		return Weather{Kind: WeatherCustom, Symbol: parts[0], Label: parts[1]}, nil
	}
	kind := WeatherKind(strings.ToLower(s))
	if _, ok := weatherSymbols[kind]; !ok {
		return Weather{}, fmt.Errorf("unknown weather %q", s)
	}
	return Weather{Kind: kind}, nil
}
