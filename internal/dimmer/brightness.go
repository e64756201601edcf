package dimmer

import "time"

// Brightness limits and defaults, in percent.
const (
	MinBrightness     = 10.0
	MaxBrightness     = 100.0
	DefaultBrightness = 80.0
	DefaultStep       = 5.0
)

// MaxAlpha is the overlay opacity at 0% brightness. At the 10% floor the
// overlay never exceeds 0.81, so the screen is never fully blacked out.
const MaxAlpha = 0.9

// DefaultHideDelay is how long the slider popup stays up without interaction.
const DefaultHideDelay = 2000 * time.Millisecond

// Clamp limits v to [MinBrightness, MaxBrightness].
func Clamp(v float64) float64 {
	switch {
	case v != v: // NaN
		return MinBrightness
	case v < MinBrightness:
		return MinBrightness
	case v > MaxBrightness:
		return MaxBrightness
	default:
		return v
	}
}

// Alpha maps a brightness percentage to overlay opacity.
func Alpha(brightness float64) float64 {
	return MaxAlpha * (1 - Clamp(brightness)/100)
}
