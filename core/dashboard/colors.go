package dashboard

// Progress colours.
const (
	ColorBlue   = "#3b82f6"
	ColorYellow = "#facc15"
	ColorRed    = "#ef4444"
	ColorGreen  = "#16a34a"
)

// OccupancyColor goes from blue (mostly empty) to red (nearly full).
func OccupancyColor(percent int) string {
	switch {
	case percent < 40:
		return ColorBlue
	case percent < 70:
		return ColorYellow
	default:
		return ColorRed
	}
}

// EngagementColor goes from red (low engagement) to green.
func EngagementColor(percent int) string {
	switch {
	case percent < 40:
		return ColorRed
	case percent < 70:
		return ColorYellow
	default:
		return ColorGreen
	}
}
