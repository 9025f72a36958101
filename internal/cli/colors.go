package cli

// ANSI color codes for consistent styling across all CLI commands
const (
	// Reset all formatting
	Reset = "\033[0m"

	// Text colors
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	White  = "\033[37m"

	// Text formatting
	Bold = "\033[1m"
)

// Predefined color combinations for consistency
var (
	// Headers and titles
	HeaderStyle = Cyan + Bold

	// Status messages
	SuccessStyle = Green + Bold
	ErrorStyle   = Red + Bold
	WarningStyle = Yellow + Bold
	InfoStyle    = Blue + Bold

	// Data display
	LabelStyle = Cyan
	ValueStyle = White + Bold
)

// Helper functions for common formatting patterns
func FormatHeader(text string) string {
	return HeaderStyle + text + Reset
}

func FormatSuccess(text string) string {
	return SuccessStyle + text + Reset
}

func FormatError(text string) string {
	return ErrorStyle + text + Reset
}

func FormatWarning(text string) string {
	return WarningStyle + text + Reset
}

func FormatInfo(text string) string {
	return InfoStyle + text + Reset
}

// Format a label-value pair
func FormatLabelValue(label, value string) string {
	return LabelStyle + label + Reset + " " + ValueStyle + value + Reset
}
