package cli

// Default values for CLI output formatting.
const (
	// TabWidth is the width of tabs in formatted output.
	TabWidth = 2
	// ChecksumDisplayLength is how many hex digits of a checksum to show in listings.
	ChecksumDisplayLength = 12
)
