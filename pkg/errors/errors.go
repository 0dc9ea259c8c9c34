package errors

import "fmt"

// Common error types.
var (
	// Path and validation errors.
	ErrInvalidPath = fmt.Errorf("invalid path")
	ErrValidation  = fmt.Errorf("validation failed")

	// Manifest errors.
	ErrManifestNotFound  = fmt.Errorf("manifest file not found")
	ErrManifestMalformed = fmt.Errorf("malformed manifest line")
	ErrChecksumMissing   = fmt.Errorf("checksum required but missing")
	ErrChecksumMismatch  = fmt.Errorf("checksum mismatch")

	// Artifact errors.
	ErrArtifactNotFound = fmt.Errorf("artifact not found")
	ErrArtifactInvalid  = fmt.Errorf("invalid artifact")

	// Dependency errors.
	ErrInvalidCoordinate = fmt.Errorf("invalid dependency coordinate")

	// Download errors.
	ErrDownloadFailed = fmt.Errorf("download failed")

	// Config errors.
	ErrEmptyConfigPath = fmt.Errorf("config file path cannot be empty")
	ErrConfigParse     = fmt.Errorf("failed to parse config")
	ErrConfigValidate  = fmt.Errorf("invalid configuration")

	// Hook errors.
	ErrHookTypeEmpty = fmt.Errorf("hook type cannot be empty")
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookLoad      = fmt.Errorf("failed to load hook")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
