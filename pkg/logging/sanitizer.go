package logging

import "regexp"

// RedactedText replaces sensitive values in logged strings.
const RedactedText = "[REDACTED]"

var (
	// password=xxx, pwd=xxx, pass=xxx in DSN-style strings
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// user:pass@host credentials in URL-style connection strings
	connStringPattern = regexp.MustCompile(`://[^:]+:[^@]+@[^/\s]+`)
)

// SanitizeConnectionString redacts credentials from a connection string
// before it is logged.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}
	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	return connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
}

// SanitizeError redacts credentials from an error message. Postgres and
// Redis driver errors can echo the connection string that failed.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeConnectionString(err.Error())
}

// TruncateString truncates a string to maxLen and adds an ellipsis.
// Used to keep sampled cell values from bloating log lines.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
