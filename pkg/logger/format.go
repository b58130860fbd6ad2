package logger

import "fmt"

func sprintf(format string, v ...interface{}) string {
	return fmt.Sprintf(format, v...)
}

func sprintln(v ...interface{}) string {
	return fmt.Sprintln(v...)
}

// Mask hides all but the last four characters of a secret such as a session token.
func Mask(secret string) string {
	if secret == "" {
		return "<none>"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
