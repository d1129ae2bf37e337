package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// mobilePattern matches a 10-digit Indian mobile number
var mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// ValidateMobileNumber validates a phone number and normalizes it to its
// 10-digit local form. Separators and the 91 country code are tolerated.
func ValidateMobileNumber(mobile string) (bool, string, error) {
	stripped := strings.ReplaceAll(mobile, "-", "")
	stripped = strings.ReplaceAll(stripped, " ", "")
	stripped = strings.ReplaceAll(stripped, "+", "")

	// Remove country code or trunk prefix if present
	if strings.HasPrefix(stripped, "91") && len(stripped) == 12 {
		stripped = stripped[2:]
	} else if strings.HasPrefix(stripped, "0") && len(stripped) == 11 {
		stripped = stripped[1:]
	}

	if !mobilePattern.MatchString(stripped) {
		return false, "", fmt.Errorf("invalid mobile number format")
	}

	return true, stripped, nil
}
