package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// maxOriginalNameLen keeps the stored name well inside the imagePath bound.
const maxOriginalNameLen = 200

// SanitizeFilename replaces every character outside [A-Za-z0-9.] with '_'.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == '.' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	out := b.String()
	// output is ASCII; keep the tail so the extension survives
	if len(out) > maxOriginalNameLen {
		out = out[len(out)-maxOriginalNameLen:]
	}
	if strings.Trim(out, "._") == "" {
		return "upload"
	}
	return out
}

// StoredFilename builds {unixMillis}-{8 hex}-{sanitized original}.
func StoredFilename(now time.Time, original string) (string, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("random suffix: %w", err)
	}
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), hex.EncodeToString(buf[:]), SanitizeFilename(original)), nil
}
