package run

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"strings"
)

// Fingerprint identifies the input and settings a run was produced from.
// Two runs with equal fingerprints produce the same charts.
type Fingerprint struct {
	InputDigest string  `json:"input_digest"`
	Exporter    string  `json:"exporter"`
	Scale       float64 `json:"scale"`
	Fingerprint string  `json:"fingerprint"` // Hash of all above
}

// NewFingerprint creates a fingerprint from the input digest and export settings
func NewFingerprint(inputDigest, exporter string, scale float64) Fingerprint {
	return Fingerprint{
		InputDigest: inputDigest,
		Exporter:    exporter,
		Scale:       scale,
		Fingerprint: computeFingerprint(inputDigest, exporter, scale),
	}
}

func computeFingerprint(inputDigest, exporter string, scale float64) string {
	data := fmt.Sprintf("input:%s|exporter:%s|scale:%g", inputDigest, strings.ToLower(exporter), scale)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// DigestFile returns the hex SHA-256 of a file's contents
func DigestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
