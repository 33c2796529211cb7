package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for content hashes.
// Version suffix enables future algorithm migration.
const (
	DomainStep    = "execdiff/step/v1"
	DomainTestRun = "execdiff/testrun/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + part + 0x00 + part ...)
func hashWithDomain(domain string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(domain))
	for _, p := range parts {
		h.Write([]byte{0x00})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// NormalizeName returns the NFC form of a display name with surrounding
// whitespace removed. Names typed on different platforms compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// StepHash computes a content hash for a step from its kind, normalized name
// and the hash of its parent. Two steps with the same name under different
// parents hash differently.
func StepHash(kind Kind, name, parentHash string) string {
	return hashWithDomain(DomainStep, string(kind), NormalizeName(name), parentHash)
}

// TestRunHash computes a content hash for a test run. The test case id wins
// over the name when present.
func TestRunHash(testCaseID, name string) string {
	if testCaseID != "" {
		return hashWithDomain(DomainTestRun, "case", testCaseID)
	}
	return hashWithDomain(DomainTestRun, "name", NormalizeName(name))
}
