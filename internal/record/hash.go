package record

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainRecord separates record fingerprints from any other hash.
// The version suffix leaves room for a future encoding change.
const DomainRecord = "docmerge/record/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns a stable content digest of the record.
//
// Equal records always share a fingerprint. It is meant for logs, listings
// and golden traces; membership tests use Key.
func (r Record) Fingerprint() (string, error) {
	canonical, err := MarshalCanonical(r)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainRecord, canonical), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// A Record holds only strings and integers, so this cannot fail in practice.
func (r Record) MustFingerprint() string {
	fp, err := r.Fingerprint()
	if err != nil {
		panic(err)
	}
	return fp
}
