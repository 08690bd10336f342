// Package sniff infers a MIME-like content type from raw blob bytes
// when no authoritative type is supplied. Pure functions, no I/O.
package sniff

import (
	"bytes"
	"encoding/json"
)

const (
	// FallbackType is the generic type the storage network reports
	// when the uploader declared nothing useful.
	FallbackType = "application/octet-stream"

	// maxProbe bounds how much of the blob is inspected.
	maxProbe = 1024

	// controlByteThreshold is the fraction of control bytes above
	// which a prefix stops looking like printable text.
	controlByteThreshold = 0.30
)

var htmlPrefixes = [][]byte{
	[]byte("<!doctype html"),
	[]byte("<html"),
	[]byte("<head"),
	[]byte("<body"),
}

var zipMagic = []byte{0x50, 0x4B} // "PK"

// Detect infers a content type for data. A declared type always wins
// unless it is empty or the generic fallback. Detect never fails;
// unparsable input degrades to FallbackType.
func Detect(data []byte, declaredType string) string {
	if declaredType != "" && declaredType != FallbackType {
		return declaredType
	}

	if len(data) == 0 {
		return FallbackType
	}

	probe := data
	if len(probe) > maxProbe {
		probe = probe[:maxProbe]
	}

	if looksLikeHTML(probe) {
		return "text/html"
	}

	if bytes.HasPrefix(probe, zipMagic) {
		return "application/zip"
	}

	if json.Valid(probe) {
		return "application/json"
	}

	if looksLikeText(probe) {
		return "text/plain"
	}

	return FallbackType
}

// looksLikeHTML checks for an HTML doctype or opening tag at the
// start of the probe, ignoring leading whitespace.
func looksLikeHTML(probe []byte) bool {
	trimmed := bytes.ToLower(bytes.TrimLeft(probe, " \t\r\n"))
	for _, prefix := range htmlPrefixes {
		if bytes.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// looksLikeText reports whether the probe's byte distribution looks
// like printable text: control bytes other than tab, newline, and
// carriage return stay under the threshold.
func looksLikeText(probe []byte) bool {
	if len(probe) == 0 {
		return false
	}

	control := 0
	for _, b := range probe {
		if b == '\t' || b == '\n' || b == '\r' {
			continue
		}
		if b < 0x20 || b == 0x7F {
			control++
		}
	}

	return float64(control)/float64(len(probe)) < controlByteThreshold
}
