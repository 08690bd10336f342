package sitedetect

import (
	"bufio"
	"bytes"
	"strings"
)

// parseHeaders reads the reserved _headers control file: newline
// delimited "key: value" pairs. Blank lines, comment lines (leading
// #), and path-prefix lines (leading /) are skipped. Malformed lines
// are ignored rather than failing the whole file.
func parseHeaders(data []byte) map[string]string {
	headers := map[string]string{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "/") {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		headers[key] = value
	}

	if len(headers) == 0 {
		return nil
	}
	return headers
}
