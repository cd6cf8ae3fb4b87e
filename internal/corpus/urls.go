package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadURLList reads one URL per line. Blank lines and lines starting
// with '#' are ignored.
func ReadURLList(r io.Reader) ([]string, error) {
	urls := make([]string, 0)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	return urls, nil
}
