package rpcgraph

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadHostsFile parses a newline-delimited `host:port` hosts file.
// Blank lines and lines starting with "#" are skipped. Machine i in
// the returned slice is processor i.
func ReadHostsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rpcgraph: opening hosts file %s: %w", path, err)
	}
	defer f.Close()

	var hosts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		hosts = append(hosts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("rpcgraph: reading hosts file %s: %w", path, err)
	}
	return hosts, nil
}
