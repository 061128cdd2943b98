package agent

import (
	"fmt"
	"os"
	"strings"
)

// LoadCorpus reads the filler utterance corpus, one candidate line per
// file line. Blank lines are dropped. A missing file is an error; the
// caller decides whether to continue with an empty corpus.
func LoadCorpus(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
