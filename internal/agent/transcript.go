package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Channel names a transcript channel.
type Channel string

const (
	ChannelTalk    Channel = "talk"
	ChannelWhisper Channel = "whisper"
)

var entryPattern = regexp.MustCompile(`^\[day (\d+)\] \[([a-z]+)\] ([^:]+): (.*)$`)

// Entry is one recorded utterance.
type Entry struct {
	Day     int
	Channel Channel
	Speaker string
	Text    string
}

// Transcript is an append-only per-game record of every utterance the
// agent perceives, one parseable line per utterance.
type Transcript struct {
	path string
}

// NewTranscript creates a transcript file handle under dir, named
// after the game id. The directory is created as needed.
func NewTranscript(dir, gameID string) (*Transcript, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}
	return &Transcript{path: filepath.Join(dir, gameID+".log")}, nil
}

func (t *Transcript) Path() string {
	return t.path
}

// FormatEntry creates a formatted transcript line.
func FormatEntry(channel Channel, day int, speaker, text string) string {
	return fmt.Sprintf("[day %d] [%s] %s: %s", day, channel, speaker, text)
}

// ParseEntry parses a single transcript line into an Entry.
func ParseEntry(line string) (Entry, error) {
	matches := entryPattern.FindStringSubmatch(strings.TrimSpace(line))
	if matches == nil {
		return Entry{}, fmt.Errorf("invalid transcript line: %s", line)
	}
	day, err := strconv.Atoi(matches[1])
	if err != nil {
		return Entry{}, fmt.Errorf("parse day: %w", err)
	}
	return Entry{
		Day:     day,
		Channel: Channel(matches[2]),
		Speaker: matches[3],
		Text:    matches[4],
	}, nil
}

// Record appends one utterance to the transcript file.
func (t *Transcript) Record(channel Channel, day int, speaker, text string) error {
	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open transcript for append: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, FormatEntry(channel, day, speaker, text)); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// Entries reads the whole transcript back, skipping malformed lines.
func (t *Transcript) Entries() ([]Entry, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	var entries []Entry
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		e, err := ParseEntry(line)
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}
