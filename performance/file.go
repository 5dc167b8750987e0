package performance

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gbraad-modplug/regroove-sub001/input"
)

// Automation persistence format, line oriented:
//
//	[performance]
//	event_count = <N>
//
//	event = <row>,<action>,<parameter>,<value with 3 decimals>
//
// The count line is advisory; loading trusts the event lines themselves.

const fileHeader = "[performance]"

// Save writes the automation log to path.
func (s *Sequencer) Save(path string) error {
	s.mu.Lock()
	events := make([]Event, len(s.log))
	copy(events, s.log)
	s.mu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create automation file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%s\n", fileHeader)
	fmt.Fprintf(w, "event_count = %d\n\n", len(events))
	for _, e := range events {
		fmt.Fprintf(w, "event = %d,%d,%d,%.3f\n", e.Row, int(e.Action), e.Param, e.Value)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write automation file: %w", err)
	}
	return nil
}

// Load replaces the in-memory log with the contents of path and resets
// the playback cursor. A missing file is the only hard failure; bad
// lines are skipped and loading stops quietly once MaxEvents is reached.
func (s *Sequencer) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open automation file: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(events) >= MaxEvents {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(key) != "event" {
			continue
		}
		if e, ok := parseEvent(strings.TrimSpace(value)); ok {
			events = append(events, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read automation file: %w", err)
	}

	s.mu.Lock()
	s.log = events
	s.cursor = 0
	s.mu.Unlock()
	return nil
}

func parseEvent(value string) (Event, bool) {
	fields := strings.Split(value, ",")
	if len(fields) != 4 {
		return Event{}, false
	}
	row, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil || row < 0 {
		return Event{}, false
	}
	action, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return Event{}, false
	}
	param, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return Event{}, false
	}
	val, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
	if err != nil {
		return Event{}, false
	}
	return Event{Row: row, Action: input.Action(action), Param: param, Value: val}, true
}
