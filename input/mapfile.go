package input

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Mapping file format, line oriented:
//
//	[midimap]
//	map = <cc>,<action>,<parameter>,<continuous|threshold>
//
//	[keymap]
//	map = <keycode>,<action>,<parameter>
//
// Malformed lines are skipped; unknown sections are ignored.

const (
	sectionMIDIMap = "[midimap]"
	sectionKeyMap  = "[keymap]"
)

// LoadMappings replaces the resolver's tables with the contents of the
// file at path. A missing or unreadable file is the only hard failure;
// individual bad lines are silently dropped.
func (r *Resolver) LoadMappings(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open mappings: %w", err)
	}
	defer f.Close()

	r.ClearCC()
	r.ClearKeys()

	section := ""
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			section = strings.ToLower(line)
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(key) != "map" {
			continue
		}

		fields := strings.Split(strings.TrimSpace(value), ",")
		switch section {
		case sectionMIDIMap:
			if m, ok := parseCCMapping(fields); ok {
				r.midi = append(r.midi, m)
			}
		case sectionKeyMap:
			if m, ok := parseKeyMapping(fields); ok {
				r.keys = append(r.keys, m)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read mappings: %w", err)
	}
	return nil
}

// SaveMappings writes both tables to path, skipping unused slots.
func (r *Resolver) SaveMappings(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mappings: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%s\n", sectionMIDIMap)
	for _, m := range r.midi {
		if m.Source == UnmappedSource {
			continue
		}
		fmt.Fprintf(w, "map = %d,%d,%d,%s\n", m.Source, int(m.Action), m.Param, modeName(m.Mode))
	}
	fmt.Fprintf(w, "\n%s\n", sectionKeyMap)
	for _, m := range r.keys {
		if m.Source == UnmappedSource {
			continue
		}
		fmt.Fprintf(w, "map = %d,%d,%d\n", m.Source, int(m.Action), m.Param)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write mappings: %w", err)
	}
	return nil
}

func parseCCMapping(fields []string) (Mapping, bool) {
	if len(fields) != 4 {
		return Mapping{}, false
	}
	source, action, param, ok := parseCommon(fields[:3])
	if !ok {
		return Mapping{}, false
	}
	mode, ok := parseMode(strings.TrimSpace(fields[3]))
	if !ok {
		return Mapping{}, false
	}
	return Mapping{Source: source, Action: action, Param: param, Mode: mode}, true
}

func parseKeyMapping(fields []string) (Mapping, bool) {
	if len(fields) != 3 {
		return Mapping{}, false
	}
	source, action, param, ok := parseCommon(fields)
	if !ok {
		return Mapping{}, false
	}
	return Mapping{Source: source, Action: action, Param: param}, true
}

func parseCommon(fields []string) (source int, action Action, param int, ok bool) {
	source, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return 0, 0, 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil || !Action(n).Valid() {
		return 0, 0, 0, false
	}
	param, err = strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return 0, 0, 0, false
	}
	return source, Action(n), param, true
}

func parseMode(s string) (TriggerMode, bool) {
	switch s {
	case "continuous":
		return TriggerContinuous, true
	case "threshold":
		return TriggerThreshold, true
	}
	return 0, false
}

func modeName(m TriggerMode) string {
	if m == TriggerThreshold {
		return "threshold"
	}
	return "continuous"
}
