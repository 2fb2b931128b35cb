// Package sphere reads legacy Sphere script (.scp) files into raw records.
package sphere

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cory-johannsen/sphereconv/internal/convert"
)

const (
	commentMarker = "//"
	triggerField  = "on"
	eofHeader     = "eof"
)

// Parse reads one script file. Lines before the first header are ignored,
// whole-line comments are dropped outside trigger blocks and [EOF] ends the
// file.
//
// Postcondition: returns a non-nil SourceFile and the warnings for skipped
// lines, or a non-nil error when r cannot be read.
func Parse(r io.Reader, path string) (*convert.SourceFile, []string, error) {
	file := &convert.SourceFile{Path: path, RelPath: path}
	var warnings []string
	var rec *convert.RawRecord
	var trigger *convert.TriggerBlock

	closeTrigger := func() {
		if trigger == nil {
			return
		}
		for len(trigger.Lines) > 0 && strings.TrimSpace(trigger.Lines[len(trigger.Lines)-1]) == "" {
			trigger.Lines = trigger.Lines[:len(trigger.Lines)-1]
		}
		rec.Triggers = append(rec.Triggers, *trigger)
		trigger = nil
	}
	closeRecord := func() {
		if rec == nil {
			return
		}
		closeTrigger()
		file.Records = append(file.Records, *rec)
		rec = nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := strings.TrimRight(sc.Text(), " \t\r")
		line := strings.TrimSpace(raw)
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if strings.HasPrefix(line, "[") {
			typ, name, err := parseHeader(line)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s:%d: %v; line skipped", path, lineNo, err))
				continue
			}
			closeRecord()
			if strings.EqualFold(typ, eofHeader) {
				return file, warnings, nil
			}
			rec = &convert.RawRecord{HeaderType: typ, HeaderName: name, HeaderLine: lineNo}
			continue
		}
		if rec == nil {
			continue
		}

		head, _ := splitComment(line)
		if name, value, ok := splitField(head); ok && strings.EqualFold(name, triggerField) {
			closeTrigger()
			trigger = &convert.TriggerBlock{Name: strings.TrimPrefix(value, "@"), Line: lineNo}
			continue
		}
		if trigger != nil {
			trigger.Lines = append(trigger.Lines, raw)
			continue
		}

		if line == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}
		body, comment := splitComment(line)
		name, value, ok := splitField(body)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s:%d: malformed field %q; line skipped", path, lineNo, line))
			continue
		}
		rec.Fields = append(rec.Fields, convert.RawField{Name: name, Value: value, Comment: comment, Line: lineNo})
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	closeRecord()
	return file, warnings, nil
}

func parseHeader(line string) (typ, name string, err error) {
	end := strings.Index(line, "]")
	if end < 0 {
		return "", "", fmt.Errorf("unterminated header %q", line)
	}
	inner := strings.TrimSpace(line[1:end])
	if inner == "" {
		return "", "", fmt.Errorf("empty header")
	}
	typ, name, _ = strings.Cut(inner, " ")
	return typ, strings.TrimSpace(name), nil
}

// splitField splits "name=value" or "name value".
func splitField(s string) (name, value string, ok bool) {
	if i := strings.IndexAny(s, "= \t"); i >= 0 {
		name, value = s[:i], s[i+1:]
		if s[i] != '=' {
			value = strings.TrimLeft(value, " \t")
			value = strings.TrimPrefix(value, "=")
		}
	} else {
		name = s
	}
	name = strings.TrimSpace(name)
	return name, strings.TrimSpace(value), name != ""
}

func splitComment(s string) (body, comment string) {
	i := strings.Index(s, commentMarker)
	if i < 0 {
		return s, ""
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(commentMarker):])
}
