package convert

import (
	"bytes"
)

// Render writes the unit's output text: per definition, a blank separator,
// the header and the emitted lines, all commented out when suppressed.
// Failed definitions are skipped.
func (u *Unit) Render() []byte {
	var buf bytes.Buffer
	for _, d := range u.Definitions {
		if d.failed {
			continue
		}
		prefix := ""
		if d.Suppressed {
			prefix = CommentMarker
		}
		buf.WriteByte('\n')
		buf.WriteString(prefix + d.Header() + "\n")
		for _, line := range d.lines {
			buf.WriteString(prefix + line + "\n")
		}
	}
	return buf.Bytes()
}

// Counts returns how many definitions of the unit converted cleanly, were
// suppressed and failed.
func (u *Unit) Counts() (converted, suppressed, failed int) {
	for _, d := range u.Definitions {
		switch {
		case d.failed:
			failed++
		case d.Suppressed:
			suppressed++
		default:
			converted++
		}
	}
	return converted, suppressed, failed
}
