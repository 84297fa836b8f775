package x12

import "strings"

const (
	ElementSeparator   = "*"
	SegmentTerminator  = "\n"
	ComponentSeparator = ">"
)

// Segment identifiers emitted by the encoder.
const (
	segISA = "ISA"
	segGS  = "GS"
	segST  = "ST"
	segBSN = "BSN"
	segHL  = "HL"
	segTD1 = "TD1"
	segTD5 = "TD5"
	segREF = "REF"
	segDTM = "DTM"
	segN1  = "N1"
	segN3  = "N3"
	segN4  = "N4"
	segPRF = "PRF"
	segLIN = "LIN"
	segSN1 = "SN1"
	segPID = "PID"
	segCTT = "CTT"
	segSE  = "SE"
	segGE  = "GE"
	segIEA = "IEA"
)

// Segment is a segment identifier followed by its elements.
type Segment []string

func seg(id string, elements ...string) Segment {
	return append(Segment{id}, elements...)
}

// ID returns the segment identifier.
func (s Segment) ID() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Element returns the element at 1-based position pos, or "" when absent.
func (s Segment) Element(pos int) string {
	if pos <= 0 || pos >= len(s) {
		return ""
	}
	return s[pos]
}

func (s Segment) String() string {
	return strings.Join(s, ElementSeparator)
}

// Join serializes segments into document text.
func Join(segments []Segment) string {
	lines := make([]string, len(segments))
	for i, s := range segments {
		lines[i] = s.String()
	}
	return strings.Join(lines, SegmentTerminator)
}

// Parse splits document text back into segments.
func Parse(text string) []Segment {
	var out []Segment
	for _, line := range strings.Split(text, SegmentTerminator) {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		out = append(out, Segment(strings.Split(line, ElementSeparator)))
	}
	return out
}
