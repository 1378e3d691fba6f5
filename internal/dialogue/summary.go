package dialogue

import "sort"

// Confidence bucket bounds. With only two confidence values in use the
// medium bucket stays empty; it is kept so reports have a stable shape.
const (
	highConfidenceAbove = 0.7
	lowConfidenceAtMost = 0.3
)

// CharacterCount is the number of lines attributed to one speaker.
type CharacterCount struct {
	Speaker string
	Lines   int
}

// Summary aggregates a parse run for the final report.
type Summary struct {
	TotalLines int
	Characters []CharacterCount
	High       int
	Medium     int
	Low        int
}

// Summarize counts lines per named character (alphabetical) and sorts
// confidences into high, medium and low buckets.
func Summarize(lines []DialogueLine) Summary {
	counts := make(map[string]int)
	s := Summary{TotalLines: len(lines)}
	for _, line := range lines {
		if !IsSentinel(line.Speaker) {
			counts[line.Speaker]++
		}
		switch {
		case line.Confidence > highConfidenceAbove:
			s.High++
		case line.Confidence > lowConfidenceAtMost:
			s.Medium++
		default:
			s.Low++
		}
	}
	for speaker, n := range counts {
		s.Characters = append(s.Characters, CharacterCount{Speaker: speaker, Lines: n})
	}
	sort.Slice(s.Characters, func(i, j int) bool {
		return s.Characters[i].Speaker < s.Characters[j].Speaker
	})
	return s
}

// Summary summarizes the record.
func (r *Record) Summary() Summary {
	return Summarize(r.lines)
}
