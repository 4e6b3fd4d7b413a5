package classify

// Filter returns the records whose tag is in keep and whose score is at
// least minScore, in input order. The input slice is not modified.
func Filter(records []Record, keep []Tag, minScore int) []Record {
	allowed := make(map[Tag]bool, len(keep))
	for _, t := range keep {
		allowed[t] = true
	}

	out := make([]Record, 0)
	for _, r := range records {
		if allowed[r.Tag] && r.Score >= minScore {
			out = append(out, r)
		}
	}
	return out
}
