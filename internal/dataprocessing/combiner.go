package dataprocessing

import "pickpulse/pkg/contracts/domain"

// Combine flattens the records of multiple parsed files into one collection.
// It is a pure, order-preserving concatenation: no deduplication, no
// reordering, no validation. Grouping is the aggregators' responsibility.
func Combine(files []ParsedFile) []domain.Record {
	total := 0
	for _, f := range files {
		total += len(f.Records)
	}

	combined := make([]domain.Record, 0, total)
	for _, f := range files {
		combined = append(combined, f.Records...)
	}
	return combined
}
