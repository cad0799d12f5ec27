package main

import (
	"github.com/atlanticofertlog/cargo-docs/constants"
	"github.com/atlanticofertlog/cargo-docs/internal/entity"
)

type batchSummary struct {
	Total     int
	Extracted int
	Failed    int
	Review    []string
	Unfinished []string
}

// summarizeBatch counts a batch's jobs by outcome and lists the source paths
// an operator still has to look at.
func summarizeBatch(jobs []entity.ExtractJob) batchSummary {
	s := batchSummary{Total: len(jobs)}
	for _, j := range jobs {
		switch j.Status {
		case constants.JobStatusExtracted:
			s.Extracted++
			if j.NeedsReview {
				s.Review = append(s.Review, j.SourcePath)
			}
		case constants.JobStatusFailed:
			s.Failed++
			s.Review = append(s.Review, j.SourcePath)
		default:
			s.Unfinished = append(s.Unfinished, j.SourcePath)
		}
	}
	return s
}
