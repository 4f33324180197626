package ingest

// FileResult records the outcome of ingesting a single file.
type FileResult struct {
	Source  string // Path relative to the KB root
	Title   string
	Chunks  int   // Chunks produced by the chunker
	Stored  int   // Chunks embedded and upserted
	Skipped int   // Chunks dropped after an embed or upsert failure
	Err     error // File-level failure (unreadable file); nil otherwise
}

// Failed reports whether the file never made it into the pipeline at all.
// A file with some skipped chunks still counts as processed.
func (r FileResult) Failed() bool {
	return r.Err != nil
}

// Report summarizes one ingestion run.
type Report struct {
	FilesFound     int
	FilesProcessed int
	FilesFailed    int
	ChunksStored   int
	ChunksSkipped  int
	Files          []FileResult
}

// buildReport aggregates per-file results into run totals.
func buildReport(results []FileResult) *Report {
	report := &Report{
		FilesFound: len(results),
		Files:      results,
	}
	for _, r := range results {
		if r.Failed() {
			report.FilesFailed++
			continue
		}
		report.FilesProcessed++
		report.ChunksStored += r.Stored
		report.ChunksSkipped += r.Skipped
	}
	return report
}
