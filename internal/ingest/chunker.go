package ingest

// Chunk splits text into overlapping fixed-size windows.
//
// Starting at offset 0 it emits text[offset : offset+size] and advances the
// offset by size-overlap while offset < len(text). Any non-empty text yields
// at least one chunk, a text shorter than size yields exactly one, and the
// final chunk may be shorter than size. Windows are cut at rune positions
// with no word or sentence awareness; splitting mid-word is a documented
// limitation of the windowing scheme, not something to repair here.
//
// Callers must guarantee 0 <= overlap < size. That is enforced when the
// configuration is loaded, never detected here.
func Chunk(text string, size, overlap int) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	step := size - overlap

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
