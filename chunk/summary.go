package chunk

// Summary aggregates text metrics: bytes, chars and line terminators.
// Summaries of consecutive pieces of text add up.
type Summary struct {
	Bytes int
	Chars int
	Terms int
}

// Summary returns aggregate metrics for this chunk.
func (c Chunk) Summary() Summary {
	return Summary{
		Bytes: c.Len(),
		Chars: c.CharCount(),
		Terms: c.Terminators(),
	}
}

// Add combines two summaries.
func (s Summary) Add(other Summary) Summary {
	return Summary{
		Bytes: s.Bytes + other.Bytes,
		Chars: s.Chars + other.Chars,
		Terms: s.Terms + other.Terms,
	}
}
