package logattr

import "unicode"

// sentences marks sentence boundaries. A sentence ends behind terminal
// punctuation (plus closing quotes or brackets) if white space or the end
// of the paragraph follows. A sentence starts at the first non-white
// character following a sentence end or the paragraph start.
func sentences(runes []rune, attrs []LogAttr) {
	n := len(runes)
	seeking := true // looking for the start of the next sentence
	lastNonWhite := -1
	for i := 0; i < n; i++ {
		r := runes[i]
		white := unicode.IsSpace(r)
		if seeking {
			if white {
				continue
			}
			attrs[i].IsSentenceStart = true
			seeking = false
		}
		if !white {
			lastNonWhite = i
		}
		if isTerminator(r) {
			if lastNonWhite >= 0 && !attrs[lastNonWhite+1].IsSentenceEnd && !sentenceEnded(attrs, lastNonWhite+1) {
				attrs[lastNonWhite+1].IsSentenceEnd = true
			}
			seeking = true
			continue
		}
		if !isSentenceTerminal(r) {
			continue
		}
		j := i + 1
		for j < n && isTerminalOrCloser(runes[j]) {
			j++
		}
		if j == n || unicode.IsSpace(runes[j]) {
			attrs[j].IsSentenceEnd = true
			lastNonWhite = j - 1
			seeking = true
			i = j - 1
		}
	}
	if !seeking && lastNonWhite >= 0 {
		attrs[lastNonWhite+1].IsSentenceEnd = true
	}
}

// sentenceEnded checks whether a sentence end has been set between the
// last sentence start and position pos.
func sentenceEnded(attrs []LogAttr, pos int) bool {
	for i := pos; i >= 0; i-- {
		if attrs[i].IsSentenceEnd {
			return true
		}
		if attrs[i].IsSentenceStart {
			return false
		}
	}
	return false
}

func isSentenceTerminal(r rune) bool {
	switch r {
	case '.', '!', '?', '…', '。', '！', '？', '‼', '⁇', '⁈', '⁉':
		return true
	}
	return false
}

func isTerminalOrCloser(r rune) bool {
	if isSentenceTerminal(r) {
		return true
	}
	switch r {
	case ')', ']', '}', '"', '\'', '»', '”', '’', '」', '』':
		return true
	}
	return unicode.Is(unicode.Pe, r) || unicode.Is(unicode.Pf, r)
}
