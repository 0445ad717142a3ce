package event

// Hangul syllable arithmetic, see Unicode 3.12.
const (
	hangulBase     = 0xAC00
	jungseongCount = 21
	jongseongCount = 28

	jamoFirst         = 'ㄱ'
	jamoLastConsonant = 'ㅎ'
	jamoFirstVowel    = 'ㅏ'
	jamoLast          = 'ㅣ'
)

var (
	choseong  = []rune("ㄱㄲㄴㄷㄸㄹㅁㅂㅃㅅㅆㅇㅈㅉㅊㅋㅌㅍㅎ")
	jungseong = []rune("ㅏㅐㅑㅒㅓㅔㅕㅖㅗㅘㅙㅚㅛㅜㅝㅞㅟㅠㅡㅢㅣ")
	// index 0 is "no final"
	jongseong = append([]rune{0}, []rune("ㄱㄲㄳㄴㄵㄶㄷㄹㄺㄻㄼㄽㄾㄿㅀㅁㅂㅄㅅㅆㅇㅈㅊㅋㅌㅍㅎ")...)

	choIndex  = indexOf(choseong)
	jungIndex = indexOf(jungseong)
	jongIndex = indexOf(jongseong)
)

type jamoPair struct{ a, b rune }

var compoundVowels = map[jamoPair]rune{
	{'ㅗ', 'ㅏ'}: 'ㅘ',
	{'ㅗ', 'ㅐ'}: 'ㅙ',
	{'ㅗ', 'ㅣ'}: 'ㅚ',
	{'ㅜ', 'ㅓ'}: 'ㅝ',
	{'ㅜ', 'ㅔ'}: 'ㅞ',
	{'ㅜ', 'ㅣ'}: 'ㅟ',
	{'ㅡ', 'ㅣ'}: 'ㅢ',
}

var compoundFinals = map[jamoPair]rune{
	{'ㄱ', 'ㅅ'}: 'ㄳ',
	{'ㄴ', 'ㅈ'}: 'ㄵ',
	{'ㄴ', 'ㅎ'}: 'ㄶ',
	{'ㄹ', 'ㄱ'}: 'ㄺ',
	{'ㄹ', 'ㅁ'}: 'ㄻ',
	{'ㄹ', 'ㅂ'}: 'ㄼ',
	{'ㄹ', 'ㅅ'}: 'ㄽ',
	{'ㄹ', 'ㅌ'}: 'ㄾ',
	{'ㄹ', 'ㅍ'}: 'ㄿ',
	{'ㄹ', 'ㅎ'}: 'ㅀ',
	{'ㅂ', 'ㅅ'}: 'ㅄ',
}

var splitFinals = func() map[rune]jamoPair {
	m := make(map[rune]jamoPair, len(compoundFinals))
	for pair, compound := range compoundFinals {
		m[compound] = pair
	}
	return m
}()

func indexOf(runes []rune) map[rune]int {
	m := make(map[rune]int, len(runes))
	for i, r := range runes {
		m[r] = i
	}
	return m
}

func isConsonant(r rune) bool { return r >= jamoFirst && r <= jamoLastConsonant }
func isVowel(r rune) bool     { return r >= jamoFirstVowel && r <= jamoLast }

// HangulCombiner assembles Korean syllables from 2-set keyboard jamo
// (U+3131..U+3163). An initial, a medial and an optional final consonant
// are held until the next jamo shows the syllable is complete. A vowel
// after a final consonant takes that consonant as its initial, splitting
// a compound final if needed: ㄷㅏㄹㄱㅣ gives 달기.
type HangulCombiner struct {
	cho, jung, jong rune
}

// NewHangulCombiner returns a combiner with no syllable in progress.
func NewHangulCombiner() *HangulCombiner {
	return &HangulCombiner{}
}

func (h *HangulCombiner) ProcessEvent(_ []Event, ev Event) []Event {
	r := ev.CodePoint
	if ev.Kind != KindInput || !(isConsonant(r) || isVowel(r)) {
		if flushed := h.flush(); flushed != "" {
			return []Event{Text(flushed), ev}
		}
		return []Event{ev}
	}
	var out string
	if isConsonant(r) {
		out = h.consonant(r)
	} else {
		out = h.vowel(r)
	}
	if out == "" {
		return nil
	}
	return []Event{Text(out)}
}

// consonant returns the text of any syllable completed by r.
func (h *HangulCombiner) consonant(r rune) string {
	switch {
	case h.cho != 0 && h.jung != 0 && h.jong == 0:
		if _, ok := jongIndex[r]; ok {
			h.jong = r
			return ""
		}
	case h.jong != 0:
		if compound, ok := compoundFinals[jamoPair{h.jong, r}]; ok {
			h.jong = compound
			return ""
		}
	}
	done := h.flush()
	if _, ok := choIndex[r]; !ok {
		// compound consonants typed directly never start a syllable
		return done + string(r)
	}
	h.cho = r
	return done
}

// vowel returns the text of any syllable completed by r.
func (h *HangulCombiner) vowel(r rune) string {
	switch {
	case h.jong != 0:
		next := h.jong
		if pair, ok := splitFinals[h.jong]; ok {
			h.jong, next = pair.a, pair.b
		} else {
			h.jong = 0
		}
		done := h.render()
		h.cho, h.jung, h.jong = next, r, 0
		return done
	case h.jung != 0:
		if compound, ok := compoundVowels[jamoPair{h.jung, r}]; ok {
			h.jung = compound
			return ""
		}
		done := h.flush()
		h.jung = r
		return done
	default:
		h.jung = r
		return ""
	}
}

func (h *HangulCombiner) flush() string {
	s := h.render()
	h.Reset()
	return s
}

func (h *HangulCombiner) render() string {
	switch {
	case h.cho != 0 && h.jung != 0:
		syllable := hangulBase +
			(choIndex[h.cho]*jungseongCount+jungIndex[h.jung])*jongseongCount +
			jongIndex[h.jong]
		return string(rune(syllable))
	case h.cho != 0:
		return string(h.cho)
	case h.jung != 0:
		return string(h.jung)
	}
	return ""
}

// Feedback returns the syllable still being assembled.
func (h *HangulCombiner) Feedback() string {
	return h.render()
}

func (h *HangulCombiner) Reset() {
	h.cho, h.jung, h.jong = 0, 0, 0
}
