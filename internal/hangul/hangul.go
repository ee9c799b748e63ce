// Package hangul decomposes Hangul syllables into their constituent jamo
// (initial consonant, vowel, final consonant) and derives the ordered
// sequence of intermediate strings an IME produces while composing a
// syllable keystroke by keystroke.
package hangul

// Initial consonants (choseong).
var Initials = []rune{
	'ㄱ', 'ㄲ', 'ㄴ', 'ㄷ', 'ㄸ', 'ㄹ', 'ㅁ', 'ㅂ',
	'ㅃ', 'ㅅ', 'ㅆ', 'ㅇ', 'ㅈ', 'ㅉ', 'ㅊ', 'ㅋ',
	'ㅌ', 'ㅍ', 'ㅎ',
}

// Vowels (jungseong).
var Vowels = []rune{
	'ㅏ', 'ㅐ', 'ㅑ', 'ㅒ', 'ㅓ', 'ㅔ', 'ㅕ', 'ㅖ',
	'ㅗ', 'ㅘ', 'ㅙ', 'ㅚ', 'ㅛ', 'ㅜ', 'ㅝ', 'ㅞ',
	'ㅟ', 'ㅠ', 'ㅡ', 'ㅢ', 'ㅣ',
}

// Final consonants (jongseong). Index 0 means no final.
var Finals = []rune{
	0, 'ㄱ', 'ㄲ', 'ㄳ', 'ㄴ', 'ㄵ', 'ㄶ', 'ㄷ',
	'ㄹ', 'ㄺ', 'ㄻ', 'ㄼ', 'ㄽ', 'ㄾ', 'ㄿ', 'ㅀ',
	'ㅁ', 'ㅂ', 'ㅄ', 'ㅅ', 'ㅆ', 'ㅇ', 'ㅈ', 'ㅊ',
	'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

const (
	syllableBase = 0xAC00
	syllableEnd  = 0xD7A3

	numVowels  = 21
	numFinals  = 28
	perInitial = numVowels * numFinals
)

// doubles maps every compound jamo to the two base jamo it is built from:
// the five tense initials, the seven compound vowels, and the eleven
// final consonant clusters.
var doubles = map[rune][2]rune{
	'ㄲ': {'ㄱ', 'ㄱ'},
	'ㄸ': {'ㄷ', 'ㄷ'},
	'ㅃ': {'ㅂ', 'ㅂ'},
	'ㅆ': {'ㅅ', 'ㅅ'},
	'ㅉ': {'ㅈ', 'ㅈ'},

	'ㅘ': {'ㅗ', 'ㅏ'},
	'ㅙ': {'ㅗ', 'ㅐ'},
	'ㅚ': {'ㅗ', 'ㅣ'},
	'ㅝ': {'ㅜ', 'ㅓ'},
	'ㅞ': {'ㅜ', 'ㅔ'},
	'ㅟ': {'ㅜ', 'ㅣ'},
	'ㅢ': {'ㅡ', 'ㅣ'},

	'ㄳ': {'ㄱ', 'ㅅ'},
	'ㄵ': {'ㄴ', 'ㅈ'},
	'ㄶ': {'ㄴ', 'ㅎ'},
	'ㄺ': {'ㄹ', 'ㄱ'},
	'ㄻ': {'ㄹ', 'ㅁ'},
	'ㄼ': {'ㄹ', 'ㅂ'},
	'ㄽ': {'ㄹ', 'ㅅ'},
	'ㄾ': {'ㄹ', 'ㅌ'},
	'ㄿ': {'ㄹ', 'ㅍ'},
	'ㅀ': {'ㄹ', 'ㅎ'},
	'ㅄ': {'ㅂ', 'ㅅ'},
}

// IsSyllable reports whether r falls in the precomposed Hangul syllable block.
func IsSyllable(r rune) bool {
	return r >= syllableBase && r <= syllableEnd
}

// IsDouble reports whether the jamo is a compound built from two base jamo.
func IsDouble(j rune) bool {
	_, ok := doubles[j]
	return ok
}

// split returns the (initial, vowel, final) alphabet indices of a syllable.
// The caller must have checked IsSyllable.
func split(r rune) (ini, vow, fin int) {
	index := int(r - syllableBase)
	return index / perInitial, (index % perInitial) / numFinals, index % numFinals
}

// Compose is the inverse of split: it builds a syllable from alphabet
// indices. fin may be 0 for no final consonant.
func Compose(ini, vow, fin int) rune {
	return rune(syllableBase + ini*perInitial + vow*numFinals + fin)
}

// Parts returns the [initial, vowel, final?] jamo of a syllable without
// expanding compound jamo. Any rune outside the syllable block (including
// bare jamo and foreign characters) is returned unchanged as a single
// element.
func Parts(r rune) []rune {
	if !IsSyllable(r) {
		return []rune{r}
	}
	ini, vow, fin := split(r)
	if fin == 0 {
		return []rune{Initials[ini], Vowels[vow]}
	}
	return []rune{Initials[ini], Vowels[vow], Finals[fin]}
}

// Decompose returns the fully expanded jamo of a single rune: compound jamo
// are recursively split into their base components, so 값 becomes
// [ㄱ ㅏ ㅂ ㅅ] and a bare ㄲ becomes [ㄱ ㄱ]. Base jamo and foreign runes
// come back as themselves.
func Decompose(r rune) []rune {
	if !IsSyllable(r) {
		return expand(r)
	}
	parts := Parts(r)
	out := make([]rune, 0, len(parts)+2)
	for _, j := range parts {
		out = append(out, expand(j)...)
	}
	return out
}

func expand(j rune) []rune {
	pair, ok := doubles[j]
	if !ok {
		return []rune{j}
	}
	// Base components of a compound are never compounds themselves, but
	// recursing keeps the table the single source of truth.
	out := expand(pair[0])
	return append(out, expand(pair[1])...)
}

// DecomposeWord flattens a whole string into expanded jamo. Non-Hangul runes
// pass through unchanged.
func DecomposeWord(s string) []rune {
	var out []rune
	for _, r := range s {
		out = append(out, Decompose(r)...)
	}
	return out
}

// BuildSteps returns the ordered intermediate strings a user produces while
// typing toward the syllable, e.g. 값 -> [ㄱ 가 갑 값]. A double initial or
// double final contributes its base-only stage before the combined stage,
// so 깎 -> [ㄱ ㄲ 까 깍 깎]. Consecutive duplicate stages collapse. For a
// rune outside the syllable block the sequence is just the rune itself.
func BuildSteps(r rune) []string {
	if !IsSyllable(r) {
		return []string{string(r)}
	}

	ini, vow, fin := split(r)

	var steps []string
	push := func(s string) {
		if len(steps) == 0 || steps[len(steps)-1] != s {
			steps = append(steps, s)
		}
	}

	initial := Initials[ini]
	if pair, ok := doubles[initial]; ok {
		push(string(pair[0]))
	}
	push(string(initial))
	push(string(Compose(ini, vow, 0)))
	if fin != 0 {
		if pair, ok := doubles[Finals[fin]]; ok {
			if base := finalIndex(pair[0]); base > 0 {
				push(string(Compose(ini, vow, base)))
			}
		}
		push(string(r))
	}
	return steps
}

func finalIndex(j rune) int {
	for i, f := range Finals {
		if f == j {
			return i
		}
	}
	return 0
}
