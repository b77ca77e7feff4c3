package corpus

import (
	"math/rand"
	"time"
)

// Picker selects the sentences of one test.
type Picker struct {
	rnd *rand.Rand
}

// NewPicker returns a Picker seeded with the current time.
func NewPicker() *Picker {
	return NewPickerWithSeed(time.Now().UnixNano())
}

// NewPickerWithSeed returns a deterministic Picker.
func NewPickerWithSeed(seed int64) *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(seed))}
}

// Pick returns count sentences, all of them when count <= 0 or exceeds the
// set. Without shuffle the corpus order is kept; with shuffle the sentences
// are sampled without repetition.
func (p *Picker) Pick(sentences []string, count int, shuffle bool) []string {
	if count <= 0 || count > len(sentences) {
		count = len(sentences)
	}
	if !shuffle {
		return append([]string(nil), sentences[:count]...)
	}
	idx := p.rnd.Perm(len(sentences))[:count]
	out := make([]string, 0, count)
	for _, i := range idx {
		out = append(out, sentences[i])
	}
	return out
}
