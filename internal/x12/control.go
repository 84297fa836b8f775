package x12

import "math/rand/v2"

const (
	controlAlphabet = "1234567890"
	controlLength   = 9
)

// ControlNumberFunc returns a fresh control number on each call.
type ControlNumberFunc func() string

// RandomControlNumber returns nine characters drawn from the digits. The
// numbers identify a document to the trading partner; they do not need to be
// unpredictable.
func RandomControlNumber() string {
	buf := make([]byte, controlLength)
	for i := range buf {
		buf[i] = controlAlphabet[rand.IntN(len(controlAlphabet))]
	}
	return string(buf)
}

// SequenceControlNumbers returns a ControlNumberFunc that yields values in
// order and then repeats the last one. It is meant for tests and replays.
func SequenceControlNumbers(values ...string) ControlNumberFunc {
	i := 0
	return func() string {
		if len(values) == 0 {
			return RandomControlNumber()
		}
		v := values[min(i, len(values)-1)]
		i++
		return v
	}
}
