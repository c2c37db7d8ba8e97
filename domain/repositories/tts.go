package repositories

// Synthesizer renders text to audio synchronously on the calling goroutine.
// The speech output queue's worker is the only caller of Speak; Stop may be
// called from any goroutine to halt an in-flight Speak.
type Synthesizer interface {
	Speak(text string) error
	Stop()
	Close() error
}
