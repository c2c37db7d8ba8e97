package listener

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/haroai/haro/adapters/stt"
	"github.com/haroai/haro/domain/repositories"
)

// scriptedDevice hands out one clip per Capture call, then blocks until the
// context is canceled, like a microphone hearing silence.
type scriptedDevice struct {
	mu    sync.Mutex
	clips [][]byte
	errs  []error
}

func (d *scriptedDevice) Capture(ctx context.Context) ([]byte, error) {
	d.mu.Lock()
	if len(d.errs) > 0 {
		err := d.errs[0]
		d.errs = d.errs[1:]
		d.mu.Unlock()
		return nil, err
	}
	if len(d.clips) > 0 {
		clip := d.clips[0]
		d.clips = d.clips[1:]
		d.mu.Unlock()
		return clip, nil
	}
	d.mu.Unlock()

	<-ctx.Done()
	return nil, ctx.Err()
}

func (d *scriptedDevice) Close() error { return nil }

func testAudioConfig() repositories.AudioConfig {
	return repositories.AudioConfig{SampleRate: 16000, Encoding: "LINEAR16", Language: "en-US"}
}

func collectUtterances(t *testing.T, out <-chan string, count int) []string {
	t.Helper()
	got := make([]string, 0, count)
	timeout := time.After(2 * time.Second)
	for len(got) < count {
		select {
		case text, ok := <-out:
			if !ok {
				t.Fatalf("Channel closed after %d utterances, wanted %d", len(got), count)
			}
			got = append(got, text)
		case <-timeout:
			t.Fatalf("Timed out after %d utterances, wanted %d", len(got), count)
		}
	}
	return got
}

func TestRunDeliversTranscripts(t *testing.T) {
	device := &scriptedDevice{clips: [][]byte{[]byte("clip1"), []byte("clip2")}}
	transcriber := &stt.MockTranscriber{Scripts: []string{"hello there", "what time is it"}}
	l := New(device, transcriber, testAudioConfig(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	got := collectUtterances(t, l.Out(), 2)
	seen := map[string]bool{}
	for _, text := range got {
		seen[text] = true
	}
	// Transcription is concurrent, so delivery order is not guaranteed.
	if !seen["hello there"] || !seen["what time is it"] {
		t.Errorf("Missing transcripts, got %v", got)
	}
}

func TestRunSurvivesNoSpeech(t *testing.T) {
	device := &scriptedDevice{clips: [][]byte{[]byte("silence"), []byte("clip")}}
	transcriber := &stt.MockTranscriber{Scripts: []string{}}
	l := New(device, transcriber, testAudioConfig(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	// Both clips hit ErrNoSpeech; the loop must keep capturing rather
	// than die or deliver empty strings.
	time.Sleep(100 * time.Millisecond)
	select {
	case text := <-l.Out():
		t.Errorf("Expected no utterances, got %q", text)
	default:
	}
	if transcriber.Calls() != 2 {
		t.Errorf("Expected 2 transcription attempts, got %d", transcriber.Calls())
	}
}

func TestRunRetriesAfterCaptureFailure(t *testing.T) {
	device := &scriptedDevice{
		errs:  []error{fmt.Errorf("device busy")},
		clips: [][]byte{[]byte("clip")},
	}
	transcriber := &stt.MockTranscriber{Scripts: []string{"recovered"}}
	l := New(device, transcriber, testAudioConfig(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	got := collectUtterances(t, l.Out(), 1)
	if got[0] != "recovered" {
		t.Errorf("Expected transcript after retry, got %q", got[0])
	}
}

func TestRunClosesChannelOnCancel(t *testing.T) {
	device := &scriptedDevice{}
	l := New(device, &stt.MockTranscriber{}, testAudioConfig(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	if _, ok := <-l.Out(); ok {
		t.Error("Expected output channel closed after Run returns")
	}
}
