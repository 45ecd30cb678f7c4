package audio

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// go-mp3 always delivers 16-bit stereo PCM, so one sample frame is 4 bytes
// regardless of the source channel layout.
const bytesPerFrame = 4

// DurationFunc recovers a duration from an audio file. Implementations
// return an error when the duration cannot be determined; callers treat
// that as "unknown", not as a fatal condition.
type DurationFunc func(path string) (time.Duration, error)

// ProbeDuration opens the container and derives the total duration from the
// decoder's stream length without decoding audio data.
func ProbeDuration(path string) (time.Duration, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	decoder, err := mp3.NewDecoder(file)
	if err != nil {
		return 0, fmt.Errorf("open decoder: %w", err)
	}
	length := decoder.Length()
	if length <= 0 {
		return 0, fmt.Errorf("stream length unavailable")
	}
	rate := decoder.SampleRate()
	if rate <= 0 {
		return 0, fmt.Errorf("invalid sample rate %d", rate)
	}
	seconds := float64(length/bytesPerFrame) / float64(rate)
	return time.Duration(seconds * float64(time.Second)), nil
}

// DecodeDuration fully decodes the file, counting delivered PCM frames, and
// computes the duration as frames divided by sample rate, rounded to the
// nearest second. This is the expensive last-resort recovery strategy.
func DecodeDuration(path string) (time.Duration, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	decoder, err := mp3.NewDecoder(file)
	if err != nil {
		return 0, fmt.Errorf("open decoder: %w", err)
	}
	rate := decoder.SampleRate()
	if rate <= 0 {
		return 0, fmt.Errorf("invalid sample rate %d", rate)
	}

	decoded, err := io.Copy(io.Discard, decoder)
	if err != nil {
		return 0, fmt.Errorf("decode stream: %w", err)
	}
	frames := decoded / bytesPerFrame
	if frames == 0 {
		return 0, fmt.Errorf("no audio frames decoded")
	}
	seconds := math.Round(float64(frames) / float64(rate))
	return time.Duration(seconds) * time.Second, nil
}
