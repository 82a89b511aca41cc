package audio

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TTSService speaks question prompts aloud for younger players. Generated
// clips are cached on disk keyed by the spoken text.
type TTSService struct {
	audioDir string
}

const ttsRequestTimeout = 10 * time.Second

// NewTTSService creates a new TTS service
func NewTTSService(audioDir string) *TTSService {
	return &TTSService{
		audioDir: audioDir,
	}
}

// SpokenPrompt rewrites an arithmetic prompt into natural speech, e.g.
// "12 × 3 = ?" becomes "What is 12 times 3?"
func SpokenPrompt(prompt string) string {
	spoken := strings.TrimSuffix(strings.TrimSpace(prompt), "= ?")
	spoken = strings.TrimSpace(spoken)
	replacer := strings.NewReplacer(
		"+", "plus",
		"-", "minus",
		"×", "times",
		"÷", "divided by",
	)
	return "What is " + replacer.Replace(spoken) + "?"
}

// GenerateQuestionAudio converts a question prompt to speech and saves it
// as MP3, returning the filename (not full path). Already generated prompts
// are served from the cache.
func (s *TTSService) GenerateQuestionAudio(prompt string) (string, error) {
	spoken := SpokenPrompt(prompt)

	// Cache key from the spoken text
	sum := sha1.Sum([]byte(spoken))
	filename := fmt.Sprintf("question_%s.mp3", hex.EncodeToString(sum[:8]))
	path := filepath.Join(s.audioDir, filename)

	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	if err := s.generateUsingGoogleTTS(spoken, path); err != nil {
		return "", fmt.Errorf("failed to generate audio: %w", err)
	}

	return filename, nil
}

// generateUsingGoogleTTS uses Google Translate's text-to-speech API.
// This is a simple, free option that doesn't require API keys.
func (s *TTSService) generateUsingGoogleTTS(text, outputPath string) error {
	baseURL := "https://translate.google.com/translate_tts"

	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", "en")
	params.Set("client", "tw-ob")
	params.Set("textlen", fmt.Sprintf("%d", len(text)))

	fullURL := baseURL + "?" + params.Encode()

	ctx, cancel := context.WithTimeout(context.Background(), ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// User agent required by Google
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	client := &http.Client{Timeout: ttsRequestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	return nil
}
