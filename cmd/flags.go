package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chris-regnier/daybook/internal/entry"
)

const weatherHelp = "weather (sunny, cloudy, rainy, snowy, windy, stormy, foggy, or custom:<symbol>:<label>)"

// parseDay parses a YYYY-MM-DD flag value in the journal's calendar.
func parseDay(flag, value string) (time.Time, error) {
	t, err := journ.Calendar().ParseDate(value)
	if err != nil {
		return time.Time{}, invalidf("invalid --%s %q (use YYYY-MM-DD)", flag, value)
	}
	return t, nil
}

// parseMonth parses a YYYY-MM flag value in the journal's calendar.
func parseMonth(flag, value string) (time.Time, error) {
	t, err := journ.Calendar().ParseMonth(value)
	if err != nil {
		return time.Time{}, invalidf("invalid --%s %q (use YYYY-MM)", flag, value)
	}
	return t, nil
}

func parseWeather(value string) (entry.Weather, error) {
	w, err := entry.ParseWeather(value)
	if err != nil {
		return entry.Weather{}, invalidf("%v", err)
	}
	return w, nil
}

// readImage loads a photo from disk.
func readImage(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, invalidf("reading image: %v", err)
	}
	if len(data) == 0 {
		return nil, invalidf("image %s is empty", path)
	}
	return data, nil
}

// readBody resolves a body argument, where "-" means stdin.
func readBody(arg string, stdin io.Reader) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func validateID(id string) error {
	if err := entry.ValidateID(id); err != nil {
		return invalidf("%v", err)
	}
	return nil
}
