package history

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Fixed labels of the four counter lines, in file order.
const (
	LabelInitiated      = "Number of times code was initiated"
	LabelRequests       = "Number of requests"
	LabelRomanToDecimal = "Number of Roman to decimal conversions"
	LabelDecimalToRoman = "Number of decimal to Roman conversions"
)

var counterLabels = [...]string{LabelInitiated, LabelRequests, LabelRomanToDecimal, LabelDecimalToRoman}

// ErrCorruptCounters is returned when the counter file does not hold exactly
// four parseable "label: value" lines.
var ErrCorruptCounters = errors.New("history: corrupt counter file")

// Counters is a snapshot of the persistent request counters.
type Counters struct {
	Initiated      int `json:"initiated"`
	Requests       int `json:"requests"`
	RomanToDecimal int `json:"roman_to_decimal"`
	DecimalToRoman int `json:"decimal_to_roman"`
}

func (c Counters) values() [4]int {
	return [4]int{c.Initiated, c.Requests, c.RomanToDecimal, c.DecimalToRoman}
}

// MarshalText renders the four-line counter file.
func (c Counters) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	for i, value := range c.values() {
		fmt.Fprintf(&buf, "%s: %d\n", counterLabels[i], value)
	}
	return buf.Bytes(), nil
}

// UnmarshalText parses the four-line counter file. Labels are matched by
// position; values must be non-negative integers.
func (c *Counters) UnmarshalText(data []byte) error {
	var values []int
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		_, raw, ok := strings.Cut(line, ":")
		if !ok {
			return fmt.Errorf("%w: line %q has no value", ErrCorruptCounters, line)
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 0 {
			return fmt.Errorf("%w: line %q has invalid value", ErrCorruptCounters, line)
		}
		values = append(values, n)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptCounters, err)
	}
	if len(values) != len(counterLabels) {
		return fmt.Errorf("%w: expected %d lines, got %d", ErrCorruptCounters, len(counterLabels), len(values))
	}

	*c = Counters{
		Initiated:      values[0],
		Requests:       values[1],
		RomanToDecimal: values[2],
		DecimalToRoman: values[3],
	}
	return nil
}

// apply bumps the counters for one recorded entry. Every tagged entry counts
// as a request, errors included.
func (c *Counters) apply(conversionType string) {
	if conversionType == "" {
		return
	}
	c.Requests++
	switch conversionType {
	case TypeRomanToDecimal:
		c.RomanToDecimal++
	case TypeDecimalToRoman:
		c.DecimalToRoman++
	}
}
