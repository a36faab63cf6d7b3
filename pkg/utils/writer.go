package utils

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fyerfyer/druid-atpg/pkg/tvec"
)

// WriteTestVectors writes the vectors as one binary string per line
func WriteTestVectors(filename string, vs []*tvec.TestVector) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, v := range vs {
		if _, err := fmt.Fprintln(w, v.BinStr()); err != nil {
			return err
		}
	}
	return w.Flush()
}

// ReadTestVectors reads one binary vector string per line into test
// vectors for the given circuit shape
func ReadTestVectors(filename string, inputNum, dffNum int, tdMode bool) ([]*tvec.TestVector, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open pattern file: %w", err)
	}
	defer file.Close()

	var out []*tvec.TestVector
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tv := tvec.NewTestVector(inputNum, dffNum, tdMode)
		if !tv.SetFromBin(line) {
			return nil, fmt.Errorf("bad pattern on line %d", lineNo)
		}
		out = append(out, tv)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
