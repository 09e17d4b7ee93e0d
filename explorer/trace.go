package explorer

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zeu5/tetris-rl/types"
)

// readTraces reads a single json trace or a jsonl file of traces as
// recorded by the experiments
func readTraces(path string) ([]*types.Trace, error) {
	traces := make([]*types.Trace, 0)
	file, err := os.Open(path)
	if err != nil {
		return traces, fmt.Errorf("error reading file: %w", err)
	}
	defer file.Close()

	if !strings.HasSuffix(path, ".jsonl") {
		t := types.NewTrace()
		data, err := io.ReadAll(file)
		if err != nil {
			return traces, fmt.Errorf("error reading file: %w", err)
		}
		if err := json.Unmarshal(data, t); err != nil {
			return traces, fmt.Errorf("error parsing file: %w", err)
		}
		return append(traces, t), nil
	}

	scanner := bufio.NewScanner(file)
	maxTraceSize := 64 * 1024 * 1024
	scanner.Buffer(make([]byte, 0, 1024*1024), maxTraceSize)
	for scanner.Scan() {
		bs := scanner.Bytes()
		if len(bs) == 0 {
			continue
		}
		t := types.NewTrace()
		if err := json.Unmarshal(bs, t); err != nil {
			return traces, fmt.Errorf("error reading file contents: %w", err)
		}
		traces = append(traces, t)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return traces, errors.New("error trace too big")
		}
		return traces, fmt.Errorf("failed to read traces: %w", err)
	}
	return traces, nil
}
