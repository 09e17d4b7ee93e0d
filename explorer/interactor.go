package explorer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/zeu5/tetris-rl/policies"
	"github.com/zeu5/tetris-rl/tetris"
)

var errQuit = errors.New("quit")

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Runs the main interactive loop until the user quits or the input ends
func (e *Explorer) Interact(in io.Reader, out io.Writer) {
	fmt.Fprintf(out, "%s", e.header())
	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "%s", e.prompt())

		optionS, err := readLine(reader)
		if err != nil {
			return
		}
		option, err := strconv.Atoi(optionS)
		if err != nil {
			fmt.Fprintln(out, "Invalid input! Try again")
			continue
		}
		fmt.Fprintln(out, "------------------------------------")
		switch option {
		case 1:
			fmt.Fprintf(out, "%s", e.getSummaries())
		case 2:
			fmt.Fprintf(out, "%s", e.Weights.String())
		case 3:
			fmt.Fprintf(out, "Enter trace number (1-%d): ", len(e.Traces))
			traceNoS, err := readLine(reader)
			if err != nil {
				return
			}
			traceNo, err := strconv.Atoi(traceNoS)
			if err != nil {
				fmt.Fprintln(out, "Invalid input! Not a number. Try again")
				continue
			}
			if traceNo < 1 || traceNo > len(e.Traces) {
				fmt.Fprintf(out, "Invalid input! Should be between (1-%d). Try again\n", len(e.Traces))
				continue
			}
			if err := e.interactTrace(traceNo-1, reader, out); err != nil {
				return
			}
		case 4:
			fmt.Fprintln(out, "Quitting! Thank you")
			return
		default:
			fmt.Fprintln(out, "Wrong choice! Try again!")
		}
	}
}

func (e *Explorer) getSummaries() string {
	out := "Traces are:\n"
	for i, t := range e.Traces {
		finalPile := 0
		gameOver := false
		if last, ok := t.Last(); ok {
			finalPile = policies.PileHeight(last.NextState.Board)
			gameOver = last.NextState.GameOver
		}
		out += fmt.Sprintf("%d: steps=%d reward=%.0f pile=%d game_over=%t\n", i+1, t.Len(), t.TotalReward(), finalPile, gameOver)
	}
	return out
}

// getQValues ranks every legal sequence of the state by its one piece value
func (e *Explorer) getQValues(state tetris.Snapshot) string {
	if state.GameOver {
		return "Terminal state, no values\n"
	}
	type entry struct {
		seq tetris.Sequence
		q   float64
	}
	entries := make([]entry, 0)
	for _, seq := range policies.LegalSequences(state) {
		entries = append(entries, entry{seq: seq, q: e.search.QPlan(state, tetris.Plan{First: seq})})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].q > entries[j].q
	})
	out := "Q values are:\n"
	for _, en := range entries {
		out += fmt.Sprintf("%s: %f\n", en.seq, en.q)
	}
	best := e.search.Best(state, policies.LegalSequences(state))
	out += fmt.Sprintf("Best plan: %s (%f)\n", best.Plan, best.Q)
	return out
}

func (e *Explorer) getFeatures(state tetris.Snapshot, seq tetris.Sequence) string {
	features := policies.Extract(state, policies.Simulate(state, seq))
	out := "Features of the played sequence:\n"
	for _, f := range features.Names() {
		out += fmt.Sprintf("%s: %.0f (weight %f)\n", f, features[f], e.Weights.Get(f))
	}
	out += fmt.Sprintf("Q: %f\n", e.Weights.Q(features))
	return out
}

func (e *Explorer) header() string {
	return `
Welcome to the trace explorer!
	`
}

func (e *Explorer) prompt() string {
	return `
------------------------------------
Select one of the following options:
1. Show traces
2. Show weights
3. Explore a trace
4. Quit
Enter your choice: `
}

func (e *Explorer) tracePrompt() string {
	return `
---------------------------------------------
Step(s) QValues(d) Features(f) Prev(p) Last(l) Quit(q): `
}

func (e *Explorer) interactTrace(traceNo int, reader *bufio.Reader, out io.Writer) error {
	stepCount := 0
	trace := e.Traces[traceNo]
	if trace.Len() == 0 {
		fmt.Fprintln(out, "Empty trace!")
		return nil
	}
	fmt.Fprintln(out, "---------------------------------------------")
	for {
		step, _ := trace.Get(stepCount)
		fmt.Fprintf(out, "For step %d\nState:\n%s\nPlan: %s (Q %f)\nReward: %.0f\nNextState:\n%s\n",
			stepCount+1, step.State.String(), step.Plan, step.Q, step.Reward, step.NextState.String())
		fmt.Fprintf(out, "%s", e.tracePrompt())
		option, err := readLine(reader)
		if err != nil {
			return errQuit
		}
		fmt.Fprintln(out, "---------------------------------------------")
		switch option {
		case "s":
			if stepCount == trace.Len()-1 {
				fmt.Fprintln(out, "No more steps!")
				continue
			}
			stepCount += 1
		case "d":
			fmt.Fprintf(out, "%s", e.getQValues(step.State))
		case "f":
			fmt.Fprintf(out, "%s", e.getFeatures(step.State, step.Plan.First))
		case "p":
			if stepCount == 0 {
				fmt.Fprintln(out, "No more steps!")
				continue
			}
			stepCount -= 1
		case "l":
			stepCount = trace.Len() - 1
		case "q":
			return nil
		default:
			fmt.Fprintln(out, "Invalid option! Try again.")
		}
	}
}
