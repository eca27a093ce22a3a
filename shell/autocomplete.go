package shell

import (
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"new": {
		Options: []string{"-rows", "-cols", "-side", "-moves"},
	},
	"set": {
		Args: []string{"depth", "mode", "side", "time"},
	},
	"autoplay": {
		Options: []string{
			"-games", "-threads", "-depth1", "-depth2", "-mode1", "-mode2",
			"-plies", "-logfile",
		},
		Args: []string{"stop"},
	},
	"puzzles": {
		Options: []string{"-file", "-depth", "-out"},
		Args:    []string{"generate"},
	},
	"help": {
		Args: []string{"new", "play", "set", "autoplay", "puzzles"},
	},
}

var commandNames = []string{
	"help", "new", "play", "bot", "undo", "show", "state", "set", "hint",
	"eval", "autoplay", "analyze", "puzzles", "exit",
}

var modeValues = []string{"fixed", "iterative"}
var sideValues = []string{"a", "b"}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// unbalanced quotes while typing
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case lastCompleteField == "-side", cmdName == "set" && lastCompleteField == "side":
			completions = sideValues
		case strings.HasPrefix(lastCompleteField, "-mode"), cmdName == "set" && lastCompleteField == "mode":
			completions = modeValues
		case cmdName == "play":
			completions = c.playableColumns()
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			suffix := completion[len(prefix):]
			matches = append(matches, []rune(suffix))
		}
	}

	return matches, len(prefix)
}

// playableColumns lists the 1-based columns that are not full.
func (c *ShellCompleter) playableColumns() []string {
	if c.sc.session == nil {
		return nil
	}
	var cols []string
	for _, col := range c.sc.session.Board().LegalMoves() {
		cols = append(cols, strconv.Itoa(col+1))
	}
	return cols
}
