package command

import "strings"

// ParseResult is one line of input split into a command word and arguments.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining whitespace-separated words.
	Args []string
	// RawArgs is the text after the command word with inner spacing kept.
	RawArgs string
}

// Parse splits line into a command and arguments.
//
// Postcondition: Command is empty iff line is blank.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}
	word, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	return ParseResult{
		Command: strings.ToLower(word),
		Args:    strings.Fields(rest),
		RawArgs: rest,
	}
}

// SplitAssignment splits "<field> = <value>" at the first '='. ok is false
// when raw has no '='.
func SplitAssignment(raw string) (field, value string, ok bool) {
	field, value, ok = strings.Cut(raw, "=")
	return strings.TrimSpace(field), strings.TrimSpace(value), ok
}
