package tools

import (
	"strings"
)

// FormatOptions controls column alignment, mirroring the teacher
// formatter's label/instruction/comment column knobs — tasm has no
// operand column distinct from the instruction column since mnemonics
// take comma-separated values rather than a fixed operand list.
type FormatOptions struct {
	InstructionColumn int  // column indented instructions start at
	CommentColumn     int  // column aligned trailing comments start at
	AlignComments     bool // align comments instead of a single leading space
}

// DefaultFormatOptions mirrors the teacher's DefaultFormatOptions column
// choices, narrowed to tasm's two-column layout.
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{
		InstructionColumn: 2,
		CommentColumn:     40,
		AlignComments:     true,
	}
}

// Format reindents and aligns tasm source: routine labels at column 0,
// instructions indented to InstructionColumn with their mnemonic
// upper-cased and operands comma-space-joined, and ";" comments aligned
// to CommentColumn. Blank lines are preserved.
func Format(source string, opts *FormatOptions) string {
	if opts == nil {
		opts = DefaultFormatOptions()
	}

	var out strings.Builder
	lines := strings.Split(source, "\n")
	for i, raw := range lines {
		out.WriteString(formatLine(raw, opts))
		if i < len(lines)-1 {
			out.WriteByte('\n')
		}
	}
	return out.String()
}

func formatLine(raw string, opts *FormatOptions) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	code, comment, hasComment := splitComment(trimmed)
	code = strings.TrimSpace(code)

	if code == "" {
		if hasComment {
			return "; " + strings.TrimSpace(comment)
		}
		return ""
	}

	if strings.HasSuffix(code, ":") && !strings.Contains(code, " ") {
		return code
	}

	var line strings.Builder
	line.WriteString(strings.Repeat(" ", opts.InstructionColumn))
	line.WriteString(formatInstructionCode(code))

	if hasComment {
		comment = strings.TrimSpace(comment)
		if opts.AlignComments && line.Len() < opts.CommentColumn {
			line.WriteString(strings.Repeat(" ", opts.CommentColumn-line.Len()))
		} else {
			line.WriteString("  ")
		}
		line.WriteString("; ")
		line.WriteString(comment)
	}

	return line.String()
}

// formatInstructionCode upper-cases the mnemonic and normalizes operand
// spacing to ", " without touching string-literal argument contents.
func formatInstructionCode(code string) string {
	fields := strings.SplitN(code, " ", 2)
	mnemonic := strings.ToUpper(fields[0])
	if len(fields) == 1 {
		return mnemonic
	}

	operands := splitOperands(fields[1])
	for i, op := range operands {
		operands[i] = strings.TrimSpace(op)
	}
	return mnemonic + " " + strings.Join(operands, ", ")
}

// splitOperands splits on top-level commas, leaving commas inside
// double-quoted operands untouched.
func splitOperands(s string) []string {
	var (
		parts    []string
		current  strings.Builder
		inQuotes bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == ',' && !inQuotes:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	parts = append(parts, current.String())
	return parts
}

// splitComment finds the first unquoted ';' and returns the code and
// comment text either side of it.
func splitComment(s string) (code, comment string, hasComment bool) {
	inQuotes := false
	for i, r := range s {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ';':
			if !inQuotes {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, "", false
}
