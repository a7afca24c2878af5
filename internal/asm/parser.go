package asm

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/arveladin/vm32/internal/log"
	"github.com/arveladin/vm32/internal/vm"
)

// statement is one parsed, not-yet-encoded source line.
type statement struct {
	line    int
	label   string // label defined on this line, if any
	mnem    string // mnemonic, uppercased; empty for a label-only or directive-only line
	operand string // raw operand text, trimmed
	addr    vm.Word
	isWord  bool // a .word directive rather than an instruction
}

var (
	commentRe = regexp.MustCompile(`;.*$`)
	labelRe   = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*):\s*(.*)$`)
)

// Parser runs the first pass: it strips comments, resolves labels to
// addresses (assuming every instruction and .word directive is 4 bytes)
// and tracks the current origin via .org, producing a flat statement
// list and a symbol table for the generator's second pass.
type Parser struct {
	symbols SymbolTable
	stmts   []statement
	errs    []error

	log *log.Logger
}

// NewParser creates a parser with an empty symbol table.
func NewParser(logger *log.Logger) *Parser {
	if logger == nil {
		logger = log.DefaultLogger()
	}

	return &Parser{symbols: make(SymbolTable), log: logger}
}

// Symbols returns the symbol table built during Parse.
func (p *Parser) Symbols() SymbolTable { return p.symbols }

// Statements returns the parsed statement list.
func (p *Parser) Statements() []statement { return p.stmts }

// Err joins every syntax error encountered, or nil if there were none.
func (p *Parser) Err() error {
	if len(p.errs) == 0 {
		return nil
	}

	msg := make([]string, len(p.errs))
	for i, e := range p.errs {
		msg[i] = e.Error()
	}

	return fmt.Errorf("%w: %s", ErrSyntax, strings.Join(msg, "; "))
}

// Parse reads source from r, appending to the parser's accumulated
// statements and symbol table. It may be called more than once to
// assemble several files into one image.
func (p *Parser) Parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	var addr vm.Word

	lineNo := 0

	for scanner.Scan() {
		lineNo++
		text := commentRe.ReplaceAllString(scanner.Text(), "")
		text = strings.TrimSpace(text)

		if text == "" {
			continue
		}

		var label string

		if m := labelRe.FindStringSubmatch(text); m != nil {
			label = m[1]
			text = strings.TrimSpace(m[2])
		}

		if label != "" {
			p.symbols[label] = addr
		}

		if text == "" {
			continue
		}

		fields := strings.SplitN(text, " ", 2)
		mnem := strings.ToUpper(strings.TrimSpace(fields[0]))
		operand := ""

		if len(fields) > 1 {
			operand = strings.TrimSpace(fields[1])
		}

		switch mnem {
		case ".ORG":
			v, err := parseImm(operand)
			if err != nil {
				p.errs = append(p.errs, &SyntaxError{Line: lineNo, Text: text, Msg: err.Error()})
				continue
			}

			addr = vm.Word(v)
			continue

		case ".WORD":
			p.stmts = append(p.stmts, statement{line: lineNo, operand: operand, addr: addr, isWord: true})
			addr += 4
			continue
		}

		if _, ok := opTable[mnem]; !ok {
			p.errs = append(p.errs, &SyntaxError{Line: lineNo, Text: text, Msg: "unknown mnemonic"})
			continue
		}

		p.stmts = append(p.stmts, statement{line: lineNo, mnem: mnem, operand: operand, addr: addr})
		addr += 4
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	return p.Err()
}

// parseImm parses a decimal or 0x-prefixed hex literal, optionally signed.
func parseImm(s string) (int64, error) {
	s = strings.TrimSpace(s)

	neg := false

	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var (
		v   uint64
		err error
	)

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = strconv.ParseUint(s[2:], 16, 64)
	} else {
		v, err = strconv.ParseUint(s, 10, 64)
	}

	if err != nil {
		return 0, fmt.Errorf("bad immediate %q", s)
	}

	if neg {
		return -int64(v), nil
	}

	return int64(v), nil
}

var regRe = regexp.MustCompile(`^[rR](\d+)$`)

// parseReg parses an rN register operand.
func parseReg(s string) (vm.GPR, error) {
	m := regRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("bad register %q", s)
	}

	n, _ := strconv.Atoi(m[1])
	if n >= vm.NumGPR {
		return 0, fmt.Errorf("register r%d out of range", n)
	}

	return vm.GPR(n), nil
}

var memRe = regexp.MustCompile(`^\[\s*[rR](\d+)\s*\+\s*[rR](\d+)\s*\]$`)

// parseMem parses a [rA+rB] effective-address operand.
func parseMem(s string) (a, b vm.GPR, err error) {
	m := memRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, fmt.Errorf("bad memory operand %q", s)
	}

	na, _ := strconv.Atoi(m[1])
	nb, _ := strconv.Atoi(m[2])

	return vm.GPR(na), vm.GPR(nb), nil
}
