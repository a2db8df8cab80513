package vm

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/xinlnix/iverilog/internal/lex"
)

// Token types for the VM assembly text format (spec 6): a small
// state-function lexer built directly on internal/lex, with word rules
// of its own for the format's mnemonics with embedded '/', directives
// and $-names.
const (
	tEOF     lex.Type = lex.EOF
	tWord    lex.Type = iota // identifier, label, mnemonic or directive
	tNumber
	tString
	tComma
	tColon
	tSemi
	tLBracket
	tRBracket
	tNewline
)

func isWordStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$' || r == '%' || r == '.'
}

func isWordCont(r rune) bool {
	return isWordStart(r) || unicode.IsDigit(r) || r == '/'
}

func asmLexer(input string) lex.Interface {
	return lex.New(strings.NewReader(input), lexAsmInit)
}

func lexAsmInit(l *lex.Lexer) lex.StateFn {
	r := l.Next()
	switch {
	case r == lex.EOF:
		return lexAsmEOF
	case r == '\n':
		l.Emit(tNewline, "\n")
	case r == '\r':
		// ignore; the following \n (if any) emits the newline token
	case unicode.IsSpace(r):
		l.AcceptWhile(func(c rune) bool { return unicode.IsSpace(c) && c != '\n' })
	case r == '#':
		l.AcceptWhile(func(c rune) bool { return c != '\n' })
	case isWordStart(r):
		return lexAsmWord
	case '0' <= r && r <= '9':
		return lexAsmNumber
	case r == '"':
		return lexAsmString
	case r == ',':
		l.Emit(tComma, ",")
	case r == ':':
		l.Emit(tColon, ":")
	case r == ';':
		l.Emit(tSemi, ";")
	case r == '[':
		l.Emit(tLBracket, "[")
	case r == ']':
		l.Emit(tRBracket, "]")
	default:
		l.Emit(tWord, string(r))
	}
	return nil
}

func lexAsmWord(l *lex.Lexer) lex.StateFn {
	var b strings.Builder
	b.WriteRune(l.Current())
	for {
		r := l.Next()
		if !isWordCont(r) {
			l.Backup()
			break
		}
		b.WriteRune(r)
	}
	l.Emit(tWord, b.String())
	return nil
}

func lexAsmNumber(l *lex.Lexer) lex.StateFn {
	var b strings.Builder
	b.WriteRune(l.Current())
	for {
		r := l.Next()
		if r < '0' || r > '9' {
			l.Backup()
			break
		}
		b.WriteRune(r)
	}
	n, _ := strconv.ParseUint(b.String(), 10, 64)
	l.Emit(tNumber, n)
	return nil
}

func lexAsmString(l *lex.Lexer) lex.StateFn {
	var b strings.Builder
	for {
		r := l.Next()
		if r == lex.EOF || r == '"' {
			break
		}
		if r == '\\' {
			e := l.Next()
			switch e {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case '"', '\\':
				b.WriteRune(e)
			default:
				b.WriteRune(e)
			}
			continue
		}
		b.WriteRune(r)
	}
	l.Emit(tString, b.String())
	return nil
}

func lexAsmEOF(l *lex.Lexer) lex.StateFn {
	l.Emit(lex.EOF, "EOF")
	return lexAsmEOF
}
