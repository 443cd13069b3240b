package lexer

import (
	"testing"

	"github.com/ebscore/ebs/token"
)

func TestNextTokenOperators(t *testing.T) {
	input := `var x: integer = 5;
x += 1;
if (x <= 10 && x != 0) then x--;`

	tests := []struct {
		wantType token.Type
		wantLit  string
	}{
		{token.VAR, "var"},
		{token.IDENT, "x"},
		{token.COLON, ":"},
		{token.INTEGER, "integer"},
		{token.ASSIGN, "="},
		{token.INT, "5"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "x"},
		{token.PLUSEQ, "+="},
		{token.INT, "1"},
		{token.SEMICOLON, ";"},
		{token.IF, "if"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.LTE, "<="},
		{token.INT, "10"},
		{token.AND, "&&"},
		{token.IDENT, "x"},
		{token.NEQ, "!="},
		{token.INT, "0"},
		{token.RPAREN, ")"},
		{token.THEN, "then"},
		{token.IDENT, "x"},
		{token.DEC, "--"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		got := l.NextToken()
		if got.Type != tt.wantType {
			t.Fatalf("token[%d] type = %s, want %s (lit %q)", i, got.Type, tt.wantType, got.Literal)
		}
		if got.Literal != tt.wantLit {
			t.Fatalf("token[%d] literal = %q, want %q", i, got.Literal, tt.wantLit)
		}
	}
}

func TestDateLiteralRecognition(t *testing.T) {
	tests := []struct {
		input    string
		wantType token.Type
	}{
		{`'2024-01-15'`, token.DATE},
		{`'2024-01-15 10:30'`, token.DATE},
		{`'2024-01-15 10:30:05'`, token.DATE},
		{`'hello world'`, token.STRING},
		{`'2024-1-15'`, token.STRING}, // not zero-padded: not a strict date
	}
	for _, tt := range tests {
		l := New(tt.input)
		got := l.NextToken()
		if got.Type != tt.wantType {
			t.Errorf("input %q: type = %s, want %s", tt.input, got.Type, tt.wantType)
		}
	}
}

func TestQualifiedIdentifierScansAsDotChain(t *testing.T) {
	l := New("string.upper(x)")
	want := []struct {
		typ token.Type
		lit string
	}{
		{token.STRING_T, "string"},
		{token.DOT, "."},
		{token.IDENT, "upper"},
		{token.LPAREN, "("},
	}
	for _, w := range want {
		tok := l.NextToken()
		if tok.Type != w.typ || tok.Literal != w.lit {
			t.Fatalf("got %s %q, want %s %q", tok.Type, tok.Literal, w.typ, w.lit)
		}
	}
}

func TestNumberSuffixes(t *testing.T) {
	tests := []struct {
		input    string
		wantType token.Type
	}{
		{"5", token.INT},
		{"5l", token.LONG},
		{"5.5", token.DOUBLE},
		{"5.5f", token.FLOAT},
		{"1e10", token.DOUBLE},
	}
	for _, tt := range tests {
		l := New(tt.input)
		got := l.NextToken()
		if got.Type != tt.wantType {
			t.Errorf("input %q: type = %s, want %s", tt.input, got.Type, tt.wantType)
		}
	}
}

func TestUnterminatedStringRecordsError(t *testing.T) {
	l := New(`'unterminated`)
	l.NextToken()
	if len(l.Errors) == 0 {
		t.Fatalf("expected a lexer error for unterminated string")
	}
}

func TestBlockCommentBalances(t *testing.T) {
	l := New("/* a comment */ 5")
	tok := l.NextToken()
	if tok.Type != token.COMMENT {
		t.Fatalf("expected COMMENT, got %s", tok.Type)
	}
	tok = l.NextToken()
	if tok.Type != token.INT || tok.Literal != "5" {
		t.Fatalf("expected INT 5 after comment, got %s %q", tok.Type, tok.Literal)
	}
}

func TestTokenizeEndsWithEOF(t *testing.T) {
	toks := Tokenize("var x = 1;")
	if toks[len(toks)-1].Type != token.EOF {
		t.Fatalf("last token = %s, want EOF", toks[len(toks)-1].Type)
	}
}
