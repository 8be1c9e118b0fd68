package lex

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yuri91/wasp/lib/token"
)

func lexAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New([]byte(src), nil)
	var out []token.Token
	for {
		tok, _, err := l.Next()
		require.Nil(t, err)
		if tok.Kind == token.Eof {
			return out
		}
		out = append(out, tok)
	}
}

func TestLexerSkipsWhitespaceAndLineComments(t *testing.T) {
	toks := lexAll(t, "  (module ;; a comment\n  (func))")
	kinds := make([]token.Kind, len(toks))
	for i, tk := range toks {
		kinds[i] = tk.Kind
	}
	require.Equal(t, []token.Kind{
		token.Lpar, token.KwModule, token.Lpar, token.KwFunc, token.Rpar, token.Rpar,
	}, kinds)
}

func TestLexerSkipsNestedBlockComments(t *testing.T) {
	toks := lexAll(t, "(; outer (; inner ;) still outer ;) (func)")
	require.Len(t, toks, 3)
	require.Equal(t, token.Lpar, toks[0].Kind)
	require.Equal(t, token.KwFunc, toks[1].Kind)
	require.Equal(t, token.Rpar, toks[2].Kind)
}

func TestLexerReadsIdentifier(t *testing.T) {
	toks := lexAll(t, "$foo_bar")
	require.Len(t, toks, 1)
	require.Equal(t, token.Id, toks[0].Kind)
	require.Equal(t, "$foo_bar", toks[0].Text)
}

func TestLexerReportsEmptyIdentifier(t *testing.T) {
	l := New([]byte("$ "), nil)
	_, _, err := l.Next()
	require.NotNil(t, err)
}

func TestLexerReadsTextLiteral(t *testing.T) {
	toks := lexAll(t, `"hello\tworld"`)
	require.Len(t, toks, 1)
	require.Equal(t, token.Text, toks[0].Kind)

	decoded, err := DecodeText(toks[0].Text)
	require.NoError(t, err)
	require.Equal(t, "hello\tworld", string(decoded))
}

func TestLexerCollectsAnnotations(t *testing.T) {
	l := New([]byte("(@custom foo) (func)"), nil)
	tok, annots, err := l.Next()
	require.Nil(t, err)
	require.Len(t, annots, 1)
	require.Equal(t, token.LparAnn, annots[0][0].Kind)
	require.Equal(t, token.Lpar, tok.Kind)
}

func TestDecodeTextUnicodeEscape(t *testing.T) {
	decoded, err := DecodeText(`"\u{48}\u{65}\u{6c}\u{6c}\u{6f}"`)
	require.NoError(t, err)
	require.Equal(t, "Hello", string(decoded))
}

func TestDecodeTextRejectsUnquoted(t *testing.T) {
	_, err := DecodeText("hello")
	require.Error(t, err)
}
