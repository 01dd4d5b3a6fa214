package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "simple fields",
			line: "a,b,c",
			want: []string{"a", "b", "c"},
		},
		{
			name: "quoted field with embedded comma",
			line: `"Sony TV, 55 inch",2,499.99`,
			want: []string{"Sony TV, 55 inch", "2", "499.99"},
		},
		{
			name: "doubled quote escape",
			line: `"55"" TV",1,100`,
			want: []string{`55" TV`, "1", "100"},
		},
		{
			name: "trailing empty field",
			line: "a,b,",
			want: []string{"a", "b", ""},
		},
		{
			name: "whitespace trimmed",
			line: " a , b ,c ",
			want: []string{"a", "b", "c"},
		},
		{
			name: "unterminated quote treats rest as quoted",
			line: `"broken,field,1`,
			want: []string{"broken,field,1"},
		},
		{
			name: "empty line yields one empty field",
			line: "",
			want: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenizeLine(tt.line))
		})
	}
}

func TestTokenizeLine_RoundTrip(t *testing.T) {
	// Fields without comma/quote/newline must round-trip through a plain join
	fields := []string{"iPhone 14", "2", "999.00", "Apple", "Electronics"}
	assert.Equal(t, fields, TokenizeLine(strings.Join(fields, ",")))
}

func TestTokenizeLine_QuoteRoundTrip(t *testing.T) {
	// A field containing an internal quote round-trips when doubled and wrapped
	original := `55" Smart TV`
	encoded := `"` + strings.ReplaceAll(original, `"`, `""`) + `"`
	got := TokenizeLine(encoded + ",1")
	assert.Equal(t, []string{original, "1"}, got)
}

func TestNormalizeContent(t *testing.T) {
	assert.Equal(t, "a\nb\nc", NormalizeContent("a\r\nb\rc"))
	assert.Equal(t, "x,y", NormalizeContent("\uFEFFx,y"))
}

func TestSplitLines_SkipsBlank(t *testing.T) {
	lines := SplitLines("h1,h2\r\n\r\na,b\n   \nc,d\n")
	assert.Equal(t, []string{"h1,h2", "a,b", "c,d"}, lines)
}

func TestSplitLines_ByteOrderMarkStripped(t *testing.T) {
	lines := SplitLines("\uFEFFDescription,Qty\nWidget,2\n")
	assert.Equal(t, []string{"Description,Qty", "Widget,2"}, lines)
}
