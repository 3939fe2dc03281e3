package textextract_test

import (
	"errors"
	"testing"

	"github.com/doeshing/bizlens/internal/application/textextract"
	"github.com/doeshing/bizlens/internal/domain"
	"github.com/doeshing/bizlens/internal/infrastructure/htmldoc"
	"github.com/doeshing/bizlens/internal/ports"
)

func TestExtractReadableText(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "script dropped and double space split",
			markup: "<html><script>ignored()</script><p>Hello  World</p></html>",
			want:   "Hello\nWorld",
		},
		{
			name:   "style dropped",
			markup: "<style>body { color: red }</style><p>Visible</p>",
			want:   "Visible",
		},
		{
			name:   "lines trimmed and blanks removed",
			markup: "<div>   first   </div>\n\n<div>\t</div><p> second</p>",
			want:   "first\nsecond",
		},
		{
			name:   "table columns become phrases",
			markup: "<table><tr><td>Q1</td><td>Revenue up</td></tr></table>",
			want:   "Q1\nRevenue up",
		},
		{
			name:   "single spaces preserved",
			markup: "<p>one two three</p>",
			want:   "one two three",
		},
		{
			name:   "triple space is one split",
			markup: "<p>a   b</p>",
			want:   "a\nb",
		},
		{
			name:   "empty document",
			markup: "",
			want:   "",
		},
	}

	parser := htmldoc.NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := textextract.ExtractReadableText(parser, tt.markup)
			if err != nil {
				t.Fatalf("ExtractReadableText() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractReadableText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractReadableTextIsIdempotent(t *testing.T) {
	parser := htmldoc.NewParser()
	inputs := []string{
		"<html><script>ignored()</script><p>Hello  World</p></html>",
		"<h1>Title</h1><ul><li>a  b</li><li>c</li></ul>",
		"plain   text\nwith lines",
	}

	for _, in := range inputs {
		once, err := textextract.ExtractReadableText(parser, in)
		if err != nil {
			t.Fatal(err)
		}
		twice, err := textextract.ExtractReadableText(parser, once)
		if err != nil {
			t.Fatal(err)
		}
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestExtractReadableTextDecodesEntitiesOnce(t *testing.T) {
	parser := htmldoc.NewParser()
	tests := []struct {
		markup    string
		wantOnce  string
		wantTwice string
	}{
		{markup: "<p>use &lt;b&gt;bold&lt;/b&gt; tags</p>", wantOnce: "use <b>bold</b> tags", wantTwice: "use bold tags"},
		{markup: "<p>AT&amp;amp;T</p>", wantOnce: "AT&amp;T", wantTwice: "AT&T"},
	}

	for _, tt := range tests {
		once, err := textextract.ExtractReadableText(parser, tt.markup)
		if err != nil {
			t.Fatal(err)
		}
		if once != tt.wantOnce {
			t.Errorf("first pass of %q = %q, want %q", tt.markup, once, tt.wantOnce)
		}
		twice, err := textextract.ExtractReadableText(parser, once)
		if err != nil {
			t.Fatal(err)
		}
		if twice != tt.wantTwice {
			t.Errorf("second pass of %q = %q, want %q", tt.markup, twice, tt.wantTwice)
		}
	}
}

func TestExtractReadableTextDeterministic(t *testing.T) {
	parser := htmldoc.NewParser()
	in := "<div>alpha  beta</div><p>gamma</p>"
	first, _ := textextract.ExtractReadableText(parser, in)
	for i := 0; i < 10; i++ {
		got, _ := textextract.ExtractReadableText(parser, in)
		if got != first {
			t.Fatalf("run %d produced %q, want %q", i, got, first)
		}
	}
}

func TestExtractReadableTextParseErrors(t *testing.T) {
	_, err := textextract.ExtractReadableText(htmldoc.NewParser(), "<p>\xff\xfe</p>")
	if !errors.Is(err, domain.ErrParseFailure) {
		t.Fatalf("invalid UTF-8: error = %v, want parse failure", err)
	}

	_, err = textextract.ExtractReadableText(failingParser{}, "<p>x</p>")
	var parseErr *domain.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("parser failure: error = %v, want *domain.ParseError", err)
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   \n\t\n", ""},
		{"  a  ", "a"},
		{"a  b  c", "a\nb\nc"},
		{"a\r\nb", "a\nb"},
		{"x\u2028y", "x\ny"},
	}
	for _, tt := range tests {
		if got := textextract.NormalizeText(tt.in); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type failingParser struct{}

func (failingParser) Parse(string) (ports.Document, error) {
	return nil, errors.New("tokenizer exploded")
}
