package htmlutil

import (
	"testing"
)

const testHTML = `
<html><head><title> Sample page </title><style>body { color: red }</style></head>
<body>
<h1>Hello   world</h1>
<script>var hidden = "nope";</script>
<p>First
paragraph <b>bold</b></p>
<!-- a comment -->
<noscript>enable js</noscript>
<div>Last</div>
</body></html>
`

func TestVisibleText(t *testing.T) {
	doc, err := LoadHTMLString(testHTML)
	if err != nil {
		t.Fatal(err)
	}
	got := VisibleText(doc)
	want := "Hello world First paragraph bold Last"
	if got != want {
		t.Errorf("VisibleText = %q, want %q", got, want)
	}
}

func TestVisibleTextFragment(t *testing.T) {
	doc, err := LoadHTMLString("just <em>text</em>")
	if err != nil {
		t.Fatal(err)
	}
	if got := VisibleText(doc); got != "just text" {
		t.Errorf("VisibleText = %q", got)
	}
}

func TestTitle(t *testing.T) {
	doc, err := LoadHTMLString(testHTML)
	if err != nil {
		t.Fatal(err)
	}
	if got := Title(doc); got != "Sample page" {
		t.Errorf("Title = %q", got)
	}
}
