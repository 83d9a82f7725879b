package wiki

import (
	"errors"
	"strings"
	"testing"
)

const illinoisPage = `<html><body>
<p>Lead paragraph.</p>
<table class="infobox vcard"><tbody>
<tr><th>Type</th><td>Public university</td></tr>
<tr><th>Established</th><td>1867; 158 years ago (1867)</td></tr>
<tr><th>Undergraduates</th><td>37,140 (2024)</td></tr>
</tbody></table>
<table class="wikitable"><tbody><tr><td>unrelated</td></tr></tbody></table>
</body></html>`

func TestInfoboxJoinsCellsWithoutSeparator(t *testing.T) {
	text, err := Infobox(illinoisPage)
	if err != nil {
		t.Fatalf("expected infobox, got error: %v", err)
	}

	if !strings.Contains(text, "TypePublic university") {
		t.Errorf("expected adjacent cells to run together, got %q", text)
	}
	if !strings.Contains(text, "Established1867; 158 years ago (1867)\n") {
		t.Errorf("expected row to end with a newline, got %q", text)
	}
	if strings.Contains(text, "unrelated") {
		t.Error("expected only the first infobox table")
	}
	if strings.Contains(text, "Lead paragraph") {
		t.Error("expected no text from outside the infobox")
	}
}

func TestInfoboxBreaksOnBr(t *testing.T) {
	page := `<html><body><table class="infobox"><tbody>
<tr><td>Born<br>1815-12-10</td></tr>
</tbody></table></body></html>`

	text, err := Infobox(page)
	if err != nil {
		t.Fatalf("expected infobox, got error: %v", err)
	}
	if !strings.Contains(text, "Born\n1815-12-10") {
		t.Errorf("expected <br> to become a newline, got %q", text)
	}
}

func TestInfoboxSkipsStyleAndScript(t *testing.T) {
	page := `<html><body><table class="infobox"><tbody>
<tr><td><style>.mw{color:red}</style>Established 1867</td></tr>
<tr><td><script>var x=1;</script>more</td></tr>
</tbody></table></body></html>`

	text, err := Infobox(page)
	if err != nil {
		t.Fatalf("expected infobox, got error: %v", err)
	}
	if strings.Contains(text, "color:red") || strings.Contains(text, "var x") {
		t.Errorf("expected style/script content to be dropped, got %q", text)
	}
	if !strings.Contains(text, "Established 1867") {
		t.Errorf("expected cell text to survive, got %q", text)
	}
}

func TestInfoboxClassList(t *testing.T) {
	// The infobox class may appear anywhere in the class list.
	page := `<html><body><table class="box infobox ib-uni vcard"><tbody>
<tr><td>found</td></tr></tbody></table></body></html>`

	text, err := Infobox(page)
	if err != nil {
		t.Fatalf("expected infobox, got error: %v", err)
	}
	if !strings.Contains(text, "found") {
		t.Errorf("unexpected text %q", text)
	}

	// A class merely containing the substring does not count.
	page = `<html><body><table class="infoboxy"><tbody>
<tr><td>x</td></tr></tbody></table></body></html>`
	if _, err := Infobox(page); !errors.Is(err, ErrNoFactBlock) {
		t.Errorf("expected ErrNoFactBlock, got %v", err)
	}
}

func TestInfoboxMissing(t *testing.T) {
	_, err := Infobox(`<html><body><p>plain article</p></body></html>`)
	if !errors.Is(err, ErrNoFactBlock) {
		t.Errorf("expected ErrNoFactBlock, got %v", err)
	}
}

func TestInfoboxFeedsExtraction(t *testing.T) {
	// End to end through Clean-equivalent whitespace: the rendered text must
	// keep the Established row matchable.
	text, err := Infobox(illinoisPage)
	if err != nil {
		t.Fatalf("expected infobox, got error: %v", err)
	}
	if !strings.Contains(text, "Undergraduates37,140") {
		t.Errorf("expected run-together label and value, got %q", text)
	}
}
