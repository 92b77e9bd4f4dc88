package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/motionlab/internal/config"
	"github.com/san-kum/motionlab/internal/scene"
)

func buttonTrace(t *testing.T) *scene.Trace {
	t.Helper()
	sc, err := scene.Build(config.GetPreset("button"), nil)
	if err != nil {
		t.Fatal(err)
	}
	return sc.Run(60)
}

func TestTraceSVG(t *testing.T) {
	tr := buttonTrace(t)

	var buf bytes.Buffer
	if err := TraceSVG(&buf, tr, DefaultSVGOptions()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<?xml") || !strings.HasSuffix(out, "</svg>\n") {
		t.Error("not a complete svg document")
	}
	if got := strings.Count(out, "<path "); got != len(tr.Columns) {
		t.Errorf("paths = %d, want %d", got, len(tr.Columns))
	}
	for _, name := range tr.Columns {
		if !strings.Contains(out, ">"+name+"</text>") {
			t.Errorf("legend missing %s", name)
		}
	}
	strokes := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		if i := strings.Index(line, `stroke="`); i >= 0 && strings.HasPrefix(line, "<path") {
			strokes[line[i:i+16]] = true
		}
	}
	if len(strokes) != len(tr.Columns) {
		t.Errorf("expected a distinct color per column, got %v", strokes)
	}
}

func TestTraceSVGStaysInFrame(t *testing.T) {
	tr := buttonTrace(t)
	opts := SVGOptions{Width: 200, Height: 100, Shared: true}

	var buf bytes.Buffer
	if err := TraceSVG(&buf, tr, opts); err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(buf.String(), "\n") {
		if !strings.HasPrefix(line, "<path") {
			continue
		}
		d := line[strings.Index(line, `d="`):]
		if strings.Contains(d, "-") {
			t.Errorf("negative coordinate in %s", d)
		}
	}
}

func TestEmptyTrace(t *testing.T) {
	var buf bytes.Buffer
	if err := TraceSVG(&buf, &scene.Trace{}, SVGOptions{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<path") {
		t.Error("empty trace should draw no paths")
	}
	if escape("a<b&c") != "a&lt;b&amp;c" {
		t.Error("legend text should be escaped")
	}
}
