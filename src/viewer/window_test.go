package viewer

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"testing"

	"fyne.io/fyne/v2/test"
)

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestShow(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	w := New(a, "EDA")
	if err := w.Show("hist", encodePNG(t)); err != nil {
		t.Fatal(err)
	}
	if got := w.Titles(); len(got) != 1 || got[0] != "hist" {
		t.Errorf("titles = %v", got)
	}

	if err := w.Show("broken", []byte("not a png")); err == nil {
		t.Error("invalid image should fail")
	}
}

func TestShowKeepsRecentTabs(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	w := New(a, "EDA")
	img := encodePNG(t)
	for i := 0; i < MaxTabs+5; i++ {
		if err := w.Show(fmt.Sprintf("plot %d", i), img); err != nil {
			t.Fatal(err)
		}
	}
	titles := w.Titles()
	if len(titles) != MaxTabs {
		t.Fatalf("got %d tabs, want %d", len(titles), MaxTabs)
	}
	if titles[0] != "plot 5" {
		t.Errorf("oldest tab = %q, want plot 5", titles[0])
	}
}
