package sbl

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-graphviz"
)

func TestRenderEnsembleChain(t *testing.T) {
	ensemble := &Ensemble{Threshold: 0.5}
	ensemble.Append(Stump{Dimension: 0, Threshold: 5, Polarity: 1, Error: 0.1}, 2.2)
	ensemble.Append(Stump{Dimension: 3, Threshold: -1.5, Polarity: -1, Error: 0.2}, 1.4)

	var buf bytes.Buffer
	if err := ensemble.Render(&buf, graphviz.XDOT); err != nil {
		t.Fatalf("render: %v", err)
	}
	dot := buf.String()
	for _, fragment := range []string{"stump_0", "stump_1", "decision", "f_0 <", "f_3 >"} {
		if !strings.Contains(dot, fragment) {
			t.Fatalf("rendered graph has no %q:\n%s", fragment, dot)
		}
	}
}

func TestRenderEnsembleUnknownFormat(t *testing.T) {
	ensemble := &Ensemble{}
	err := ensemble.RenderEnsemble(filepath.Join(t.TempDir(), "model.gif"), "gif")
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
