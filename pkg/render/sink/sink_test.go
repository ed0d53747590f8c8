package sink

import (
	"testing"

	"github.com/qrying/stackreel/pkg/scene"
)

// demo is a two-section storyboard touching every element kind the sinks
// draw differently.
func demo(t *testing.T) *scene.Storyboard {
	t.Helper()
	b := scene.NewBuilder("Demo <GHZ>")
	b.Section("shapes").Caption("shapes appear")
	b.Add(
		scene.NewRect("box", scene.V(-3, 1), 2, 1).WithFill(scene.Blue.Alpha(0.3)),
		scene.NewCircle("ring", scene.V(0, 1), 0.5),
		scene.NewDot("dot", scene.V(0, 1), 0.1, scene.Purple),
		scene.NewArrow("arrow", scene.V(-3, -1), scene.V(3, -1), 0),
	)
	b.Play(scene.Create("box", "ring", "dot", "arrow"))
	b.Section("text").Caption("text is written")
	b.Add(
		scene.NewText("label", "CZ & H", scene.V(0, 2.5), 24, scene.White),
		scene.NewCode("code", "q = squin.qalloc(3)", scene.V(-4, -2.5), 14, scene.Green),
	)
	b.Play(scene.Create("label", "code"))
	b.Wait(0.5)
	sb, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return sb
}

func item(e scene.Element, progress float64) scene.Item {
	return scene.Item{Element: e, Opacity: 1, Progress: progress}
}
