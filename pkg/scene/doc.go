// Package scene is a small timeline engine for explanatory animations.
//
// # Overview
//
// A [Builder] collects [Element] values (rectangles, circles, lines, arrows,
// polygons, text and code) and a sequence of steps. Each step either plays a
// set of [Animation] values together or waits. [Builder.Build] freezes the
// result into a [Storyboard], which can be sampled at any instant:
//
//	b := scene.NewBuilder("demo")
//	b.Add(scene.NewCircle("atom", scene.Origin, 0.3))
//	b.Play(scene.FadeIn("atom"))
//	b.Wait(0.5)
//	sb, err := b.Build()
//	frame := sb.At(0.75)
//
// Sampling is a pure function of the storyboard and the time, so repeated
// renders of the same storyboard produce identical frames.
//
// # Coordinates
//
// The world is [WorldWidth] by [WorldHeight] units with the origin at the
// centre and y pointing up. Font sizes and stroke widths are converted with
// [PointSize] and [StrokeUnit].
//
// # Targets
//
// Element IDs are slash separated paths. An animation target is either an
// element ID or a prefix: targeting "l3/zone" animates "l3/zone/box" and
// "l3/zone/label". Widgets use this to group their parts.
//
// # Widgets
//
// [ExplanationBox], [CodeBlock], [LayerLabel], [ZoneBox], [AnimatedQubit],
// [Axes] and [CircuitVisual] build the recurring pieces of the compilation
// walkthrough.
package scene
