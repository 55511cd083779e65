// Package viz draws scenes in the terminal.
//
// [Canvas] is a Braille pixel grid with 2x4 sub-pixels per cell.
// [CanvasRenderer] rasterises scene sprites onto it and satisfies
// render.Renderer, so the terminal view consumes the same draw calls as the
// windowed one. The lipgloss styles here are shared by the tui package and
// the CLI.
package viz
