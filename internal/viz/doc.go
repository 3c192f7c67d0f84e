// Package viz renders reaction-diffusion fields in the terminal.
//
// [Heatmap] draws a field with half-block glyphs coloured by a [Palette],
// two grid rows per line. [Model] is a Bubble Tea program that steps a
// simulation in frames and shows the field beside a status panel with a
// mean-U history plot.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single step while paused
//	R     - Reset fields and parameters
//	Tab   - Select parameter, Up/Down to tune it
//	+/-   - Double or halve steps per frame
//	V     - Toggle between U and V
//	P     - Cycle palettes
//	G     - Toggle GIF recording
//
// Recordings are written to [Model.GIFPath] when recording stops.
package viz
