// Package viz hosts an engine in the terminal through Bubble Tea. Each grid
// cell is one terminal cell; terminal focus is the visibility signal and
// the window size is the container box.
package viz
