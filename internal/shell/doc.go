// Package shell implements the interactive command loop of ratelens.
//
// The loop shows a numbered menu, reads one command per line and runs it
// against a SeriesService. Commands may be typed as menu numbers, names,
// or one-liners with arguments:
//
//	period 2023-01-01 2023-03-31
//	month 2023-02
//	deviation 2.5
//
// Charts go to a render.ChartRenderer and tables to a render.TablePrinter.
// Input errors are reported and the loop continues; end of input exits.
package shell
