// Package sink writes recorded frames as SVG, PNG or PDF.
//
// SVG is produced in-process. PNG and PDF go through SVG and rsvg-convert.
package sink
