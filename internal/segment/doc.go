// Package segment sizes size-capped exports into fixed-duration parts.
package segment
