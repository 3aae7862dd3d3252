package testutils

import "github.com/argus-labs/astro/pkg/assert"

const maxDraws = 32

// Draw hands out values for one case of an exhaustive enumeration. Every value drawn is
// bounded; Exhaust replays the closure until every combination of bounded values was produced.
//
// Bounds may depend on earlier draws, so the enumeration only ever visits reachable cases.
// See https://matklad.github.io/2021/11/07/generate-all-the-things.html for the idea.
type Draw struct {
	digits [maxDraws]struct{ value, bound int }
	depth  int // number of draws made in the current case
	width  int // number of draws recorded for the current prefix
}

// Exhaust runs fn for every combination of values drawn from d and returns the number of cases.
func Exhaust(fn func(d *Draw)) int {
	var d Draw
	cases := 0
	for {
		d.depth = 0
		fn(&d)
		cases++
		d.width = d.depth
		if !d.advance() {
			return cases
		}
	}
}

// advance bumps the rightmost digit that is below its bound and truncates the digits after it.
func (d *Draw) advance() bool {
	for i := d.width - 1; i >= 0; i-- {
		if d.digits[i].value < d.digits[i].bound {
			d.digits[i].value++
			d.width = i + 1
			return true
		}
	}
	return false
}

// Int returns a value in [0, bound].
func (d *Draw) Int(bound int) int {
	assert.That(d.depth < maxDraws, "exhaust: more than %d draws in one case", maxDraws)
	assert.That(bound >= 0, "exhaust: negative bound")
	if d.depth == d.width {
		d.digits[d.depth].value = 0
		d.width++
	}
	d.digits[d.depth].bound = bound
	v := d.digits[d.depth].value
	d.depth++
	return v
}

// Between returns a value in [lo, hi].
func (d *Draw) Between(lo, hi int) int {
	assert.That(lo <= hi, "exhaust: lo > hi")
	return lo + d.Int(hi-lo)
}

// Pick returns one element of a non-empty slice.
func Pick[T any](d *Draw, options []T) T {
	assert.That(len(options) > 0, "exhaust: empty options")
	return options[d.Int(len(options)-1)]
}
