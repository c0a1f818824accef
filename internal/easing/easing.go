// Package easing evaluates the easing curves used by island tweens.
package easing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/genricoloni/island/internal/domain"
)

// Func maps progress in [0,1] to eased progress
type Func func(p float64) float64

// Linear is the identity curve
func Linear(p float64) float64 {
	return p
}

// ElasticOut returns the "elastic.out(amplitude, period)" curve as defined by
// GSAP, overshooting and settling on 1.
func ElasticOut(amplitude, period float64) Func {
	p1 := 1.0
	if amplitude >= 1 {
		p1 = amplitude
	}
	if period == 0 {
		period = 0.3
	}
	div := 1.0
	if amplitude < 1 && amplitude > 0 {
		div = amplitude
	}
	p2 := period / div
	p3 := p2 / (2 * math.Pi) * math.Asin(1/p1)
	p2 = 2 * math.Pi / p2

	return func(p float64) float64 {
		if p >= 1 {
			return 1
		}
		if p <= 0 {
			return 0
		}
		return p1*math.Pow(2, -10*p)*math.Sin((p-p3)*p2) + 1
	}
}

// Resolve returns the curve named by e, falling back to Linear
func Resolve(e domain.Ease) Func {
	switch e.Name {
	case "elastic.out":
		return ElasticOut(e.Amplitude, e.Period)
	default:
		return Linear
	}
}

// CSSLinear samples e into a CSS linear() easing function with n+1 stops
func CSSLinear(e domain.Ease, n int) string {
	if n < 1 {
		n = 1
	}
	f := Resolve(e)

	stops := make([]string, 0, n+1)
	for i := 0; i <= n; i++ {
		stops = append(stops, strconv.FormatFloat(f(float64(i)/float64(n)), 'f', 4, 64))
	}
	return fmt.Sprintf("linear(%s)", strings.Join(stops, ", "))
}
