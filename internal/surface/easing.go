package surface

// Easing maps normalized time t in [0,1] to progress. Overshooting curves may
// leave [0,1] in between but always return 0 at t=0 and 1 at t=1.
type Easing func(t float64) float64

// overshoot is the standard back-easing constant.
const overshoot = 1.70158

// Linear progresses at constant speed.
func Linear(t float64) float64 {
	return clamp01(t)
}

// OutBack overshoots the target and settles back.
func OutBack(t float64) float64 {
	t = clamp01(t)
	c3 := overshoot + 1
	u := t - 1
	return 1 + c3*u*u*u + overshoot*u*u
}

// InOutQuad accelerates through the first half and decelerates through the second.
func InOutQuad(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// Lerp interpolates between a and b by progress p.
func Lerp(a, b, p float64) float64 {
	return a + (b-a)*p
}

func clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}
