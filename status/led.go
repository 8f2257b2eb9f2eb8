package status

// LED is the single indicator the signaler drives. Set switches the
// indicator fully on or off; there is no intensity.
type LED interface {
	Set(on bool)
}

// LEDFunc adapts an ordinary function to the LED interface.
type LEDFunc func(on bool)

// Set implements the LED interface.
func (f LEDFunc) Set(on bool) { f(on) }
