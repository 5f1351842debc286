package cpu

// DefaultSpeed is the default number of instructions executed per second.
const DefaultSpeed = 700

// Quirks selects between behaviors on which historical interpreters disagree.
// The zero value selects the behavior documented for each field.
type Quirks struct {
	// ShiftVY makes 8XY6 and 8XYE shift VY and store the result in VX.
	// By default VX is shifted in place and VY is ignored.
	ShiftVY bool

	// WrapSprites makes DXYN wrap pixels around the display edges.
	// By default pixels beyond the right or bottom edge are clipped.
	// The start position always wraps.
	WrapSprites bool

	// IncrementIndex makes FX55 and FX65 leave I pointing past the last
	// register transferred. By default I is left unmodified.
	IncrementIndex bool

	// FlagLast makes 8XY4 through 8XYE write VF after VX, so the flag wins
	// when X is VF. By default VF is written first and VX is computed
	// from the updated registers.
	FlagLast bool
}

// Config defines session configuration.
type Config struct {
	Speed  int    // Instructions per second the caller steps at.
	Seed   int64  // Seed for the CXNN random source. 0 seeds from the clock.
	Quirks Quirks // Behavior selection for ambiguous instructions.
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		Speed: DefaultSpeed,
	}
}
