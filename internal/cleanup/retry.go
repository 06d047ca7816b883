package cleanup

import "time"

// attemptState is the explicit state of one retry sequence. Modeling the
// loop as a state machine keeps attempt counts and delays independently
// testable, instead of burying them in an ad hoc loop-and-sleep.
type attemptState int

const (
	stateAttempting attemptState = iota
	stateRetrying
	stateSucceeded
	stateFailed
)

// retrier runs an operation up to maxAttempts times with a fixed delay
// between attempts. The sleep function is injectable so tests can count
// delays without waiting them out.
type retrier struct {
	maxAttempts int
	delay       time.Duration
	sleep       func(time.Duration)

	state    attemptState
	attempts int
}

func newRetrier(maxAttempts int, delay time.Duration) *retrier {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &retrier{
		maxAttempts: maxAttempts,
		delay:       delay,
		sleep:       time.Sleep,
	}
}

// do drives the state machine to a terminal state and returns the last
// error, or nil on success.
func (r *retrier) do(op func() error) error {
	var lastErr error

	r.state = stateAttempting
	for {
		switch r.state {
		case stateAttempting:
			r.attempts++
			lastErr = op()
			switch {
			case lastErr == nil:
				r.state = stateSucceeded
			case r.attempts < r.maxAttempts:
				r.state = stateRetrying
			default:
				r.state = stateFailed
			}

		case stateRetrying:
			r.sleep(r.delay)
			r.state = stateAttempting

		case stateSucceeded:
			return nil

		case stateFailed:
			return lastErr
		}
	}
}

// Attempts reports how many attempts were made.
func (r *retrier) Attempts() int { return r.attempts }
