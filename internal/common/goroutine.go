// -----------------------------------------------------------------------
// Safe Goroutine - Panic-protected worker functions
// -----------------------------------------------------------------------

package common

import (
	"fmt"

	"github.com/ternarybob/arbor"
)

// SafeFunc wraps fn so a panic inside it is logged and returned as an error instead of
// crashing the process. Use it for functions handed to an errgroup.
//
// Example:
//
//	g.Go(common.SafeFunc(logger, "summarize", func() error {
//	    return summarize(ctx, group)
//	}))
func SafeFunc(logger arbor.ILogger, name string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				stackTrace := GetStackTrace()
				if logger != nil {
					logger.Error().
						Str("goroutine", name).
						Str("panic", fmt.Sprintf("%v", r)).
						Str("stack", stackTrace).
						Msg("Recovered from panic in worker")
				}
				err = fmt.Errorf("panic in %s: %v", name, r)
			}
		}()
		return fn()
	}
}
