// Package runtime provides the tick-driven scheduler used by the helpers.
// This file contains panic recovery utilities.
package runtime

import (
	"fmt"
	"runtime/debug"

	"github.com/corrreia/gostrike-utils/internal/bridge"
)

// logPanicError reports a recovered panic through the host console
func logPanicError(context string, panicVal interface{}, stack string) {
	bridge.LogError("PANIC", "Panic in %s: %v\n%s", context, panicVal, stack)
}

// SafeCall calls a function with panic recovery
// Returns true if the function completed without panicking
func SafeCall(context string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logPanicError(context, r, string(debug.Stack()))
			ok = false
		}
	}()
	fn()
	return true
}

// SafeCallWithError calls a function with panic recovery
// If a panic occurs, returns an error
func SafeCallWithError(context string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logPanicError(context, r, string(debug.Stack()))
			err = fmt.Errorf("panic in %s: %v", context, r)
		}
	}()
	return fn()
}
