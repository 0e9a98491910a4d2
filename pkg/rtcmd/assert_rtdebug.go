//go:build rtdebug

package rtcmd

import "sync/atomic"

// The ring is strictly SPSC; concurrent producers are undefined
// behavior. Builds tagged "rtdebug" assert the contract at runtime
// instead of silently tolerating a violation.

var pushInFlight atomic.Bool

func debugEnterProducer() {
	if !pushInFlight.CompareAndSwap(false, true) {
		panic("rtcmd: concurrent producer detected on Ring.Push (SPSC contract violated)")
	}
}

func debugLeaveProducer() {
	pushInFlight.Store(false)
}
