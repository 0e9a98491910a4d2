//go:build !rtdebug

package rtcmd

func debugEnterProducer() {}

func debugLeaveProducer() {}
