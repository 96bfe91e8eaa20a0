//go:build !linux

package main

import (
	"os"
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	// The global hotkey hook needs the process main thread here.
	mainthread.Init(func() { os.Exit(run()) })
}
