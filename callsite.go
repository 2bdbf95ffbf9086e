package logease

import (
	"path/filepath"
	"runtime"
	"strings"
)

// CallSite is the source location a log call was issued from.
type CallSite struct {
	File     string
	Function string
	Line     int
}

// Caller returns the CallSite skip frames above its own caller.
// Caller(0) describes the function that called Caller.
// An unknown site is returned if the stack is not deep enough.
func Caller(skip int) CallSite {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return CallSite{File: "???", Function: "???"}
	}
	site := CallSite{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		site.Function = shortFuncName(fn.Name())
	}
	return site
}

// shortFuncName strips the import path and package name from a runtime function name
// and drops pointer receiver decoration:
//
//	github.com/x/y/pkg.(*server).handle -> server.handle
//	main.main.func1                     -> main.func1
func shortFuncName(name string) string {
	name = filepath.Base(name)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ReplaceAll(name, "(*", "")
	return strings.ReplaceAll(name, ")", "")
}
