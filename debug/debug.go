package debug

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

func Stack() string {
	var sbb strings.Builder
	WriteStack(&sbb)
	return sbb.String()
}

// WriteStack writes the current call stack to sbb, skipping the runtime
// and the builder frames that sit between the caller's template code and
// the panic site. With the debug build tag set, frames are kept verbatim.
func WriteStack(sbb *strings.Builder) {
	// derived from: https://golang.org/pkg/runtime/#example_Frames
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	if n == 0 {
		return
	}
	pc = pc[:n]
	frames := runtime.CallersFrames(pc)
	for {
		frame, more := frames.Next()
		fe := strings.Split(frame.Function, "/")
		function := fe[len(fe)-1]
		file := frame.File

		if !Debug {
			if strings.Contains(function, "runtime.gopanic") {
				continue
			}
			if strings.Contains(frame.File, "mip/model") {
				continue
			}
			file = filepath.Base(file)
		}

		sbb.WriteString(function)
		sbb.WriteByte('\n')
		sbb.WriteByte('\t')
		sbb.WriteString(file)
		sbb.WriteByte(':')
		sbb.WriteString(strconv.Itoa(frame.Line))
		sbb.WriteByte('\n')
		if !more {
			break
		}
	}
}
