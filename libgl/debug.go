package libgl

import (
	"errors"
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"

	"pbr-ibl/log"
)

var logger = log.New("libgl")

// ErrGpuObject is wrapped by every failure to create or complete a gpu object.
var ErrGpuObject = errors.New("gpu object error")

// Debug enables synchronous glGetError polling in CheckError.
var Debug bool

var errorCount atomic.Int64

type LabeledGlObject interface {
	SetDebugLabel(string)
}

func setObjectLabel(namespace, id uint32, label string) {
	if label == "" {
		return
	}
	bytes := []byte(label)
	gl.ObjectLabel(namespace, id, int32(len(bytes)), (*uint8)(unsafe.Pointer(&bytes[0])))
}

// CheckError drains the gl error queue when Debug is set and logs every error against op and the caller.
func CheckError(op string) {
	if !Debug {
		return
	}
	for {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			return
		}
		_, file, line, _ := runtime.Caller(1)
		errorCount.Add(1)
		logger.Errorf("%s failed with 0x%04x at %s:%d", op, code, file, line)
	}
}

// ErrorCount returns the number of gl errors seen by CheckError and the debug callback.
func ErrorCount() int {
	return int(errorCount.Load())
}

// EnableDebugOutput installs a KHR_debug callback. Requires a debug context.
func EnableDebugOutput() {
	State.Enable(DebugOutput)
	State.Enable(DebugOutputSync)
	gl.DebugMessageCallback(func(source, gltype, id, severity uint32, length int32, message string, userParam unsafe.Pointer) {
		switch severity {
		case gl.DEBUG_SEVERITY_HIGH:
			errorCount.Add(1)
			logger.Errorf("GL: %v", message)
		case gl.DEBUG_SEVERITY_MEDIUM:
			logger.Warningf("GL: %v", message)
		case gl.DEBUG_SEVERITY_LOW:
			logger.Infof("GL: %v", message)
		default:
			logger.Debugf("GL: %v", message)
		}
	}, nil)
}
