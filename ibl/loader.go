package ibl

import (
	"fmt"
	"sync"
)

type DecodeFunc func(path string) (*HdrImage, error)

// Loader decodes one environment image on a background goroutine.
type Loader struct {
	decode DecodeFunc
	slot   Slot[HdrImage]
	once   sync.Once
	done   chan struct{}
	err    error
}

// NewLoader uses DecodeFile with a vertical flip when decode is nil.
func NewLoader(decode DecodeFunc) *Loader {
	if decode == nil {
		decode = func(path string) (*HdrImage, error) {
			return DecodeFile(path, true)
		}
	}
	return &Loader{
		decode: decode,
		done:   make(chan struct{}),
	}
}

// LoadAsync starts the decode and returns immediately. Only the first call has an effect.
// There is no way to cancel a started load.
func (l *Loader) LoadAsync(path string) {
	l.once.Do(func() {
		go l.load(path)
	})
}

func (l *Loader) load(path string) {
	defer close(l.done)

	img, err := l.decode(path)
	if err == nil && img == nil {
		err = fmt.Errorf("%w: decoder returned no image", ErrAsset)
	}
	if err == nil {
		err = img.Validate()
	}
	if err != nil {
		l.err = err
		logger.Errorf("failed to load environment %q: %v", path, err)
		return
	}

	logger.Debugf("loaded environment %q (%dx%d)", path, img.Width, img.Height)
	l.slot.Publish(img)
}

// TryTake returns the decoded image exactly once, nil before that and after.
func (l *Loader) TryTake() *HdrImage {
	return l.slot.TryTake()
}

// Done is closed when the background goroutine has exited.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// Err is the load failure. Only valid after Done is closed.
func (l *Loader) Err() error {
	select {
	case <-l.done:
		return l.err
	default:
		return nil
	}
}
