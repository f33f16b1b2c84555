package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts time so billing periods can be tested deterministically.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

var Module = fx.Provide(func() Clock { return SystemClock{} })
