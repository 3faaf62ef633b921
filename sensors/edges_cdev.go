//go:build linux

package sensors

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/warthog618/go-gpiocdev"
)

// CdevEdges uses the GPIO character device. The kernel timestamps each edge
// when the interrupt fires, so debounce is not disturbed by scheduling delay.
type CdevEdges struct {
	chip   string
	offset int
}

func NewCdevEdges(chip string, offset int) *CdevEdges {
	return &CdevEdges{chip: chip, offset: offset}
}

func (e *CdevEdges) Watch(ctx context.Context, sink EdgeSink) error {
	line, err := gpiocdev.RequestLine(e.chip, e.offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			sink.OnEdge(evt.Timestamp)
		}))
	if err != nil {
		return fmt.Errorf("request line %v/%d: %w", e.chip, e.offset, err)
	}
	logger.Infof("Watching %v line %d for edges", e.chip, e.offset)
	<-ctx.Done()
	if err := line.Close(); err != nil {
		return fmt.Errorf("close line %d: %w", e.offset, err)
	}
	return nil
}
