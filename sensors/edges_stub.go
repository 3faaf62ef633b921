//go:build !linux

package sensors

import (
	"context"
	"errors"
)

// CdevEdges is not available on non-Linux platforms.
type CdevEdges struct{}

func NewCdevEdges(string, int) *CdevEdges {
	return &CdevEdges{}
}

func (e *CdevEdges) Watch(context.Context, EdgeSink) error {
	return errors.New("gpiocdev: not supported on this platform (requires Linux)")
}
