package tui

import "time"

const (
	defaultFrameInterval = time.Second / 30
	statusDuration       = 3 * time.Second
)

type FrameMsg struct{}

type StateSavedMsg struct {
	Path string
	Err  error
}

type StateLoadedMsg struct {
	Path string
	Err  error
}
