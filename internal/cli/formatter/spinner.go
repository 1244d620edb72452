package formatter

import (
	"fmt"
	"io"
	"sync"
	"time"
)

const (
	frameInterval = 80 * time.Millisecond
	clearLine     = "\r\033[K"
)

var thinkingFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// StartSpinner animates message on w, followed by the seconds spent waiting,
// until the returned stop is called. stop clears the line, blocks until the
// last frame is written and may be called more than once.
func StartSpinner(w io.Writer, message string) (stop func()) {
	quit := make(chan struct{})
	done := make(chan struct{})
	started := time.Now()

	go func() {
		defer close(done)
		tick := time.NewTicker(frameInterval)
		defer tick.Stop()

		for frame := 0; ; frame++ {
			select {
			case <-quit:
				io.WriteString(w, clearLine)
				return
			case now := <-tick.C:
				glyph := thinkingFrames[frame%len(thinkingFrames)]
				fmt.Fprintf(w, "\r  %s %s %s", StylePurple.Render(glyph), Dim(message), Dim(elapsedLabel(now.Sub(started))))
			}
		}
	}()

	return sync.OnceFunc(func() {
		close(quit)
		<-done
	})
}

func elapsedLabel(d time.Duration) string {
	return fmt.Sprintf("%ds", int(d/time.Second))
}
