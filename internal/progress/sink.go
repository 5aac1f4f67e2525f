package progress

import (
	"fmt"
	"github.com/sirupsen/logrus"
	"gitlab.com/woeusb/woeusb-flasher/internal/color"
	"strings"
	"time"
)

const (
	DefaultPollInterval = 100 * time.Millisecond
	BarWidth            = 40
	outputPrefix        = "woeusb"
)

type SinkConfig struct {
	Tracker      *Tracker
	PollInterval time.Duration
	Logger       *logrus.Logger
}

// Sink is the consumer side of the install queue. It never blocks the
// producer for longer than one poll interval.
type Sink struct {
	tracker  *Tracker
	interval time.Duration
	logger   *logrus.Logger
}

func NewSink(config *SinkConfig) *Sink {
	interval := config.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	tracker := config.Tracker
	if tracker == nil {
		tracker = NewTracker()
	}
	return &Sink{
		tracker:  tracker,
		interval: interval,
		logger:   config.Logger,
	}
}

func (s *Sink) Tracker() *Tracker {
	return s.tracker
}

// Drain polls lines once per interval and handles everything queued at each
// tick. It returns after lines is closed and fully drained.
func (s *Sink) Drain(lines <-chan string) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for range ticker.C {
		if !s.drainAvailable(lines) {
			return
		}
	}
}

func (s *Sink) drainAvailable(lines <-chan string) bool {
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return false
			}
			s.handle(line)
		default:
			return true
		}
	}
}

func (s *Sink) handle(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	logger := s.logger.WithField("prefix", outputPrefix)
	if strings.Contains(line, "ERROR:") {
		logger.Error(line)
	} else {
		logger.Info(line)
	}

	if !s.tracker.Observe(line) {
		return
	}
	bar := Bar(s.tracker.Value(), BarWidth)
	switch s.tracker.State() {
	case Succeeded:
		s.logger.Info(color.Green(bar))
	case Failed:
		s.logger.Info(color.Red(bar))
	default:
		s.logger.Info(color.Blue(bar))
	}
}

func Bar(value, width int) string {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	filled := value * width / 100
	return fmt.Sprintf("[%v%v] %3d%%", strings.Repeat("#", filled), strings.Repeat("-", width-filled), value)
}
