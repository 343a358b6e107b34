package outbox

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

type RelayOptions struct {
	PollInterval    time.Duration
	BatchSize       int
	LockTTL         time.Duration
	MaxAttempts     int
	MaxBackoff      time.Duration
	JitterMax       time.Duration
	LastErrorMaxLen int
	DispatchTimeout time.Duration

	ObserveQueueDepthEvery time.Duration

	Logger *logrus.Entry
	Rand   *rand.Rand
}

func (o *RelayOptions) setDefaults() {
	defaultDur(&o.PollInterval, 1*time.Second)
	defaultInt(&o.BatchSize, 100)
	defaultDur(&o.LockTTL, 60*time.Second)
	defaultInt(&o.MaxAttempts, 25)
	defaultDur(&o.MaxBackoff, 60*time.Second)
	defaultDur(&o.JitterMax, 200*time.Millisecond)
	defaultInt(&o.LastErrorMaxLen, 2048)
	defaultDur(&o.DispatchTimeout, 30*time.Second)
	defaultDur(&o.ObserveQueueDepthEvery, 10*time.Second)

	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec
	}
	if o.Logger == nil {
		o.Logger = nopLogger()
	}
}

type CleanerOptions struct {
	Interval      time.Duration
	Retention     time.Duration
	DeadRetention time.Duration

	// DeadAttemptsThreshold identifies dead rows; set it to the relay's
	// MaxAttempts so both agree on what dead means. Required once
	// DeadRetention is set.
	DeadAttemptsThreshold int

	Logger *logrus.Entry
}

func (o *CleanerOptions) setDefaults() {
	defaultDur(&o.Interval, 1*time.Minute)
	defaultDur(&o.Retention, 7*24*time.Hour)

	if o.Logger == nil {
		o.Logger = nopLogger()
	}
}

func defaultDur(d *time.Duration, fallback time.Duration) {
	if *d == 0 {
		*d = fallback
	}
}

func defaultInt(n *int, fallback int) {
	if *n == 0 {
		*n = fallback
	}
}

func nopLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}
