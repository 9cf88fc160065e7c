package services

import (
	"time"

	portssvc "github.com/SscSPs/remittance_ledger/internal/core/ports/services"
)

const defaultRecordLockTTL = 10 * time.Second

type serviceOptions struct {
	now       func() time.Time
	publisher portssvc.EntryPublisher
	locker    portssvc.RecordLocker
	lockTTL   time.Duration
}

// ServiceOption is a functional option shared by the ledger services
type ServiceOption func(*serviceOptions)

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(o *serviceOptions) {
		o.now = now
	}
}

// WithEntryPublisher announces every committed entry.
func WithEntryPublisher(p portssvc.EntryPublisher) ServiceOption {
	return func(o *serviceOptions) {
		o.publisher = p
	}
}

// WithRecordLocker serializes reassignments of the same record across processes.
func WithRecordLocker(l portssvc.RecordLocker, ttl time.Duration) ServiceOption {
	return func(o *serviceOptions) {
		o.locker = l
		o.lockTTL = ttl
	}
}

func applyOptions(options []ServiceOption) serviceOptions {
	o := serviceOptions{lockTTL: defaultRecordLockTTL}
	for _, option := range options {
		option(&o)
	}
	if o.lockTTL <= 0 {
		o.lockTTL = defaultRecordLockTTL
	}
	return o
}
