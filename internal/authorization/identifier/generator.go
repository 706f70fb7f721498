// Package identifier issues authorization numbers and validity windows for
// approved cases.
package identifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autoriza/internal/authorization/models"
	dErrors "autoriza/pkg/domain-errors"
	"autoriza/pkg/platform/sentinel"
)

// Validity windows per approval type. Emergency approvals get a shorter
// window reflecting the narrower clinical timeframe.
const (
	standardValidity  = 30 * 24 * time.Hour
	emergencyValidity = 5 * 24 * time.Hour
)

// maxAttempts bounds collision retries before escalating as a configuration
// error.
const maxAttempts = 3

// SequenceAllocator hands out monotonically increasing sequence values.
type SequenceAllocator interface {
	Next(ctx context.Context) (uint64, error)
}

// NumberRegistry reserves issued numbers so a misconfigured allocator (e.g.
// two deployments sharing a year) cannot hand the same number to two cases.
// Reserve returns sentinel.ErrConflict when the number is already taken.
type NumberRegistry interface {
	Reserve(ctx context.Context, number string) error
}

// Grant is an issued authorization number plus its validity window.
type Grant struct {
	Number     string
	ValidFrom  time.Time
	ValidUntil time.Time
}

// Generator issues authorization numbers in the AUT-{year}-{8 digits} format.
// Pure apart from the injected allocator/registry; safe for concurrent use
// across unrelated cases.
type Generator struct {
	seq      SequenceAllocator
	registry NumberRegistry
}

func NewGenerator(seq SequenceAllocator, registry NumberRegistry) (*Generator, error) {
	if seq == nil {
		return nil, fmt.Errorf("sequence allocator is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("number registry is required")
	}
	return &Generator{seq: seq, registry: registry}, nil
}

// Issue produces a unique authorization number and the validity window for
// the approval type. On collision it regenerates, up to maxAttempts, then
// escalates with an identifier_collision error.
func (g *Generator) Issue(ctx context.Context, approval models.ApprovalType, now time.Time) (Grant, error) {
	validity := standardValidity
	if approval == models.ApprovalEmergency {
		validity = emergencyValidity
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		seq, err := g.seq.Next(ctx)
		if err != nil {
			return Grant{}, dErrors.Wrap(dErrors.CodeInternal, "allocate authorization sequence", err)
		}
		number := fmt.Sprintf("AUT-%d-%08d", now.Year(), seq%100_000_000)

		err = g.registry.Reserve(ctx, number)
		if err == nil {
			return Grant{
				Number:     number,
				ValidFrom:  now,
				ValidUntil: now.Add(validity),
			}, nil
		}
		if !errors.Is(err, sentinel.ErrConflict) {
			return Grant{}, dErrors.Wrap(dErrors.CodeInternal, "reserve authorization number", err)
		}
	}

	return Grant{}, dErrors.New(dErrors.CodeIdentifierCollision,
		fmt.Sprintf("authorization number collided %d times, sequence source is misconfigured", maxAttempts))
}
