package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/RockySheoran/supabase-login-demo/internal/auth"
)

// Reconciler maps a verified identity to a local profile, creating one with
// derived defaults when absent. It is the ONLY place where claim-to-profile
// mapping logic lives.
type Reconciler struct {
	store   Store
	timeout time.Duration
	log     *zap.Logger
}

func NewReconciler(store Store, timeout time.Duration, log *zap.Logger) *Reconciler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Reconciler{store: store, timeout: timeout, log: log}
}

// Resolve returns the profile for the claim's subject id, creating it when
// missing. Two requests racing on the same first-ever creation must not both
// insert: a unique-constraint conflict falls back to a fresh lookup, so the
// contract stays an idempotent get-or-create. Any other create failure is
// fatal to the flow; no session is issued without a profile.
func (r *Reconciler) Resolve(ctx context.Context, claim *auth.IdentityClaim) (*Profile, error) {
	if claim == nil || claim.SubjectID == "" {
		return nil, auth.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	p, err := r.store.GetByID(ctx, claim.SubjectID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: lookup: %w", auth.ErrProfileCreationFailed, err)
	}

	fresh := FromClaim(claim)
	err = r.store.Create(ctx, &fresh)
	if err == nil {
		r.log.Info("profile created",
			zap.String("subject_id", fresh.ID),
			zap.String("provider", fresh.Provider),
		)
		return &fresh, nil
	}

	if errors.Is(err, ErrDuplicate) {
		// Lost the creation race; the winner's row is authoritative.
		p, lookupErr := r.store.GetByID(ctx, claim.SubjectID)
		if lookupErr != nil {
			return nil, fmt.Errorf("%w: post-conflict lookup: %w", auth.ErrProfileCreationFailed, lookupErr)
		}
		return p, nil
	}

	return nil, fmt.Errorf("%w: %w", auth.ErrProfileCreationFailed, err)
}
