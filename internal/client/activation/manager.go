// Package activation puts a stored credential profile into effect on the
// device: it gates access behind the profile's PIN, rewrites the global git
// identity and credential store, and flips the active flag across profiles.
package activation

import (
	"context"
	"errors"
	"fmt"

	"github.com/progitman/progitman/internal/client/hybrid"
	"github.com/progitman/progitman/internal/logging"
	"github.com/progitman/progitman/internal/models"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrIncorrectPIN    = errors.New("incorrect PIN")
)

const credentialHost = "https://github.com"

// Manager activates profiles through the sync facade.
type Manager struct {
	svc    *hybrid.Service
	git    GitRunner
	logger logging.Logger
}

func NewManager(svc *hybrid.Service, git GitRunner, logger logging.Logger) *Manager {
	return &Manager{svc: svc, git: git, logger: logger.With("module", "activation")}
}

// VerifyPIN checks the presented PIN against the stored profile. A verified
// PIN is the precondition for handing out decrypted secret fields.
func (m *Manager) VerifyPIN(ctx context.Context, id, pin string) (*models.Profile, error) {
	profiles, err := m.svc.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading profiles: %w", err)
	}

	for _, p := range profiles {
		if p.ID == id {
			if p.PIN != pin {
				return nil, ErrIncorrectPIN
			}
			return p, nil
		}
	}

	return nil, ErrProfileNotFound
}

// Activate verifies the PIN, configures git with the profile's identity and
// access token, and marks the profile active (all others inactive). The flag
// flips are ordinary saves through the facade, so they replicate like any
// other field change.
func (m *Manager) Activate(ctx context.Context, id, pin string) (*models.Profile, error) {
	target, err := m.VerifyPIN(ctx, id, pin)
	if err != nil {
		return nil, err
	}

	if err := m.configureGit(ctx, target); err != nil {
		return nil, err
	}

	profiles, err := m.svc.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading profiles: %w", err)
	}

	var activated *models.Profile
	for _, p := range profiles {
		active := p.ID == id
		if p.Active == active {
			if active {
				activated = p
			}
			continue
		}

		update := p.Clone()
		update.Active = active
		saved, err := m.svc.SaveProfile(ctx, update)
		if err != nil {
			m.logger.Warn(ctx, "could not persist active flag", "id", p.ID, "error", err)
			continue
		}
		if active {
			activated = saved
		}
	}

	if activated == nil {
		activated = target
	}

	m.logger.Info(ctx, "profile activated", "id", activated.ID, "name", activated.Name)
	return activated, nil
}

func (m *Manager) configureGit(ctx context.Context, p *models.Profile) error {
	if _, err := m.git.Run(ctx, "", "git", "config", "--global", "user.name", p.Name); err != nil {
		return fmt.Errorf("set git user.name: %w", err)
	}
	if _, err := m.git.Run(ctx, "", "git", "config", "--global", "user.email", p.Email); err != nil {
		return fmt.Errorf("set git user.email: %w", err)
	}

	// credential store setup is best effort: git keeps working without it,
	// the operator just gets prompted
	if _, err := m.git.Run(ctx, "", "git", "config", "--global", "credential.helper", "store"); err != nil {
		m.logger.Warn(ctx, "could not set credential helper", "error", err)
	}

	reject := fmt.Sprintf("url=%s\n\n", credentialHost)
	if _, err := m.git.Run(ctx, reject, "git", "credential", "reject"); err != nil {
		m.logger.Debug(ctx, "credential reject failed", "error", err)
	}

	approve := fmt.Sprintf("url=%s\nusername=%s\npassword=%s\n\n", credentialHost, p.Username, p.Token)
	if _, err := m.git.Run(ctx, approve, "git", "credential", "approve"); err != nil {
		m.logger.Warn(ctx, "could not store credential", "error", err)
	}

	return nil
}

// CurrentGitConfig reports the global git identity currently in effect.
// Missing values are omitted rather than treated as errors.
func (m *Manager) CurrentGitConfig(ctx context.Context) map[string]string {
	config := make(map[string]string)

	if name, err := m.git.Run(ctx, "", "git", "config", "--global", "user.name"); err == nil && name != "" {
		config["name"] = name
	}
	if email, err := m.git.Run(ctx, "", "git", "config", "--global", "user.email"); err == nil && email != "" {
		config["email"] = email
	}

	return config
}
