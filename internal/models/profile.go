// Package models holds the credential profile record shared by both store
// adapters and the sync engine.
package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Profile is a credential profile: identity fields plus an access token and
// a PIN for a hosted git account.
//
// Token and PIN are the secret fields. They are kept in cleartext on the
// device (the local store is inside the trust boundary) and must never reach
// the remote store unencrypted; the remote adapter seals them into cipher
// envelopes before transmission.
//
// UpdatedAt is assigned by the remote store on write and is used only for
// reconciliation; a zero value means the record has never been accepted
// remotely (or the local copy predates timestamp tracking) and is treated
// as older than any record that carries one.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	PIN       string    `json:"pin"`
	Expiry    string    `json:"expiry"`
	Active    bool      `json:"active,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// NewLocalID mints a device-local identifier for a brand-new profile.
// Local ids are decimal nanosecond strings, which keeps them disjoint from
// the UUIDs the remote store assigns (see IsRemoteID).
func NewLocalID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

// IsRemoteID reports whether id was assigned by the remote store.
// Remote ids are UUIDs; locally minted ids never parse as one.
func IsRemoteID(id string) bool {
	return uuid.Validate(id) == nil
}

// Clone returns an independent copy of p.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// PayloadEquals reports whether p and other agree on every stored field
// except UpdatedAt. Reconciliation uses this to decide whether the remote
// copy needs to be written back to the local store.
func (p *Profile) PayloadEquals(other *Profile) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.ID == other.ID &&
		p.Name == other.Name &&
		p.Email == other.Email &&
		p.Username == other.Username &&
		p.Token == other.Token &&
		p.PIN == other.PIN &&
		p.Expiry == other.Expiry &&
		p.Active == other.Active
}
