package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/progitman/progitman/internal/client/activation"
	"github.com/progitman/progitman/internal/client/hybrid"
	"github.com/progitman/progitman/internal/models"
)

func (a *App) list(ctx context.Context) {
	profiles, err := a.service.ListProfiles(ctx)
	if err != nil {
		a.reportError(err)
		return
	}

	if len(profiles) == 0 {
		fmt.Println("No profiles yet. Use 'add' to create one.")
		return
	}

	for _, p := range profiles {
		marker := " "
		if p.Active {
			marker = "*"
		}
		fmt.Printf("%s %s  %-20s %-30s %s\n", marker, p.ID, p.Name, p.Email, p.Expiry)
	}
}

func (a *App) show(ctx context.Context, id string) {
	pin, err := GetSecret("PIN", os.Stdout)
	if err != nil {
		fmt.Println("Error reading PIN:", err)
		return
	}

	p, err := a.activation.VerifyPIN(ctx, id, pin)
	if err != nil {
		a.reportError(err)
		return
	}

	fmt.Printf("Name:     %s\n", p.Name)
	fmt.Printf("Email:    %s\n", p.Email)
	fmt.Printf("Username: %s\n", p.Username)
	fmt.Printf("Token:    %s\n", p.Token)
	fmt.Printf("Expiry:   %s\n", p.Expiry)
	fmt.Printf("Active:   %v\n", p.Active)
}

func (a *App) add(ctx context.Context) {
	p := &models.Profile{}
	var err error

	if p.Name, err = GetSimpleText(a.reader, "Full name", os.Stdout); err != nil {
		fmt.Println("Error:", err)
		return
	}
	if p.Email, err = GetSimpleText(a.reader, "Email", os.Stdout); err != nil {
		fmt.Println("Error:", err)
		return
	}
	if p.Username, err = GetSimpleText(a.reader, "Account username", os.Stdout); err != nil {
		fmt.Println("Error:", err)
		return
	}
	if p.Expiry, err = GetSimpleText(a.reader, "Token expiry (YYYY-MM-DD)", os.Stdout); err != nil {
		fmt.Println("Error:", err)
		return
	}
	if p.Token, err = GetSecret("Access token", os.Stdout); err != nil {
		fmt.Println("Error:", err)
		return
	}
	if p.PIN, err = GetSecret("PIN", os.Stdout); err != nil {
		fmt.Println("Error:", err)
		return
	}

	stored, err := a.service.SaveProfile(ctx, p)
	if err != nil {
		a.reportError(err)
		return
	}

	fmt.Println("Profile saved with id", stored.ID)
}

// edit re-prompts every field of an existing profile; an empty answer keeps
// the current value.
func (a *App) edit(ctx context.Context, id string) {
	profiles, err := a.service.ListProfiles(ctx)
	if err != nil {
		a.reportError(err)
		return
	}

	var p *models.Profile
	for _, candidate := range profiles {
		if candidate.ID == id {
			p = candidate.Clone()
			break
		}
	}
	if p == nil {
		a.reportError(activation.ErrProfileNotFound)
		return
	}

	prompts := []struct {
		label string
		field *string
	}{
		{"Full name", &p.Name},
		{"Email", &p.Email},
		{"Account username", &p.Username},
		{"Token expiry (YYYY-MM-DD)", &p.Expiry},
	}
	for _, pr := range prompts {
		answer, err := GetSimpleText(a.reader, fmt.Sprintf("%s [%s]", pr.label, *pr.field), os.Stdout)
		if err != nil {
			fmt.Println("Error:", err)
			return
		}
		if answer != "" {
			*pr.field = answer
		}
	}

	token, err := GetSecret("Access token (empty to keep)", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if token != "" {
		p.Token = token
	}
	pin, err := GetSecret("PIN (empty to keep)", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if pin != "" {
		p.PIN = pin
	}

	if _, err := a.service.SaveProfile(ctx, p); err != nil {
		a.reportError(err)
		return
	}
	fmt.Println("Profile updated.")
}

func (a *App) delete(ctx context.Context, id string) {
	if err := a.service.DeleteProfile(ctx, id); err != nil {
		a.reportError(err)
		return
	}
	fmt.Println("Profile deleted.")
}

func (a *App) use(ctx context.Context, id string) {
	pin, err := GetSecret("PIN", os.Stdout)
	if err != nil {
		fmt.Println("Error reading PIN:", err)
		return
	}

	p, err := a.activation.Activate(ctx, id, pin)
	if err != nil {
		a.reportError(err)
		return
	}

	fmt.Printf("Activated profile %s (%s).\n", p.Name, p.Username)
}

func (a *App) sync(ctx context.Context) {
	if err := a.service.ForceSync(ctx); err != nil {
		a.reportError(err)
		return
	}
	fmt.Println("Sync complete.")
}

func (a *App) gitConfig(ctx context.Context) {
	cfg := a.activation.CurrentGitConfig(ctx)
	if len(cfg) == 0 {
		fmt.Println("No global git identity configured.")
		return
	}
	fmt.Printf("user.name:  %s\n", cfg["name"])
	fmt.Printf("user.email: %s\n", cfg["email"])
}

func (a *App) reportError(err error) {
	var dwe *hybrid.DualWriteError
	switch {
	case errors.As(err, &dwe):
		fmt.Println("Both stores rejected the operation:", dwe)
	case errors.Is(err, activation.ErrIncorrectPIN):
		fmt.Println("Incorrect PIN.")
	case errors.Is(err, activation.ErrProfileNotFound):
		fmt.Println("No such profile.")
	default:
		fmt.Println("Error:", err)
	}
}
