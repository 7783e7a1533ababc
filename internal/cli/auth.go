package cli

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/idilsaglam/todomvc/internal/auth"
	"github.com/idilsaglam/todomvc/internal/ui"
)

// For mocking in tests
var now = time.Now

func (a *app) doAuthLogin(in io.Reader, token, expiresIn string) int {
	if token == "" {
		fmt.Fprint(a.out, "Paste your token: ")
		sc := bufio.NewScanner(in)
		if !sc.Scan() {
			err := sc.Err()
			if err == nil {
				err = io.ErrUnexpectedEOF
			}
			ui.Fail(a.errOut, "read token: "+err.Error())
			return 1
		}
		token = sc.Text()
		fmt.Fprintln(a.out)
	}

	var expires *time.Time
	if expiresIn != "" {
		d, err := time.ParseDuration(expiresIn)
		if err != nil {
			ui.Fail(a.errOut, "expires-in: "+err.Error())
			return 2
		}
		t := now().Add(d)
		expires = &t
	}
	if err := auth.SetToken(token, expires); err != nil {
		ui.Fail(a.errOut, "save token: "+err.Error())
		return 1
	}
	ui.OK(a.out, "logged in")
	return 0
}

func (a *app) doAuthLogout() int {
	ti, err := auth.GetToken()
	if err != nil {
		// an unreadable file is still removed below
		fmt.Fprintf(a.errOut, "warning: %v (removing it anyway)\n", err)
	}
	if ti != nil && ti.Source == "env" {
		ui.OK(a.out, "token is provided by "+auth.EnvToken+" env var (nothing to delete)")
		return 0
	}
	if err := auth.DeleteToken(); err != nil {
		ui.Fail(a.errOut, "logout: "+err.Error())
		return 1
	}
	ui.OK(a.out, "logged out")
	return 0
}

func (a *app) doAuthStatus() int {
	ti, err := auth.GetToken()
	if err != nil {
		ui.Fail(a.errOut, "status: "+err.Error())
		return 1
	}
	if ti == nil {
		fmt.Fprintln(a.out, ui.Dim("not logged in"))
		fmt.Fprintln(a.out, "Run: todomvc auth login")
		return 0
	}
	fmt.Fprintf(a.out, "source: %s\n", ti.Source)
	switch {
	case ti.ExpiresAt == nil:
		fmt.Fprintln(a.out, "expires: (unknown)")
	case ti.Expired(now()):
		fmt.Fprintf(a.out, "expires: %s (expired)\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	default:
		fmt.Fprintf(a.out, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintln(a.out, "env override: "+auth.EnvToken)
	return 0
}

// whoami decodes a JWT payload locally without verifying it; opaque
// tokens only print their source.
func (a *app) doAuthWhoAmI() int {
	ti, err := auth.GetToken()
	if err != nil {
		ui.Fail(a.errOut, "whoami: "+err.Error())
		return 1
	}
	if ti == nil {
		ui.Fail(a.errOut, "not logged in. Run: todomvc auth login")
		return 2
	}
	parts := strings.Split(ti.Token, ".")
	if len(parts) == 3 {
		if p, err := decodeB64URL(parts[1]); err == nil {
			fmt.Fprintln(a.out, "JWT payload:")
			fmt.Fprintln(a.out, p)
			return 0
		}
	}
	fmt.Fprintln(a.out, "Opaque token (cannot introspect locally).")
	fmt.Fprintln(a.out, "source:", ti.Source)
	return 0
}

func decodeB64URL(s string) (string, error) {
	dec, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return "", err
	}
	return string(dec), nil
}
