package security

import (
	"testing"

	"showtime/api/model"
)

func TestCanMatrix(t *testing.T) {
	dmOnlyOps := []Op{OpFogDraw, OpFogClear, OpGridToggle, OpTokenPlace, OpTokenDelete, OpShowTime}
	sharedOps := []Op{OpBoxOwn, OpPing, OpDiceRoll, OpViewMap}

	for _, op := range dmOnlyOps {
		if !Can(model.RoleDM, op) {
			t.Errorf("dm denied %s", op)
		}
		if Can(model.RolePlayer, op) {
			t.Errorf("player allowed %s", op)
		}
		if Can(model.RoleSpectator, op) {
			t.Errorf("spectator allowed %s", op)
		}
	}
	for _, op := range sharedOps {
		for _, role := range []string{model.RoleDM, model.RolePlayer, model.RoleSpectator} {
			if !Can(role, op) {
				t.Errorf("%s denied %s", role, op)
			}
		}
	}
	if Can("admin", OpPing) || Can("", OpViewMap) {
		t.Error("unknown role granted an operation")
	}
}

func TestAllowedOpsHidesDMOperations(t *testing.T) {
	playerOps := AllowedOps(model.RolePlayer)
	for _, op := range playerOps {
		if dmOnly[op] {
			t.Errorf("player advertised dm-only op %s", op)
		}
	}
	if len(playerOps) != 4 {
		t.Fatalf("player ops = %v", playerOps)
	}
	if len(AllowedOps(model.RoleDM)) != 10 {
		t.Fatalf("dm ops = %v", AllowedOps(model.RoleDM))
	}
	if len(AllowedOps("bogus")) != 0 {
		t.Fatal("unknown role got operations")
	}
}

func TestCanEditBox(t *testing.T) {
	if !CanEditBox(model.RoleDM, "v9", "someone-else") {
		t.Fatal("dm must edit any box")
	}
	if !CanEditBox(model.RolePlayer, "v1", "v1") {
		t.Fatal("player denied own box")
	}
	if CanEditBox(model.RolePlayer, "v1", "v2") {
		t.Fatal("player edited another's box")
	}
	if CanEditBox(model.RolePlayer, "", "") {
		t.Fatal("empty viewer matched empty creator")
	}
}

func TestCheckPassphraseCaseSensitive(t *testing.T) {
	if !CheckPassphrase("Mellon", "Mellon") {
		t.Fatal("exact match rejected")
	}
	if CheckPassphrase("mellon", "Mellon") {
		t.Fatal("case-insensitive match accepted")
	}
	if CheckPassphrase("", "") {
		t.Fatal("unset expected passphrase must never elevate")
	}
	if CheckPassphrase("Mellon ", "Mellon") {
		t.Fatal("trailing whitespace accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	raw, err := IssueToken(secret, "v1", "Rin", true)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := ParseToken(secret, raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ViewerNo != "v1" || claims.DisplayName != "Rin" || !claims.Elevated {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := ParseToken("wrong-secret", raw); err == nil {
		t.Fatal("token verified with the wrong secret")
	}
	if _, err := ParseToken(secret, raw+"x"); err == nil {
		t.Fatal("tampered token accepted")
	}
	if _, err := ParseToken(secret, "not-a-token"); err == nil {
		t.Fatal("garbage accepted")
	}
}
