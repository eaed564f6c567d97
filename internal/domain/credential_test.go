package domain

import "testing"

func TestCredentialValidate(t *testing.T) {
	cases := []struct {
		name    string
		cred    Credential
		wantErr bool
	}{
		{"valid", Credential{Email: "adam@user.com", Password: "adam123!"}, false},
		{"bad email", Credential{Email: "adam", Password: "adam123!"}, true},
		{"too short", Credential{Email: "adam@user.com", Password: "a1!"}, true},
		{"no digit", Credential{Email: "adam@user.com", Password: "adamadam!"}, true},
		{"no letter", Credential{Email: "adam@user.com", Password: "12345678!"}, true},
		{"no special", Credential{Email: "adam@user.com", Password: "adam1234"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cred.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for %+v", tc.cred)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
