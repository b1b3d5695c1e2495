package ids

import "testing"

func TestNewIDsAreUnique(t *testing.T) {
	a := NewKeyID()
	b := NewKeyID()
	if a == b {
		t.Fatalf("expected distinct KeyIDs, got two copies of %q", a)
	}
	if a == "" || b == "" {
		t.Fatalf("expected non-empty identifiers")
	}
}

func TestActorIDVariants(t *testing.T) {
	cases := []struct {
		name string
		id   ActorID
		want string
	}{
		{"system", SystemActor{Component: "export-workflow"}, "system:export-workflow"},
		{"user", UserActor{ID: PersonID("p-1")}, "user:p-1"},
		{"legacy", LegacyActor{Raw: "admin@legacy"}, "legacy:admin@legacy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.id.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}
