package orchestrator

import (
	"context"
	"testing"

	"keyforge/internal/domain/natsaccount"
	"keyforge/internal/domain/natsoperator"
	"keyforge/internal/domain/natsuser"
	"keyforge/internal/ids"
	"keyforge/internal/secret"
)

// TestProvisionNatsTrustChainActivatesAllThreeTiers drives operator →
// account → user end to end and checks each aggregate lands Active, and
// that the export manifest picks up all three as entries.
func TestProvisionNatsTrustChainActivatesAllThreeTiers(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()
	passphrase := secret.New("correct horse battery staple extra words")
	defer passphrase.Close()

	o.StartBootstrap(ids.NewOrgID(), "Acme Corp")

	operatorID, err := o.ProvisionNatsOperator(ctx, passphrase, "acme-messaging")
	if err != nil {
		t.Fatalf("ProvisionNatsOperator: %v", err)
	}
	accountID, err := o.ProvisionNatsAccount(ctx, passphrase, operatorID, "payments")
	if err != nil {
		t.Fatalf("ProvisionNatsAccount: %v", err)
	}
	userID, err := o.ProvisionNatsUser(ctx, passphrase, accountID, "ingest-worker")
	if err != nil {
		t.Fatalf("ProvisionNatsUser: %v", err)
	}

	if o.natsOperators[operatorID].Status != natsoperator.Active {
		t.Fatalf("expected operator Active, got %s", o.natsOperators[operatorID].Status)
	}
	if o.natsAccounts[accountID].Status != natsaccount.Active {
		t.Fatalf("expected account Active, got %s", o.natsAccounts[accountID].Status)
	}
	if o.natsUsers[userID].Status != natsuser.Active {
		t.Fatalf("expected user Active, got %s", o.natsUsers[userID].Status)
	}
	if o.natsAccounts[accountID].OperatorID != operatorID {
		t.Fatalf("expected account to reference its parent operator")
	}
	if o.natsUsers[userID].AccountID != accountID {
		t.Fatalf("expected user to reference its parent account")
	}

	entries := o.collectEntries()
	kinds := map[string]int{}
	for _, e := range entries {
		kinds[e.Kind]++
	}
	if kinds["nats-operator"] != 1 || kinds["nats-account"] != 1 || kinds["nats-user"] != 1 {
		t.Fatalf("expected exactly one manifest entry per nats tier, got %+v", kinds)
	}
}

// TestProvisionNatsAccountRequiresExistingOperator rejects an account
// provisioned against an operator id this orchestrator never created.
func TestProvisionNatsAccountRequiresExistingOperator(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()
	passphrase := secret.New("correct horse battery staple extra words")
	defer passphrase.Close()

	o.StartBootstrap(ids.NewOrgID(), "Acme Corp")

	if _, err := o.ProvisionNatsAccount(ctx, passphrase, ids.NatsOperatorID("does-not-exist"), "payments"); err == nil {
		t.Fatalf("expected an error provisioning an account under an unknown operator")
	}
}

// TestProvisionNatsOperatorDeterministicAcrossSameSeed confirms the NATS
// trust chain inherits the same determinism guarantee as the PKI: same
// passphrase + org + purpose tag always derives the same operator key.
func TestProvisionNatsOperatorDeterministicAcrossSameSeed(t *testing.T) {
	o1 := newTestOrchestrator(t)
	o2 := newTestOrchestrator(t)
	ctx := context.Background()
	passphrase := secret.New("same passphrase for both runs")
	defer passphrase.Close()

	orgID := ids.NewOrgID()
	o1.StartBootstrap(orgID, "Acme")
	o2.StartBootstrap(orgID, "Acme")

	op1, err := o1.ProvisionNatsOperator(ctx, passphrase, "acme-messaging")
	if err != nil {
		t.Fatalf("ProvisionNatsOperator o1: %v", err)
	}
	op2, err := o2.ProvisionNatsOperator(ctx, passphrase, "acme-messaging")
	if err != nil {
		t.Fatalf("ProvisionNatsOperator o2: %v", err)
	}

	kp1 := o1.keyPairs[o1.natsOperators[op1].KeyID]
	kp2 := o2.keyPairs[o2.natsOperators[op2].KeyID]
	pub1, err := publicKeyBytes(kp1)
	if err != nil {
		t.Fatalf("publicKeyBytes kp1: %v", err)
	}
	pub2, err := publicKeyBytes(kp2)
	if err != nil {
		t.Fatalf("publicKeyBytes kp2: %v", err)
	}
	if string(pub1) != string(pub2) {
		t.Fatalf("expected the same passphrase+org+purpose to derive an identical nats operator key")
	}
}
